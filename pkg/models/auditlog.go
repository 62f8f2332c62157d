package models

import "time"

// AuditEntry is one row of the append-only system audit trail.
type AuditEntry struct {
	ID           int                    `json:"id" db:"id"`
	ActorID      int                    `json:"actorId" db:"actor_id"`
	Action       string                 `json:"action" db:"action"`
	ResourceType string                 `json:"resourceType" db:"resource_type"`
	ResourceID   int                    `json:"resourceId" db:"resource_id"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    time.Time              `json:"createdAt" db:"created_at"`
}
