package repository

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

const auditListLimit = 500

func (r *Repository) PersistAuditEntry(entry models.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to serialize audit details: %w", err)
	}

	query := r.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"actor_id":      entry.ActorID,
			"action":        entry.Action,
			"resource_type": entry.ResourceType,
			"resource_id":   entry.ResourceID,
			"details":       string(details),
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}

	return nil
}

// GetAuditEntries returns the newest entries first, capped at 500.
func (r *Repository) GetAuditEntries() ([]models.AuditEntry, error) {
	var entries []models.AuditEntry

	rows, err := r.DB.Query(`
		SELECT id, actor_id, action, resource_type, resource_id, details, created_at
		FROM audit_logs
		ORDER BY id DESC
		LIMIT $1`, auditListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.AuditEntry
		var details []byte
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Action, &entry.ResourceType, &entry.ResourceID, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to decode audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
