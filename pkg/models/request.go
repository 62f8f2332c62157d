package models

import "time"

// AssetRequest is a staff request for new or replacement equipment.
type AssetRequest struct {
	ID          int        `json:"id" db:"id"`
	RequesterID int        `json:"requester" db:"requester_id"`
	Type        string     `json:"type" db:"request_type"`
	Category    string     `json:"category,omitempty" db:"category"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	Status      string     `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty" db:"decided_at"`
}

func (r *AssetRequest) CreateLogView() AuditEntry {
	return AuditEntry{
		ResourceID:   r.ID,
		ResourceType: "asset_request",
	}
}

type CreateAssetRequestRequest struct {
	Type     string `json:"type" binding:"required,oneof=new replacement"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

// UpdateConditionRequest is the self-service condition report a staff member
// files for an asset assigned to them.
type UpdateConditionRequest struct {
	AssetID   int    `json:"assetId" binding:"required"`
	Condition string `json:"condition" binding:"required"`
}
