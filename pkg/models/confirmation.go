package models

import "time"

// Confirmation is a signed acknowledgement that an asset was received by or
// returned from its assignee.
type Confirmation struct {
	ID               int       `json:"id" db:"id"`
	AssetID          int       `json:"asset" db:"asset_id"`
	ConfirmationType string    `json:"confirmationType" db:"confirmation_type"`
	Condition        string    `json:"condition" db:"condition"`
	Notes            string    `json:"notes,omitempty" db:"notes"`
	DamageReport     string    `json:"damageReport,omitempty" db:"damage_report"`
	Location         string    `json:"location,omitempty" db:"location"`
	Department       string    `json:"department,omitempty" db:"department"`
	ConfirmedBy      int       `json:"confirmedBy" db:"confirmed_by"`
	ConfirmedAt      time.Time `json:"confirmationTimestamp" db:"confirmed_at"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

func (c *Confirmation) CreateLogView() AuditEntry {
	return AuditEntry{
		ResourceID:   c.ID,
		ResourceType: "confirmation",
	}
}

type CreateConfirmationRequest struct {
	AssetID          int    `json:"asset" binding:"required"`
	ConfirmationType string `json:"confirmationType" binding:"required,oneof=receipt return"`
	Condition        string `json:"condition" binding:"required,oneof=new good fair poor"`
	Notes            string `json:"notes"`
	DamageReport     string `json:"damageReport"`
	Location         string `json:"location"`
	Department       string `json:"department"`
}
