package models

import "time"

type WorkOrder struct {
	ID            int        `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description,omitempty" db:"description"`
	AssetID       *int       `json:"asset,omitempty" db:"asset_id"`
	AssignedTo    *int       `json:"assignedTo,omitempty" db:"assigned_to"`
	Status        string     `json:"status" db:"status"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty" db:"scheduled_date"`
	PartsUsed     []string   `json:"partsUsed,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

func (w *WorkOrder) CreateLogView() AuditEntry {
	return AuditEntry{
		ResourceID:   w.ID,
		ResourceType: "work_order",
	}
}

type CreateWorkOrderRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	AssetID       *int       `json:"asset"`
	AssignedTo    *int       `json:"assignedTo"`
	Status        string     `json:"status" binding:"omitempty,oneof=open in_progress completed cancelled"`
	ScheduledDate *time.Time `json:"scheduledDate" time_format:"2006-01-02"`
	PartsUsed     []string   `json:"partsUsed"`
}
