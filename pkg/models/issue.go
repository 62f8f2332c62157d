package models

import "time"

type Issue struct {
	ID          int    `json:"id" db:"id"`
	IssueType   string `json:"issueType" db:"issue_type"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Priority    string `json:"priority" db:"priority"`
	Status      string `json:"status" db:"status"`

	AssetID *int `json:"asset,omitempty" db:"asset_id"`

	IncidentDate     *time.Time `json:"incidentDate,omitempty" db:"incident_date"`
	IncidentLocation string     `json:"incidentLocation,omitempty" db:"incident_location"`

	MaintenanceType string  `json:"maintenanceType,omitempty" db:"maintenance_type"`
	EstimatedCost   float64 `json:"estimatedCost,omitempty" db:"estimated_cost"`

	DeviceType      string  `json:"deviceType,omitempty" db:"device_type"`
	Justification   string  `json:"justification,omitempty" db:"justification"`
	PreferredBrand  string  `json:"preferredBrand,omitempty" db:"preferred_brand"`
	PreferredModel  string  `json:"preferredModel,omitempty" db:"preferred_model"`
	EstimatedBudget float64 `json:"estimatedBudget,omitempty" db:"estimated_budget"`

	AssignedTo      *int       `json:"assignedTo,omitempty" db:"assigned_to"`
	ResolvedBy      *int       `json:"resolvedBy,omitempty" db:"resolved_by"`
	ResolvedAt      *time.Time `json:"resolvedAt,omitempty" db:"resolved_at"`
	ResolutionNotes string     `json:"resolutionNotes,omitempty" db:"resolution_notes"`

	ReportedBy int       `json:"reportedBy" db:"reported_by"`
	Department string    `json:"department" db:"department"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

func (i *Issue) CreateLogView() AuditEntry {
	return AuditEntry{
		ResourceID:   i.ID,
		ResourceType: "issue",
	}
}

type CreateIssueRequest struct {
	IssueType   string `json:"issueType" binding:"required,oneof=incident maintenance replacement new_device"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`

	AssetID *int `json:"asset"`

	IncidentDate     *time.Time `json:"incidentDate" time_format:"2006-01-02"`
	IncidentLocation string     `json:"incidentLocation"`

	MaintenanceType string  `json:"maintenanceType" binding:"omitempty,oneof=repair replacement upgrade preventive"`
	EstimatedCost   float64 `json:"estimatedCost" binding:"omitempty,gte=0"`

	DeviceType      string  `json:"deviceType"`
	Justification   string  `json:"justification"`
	PreferredBrand  string  `json:"preferredBrand"`
	PreferredModel  string  `json:"preferredModel"`
	EstimatedBudget float64 `json:"estimatedBudget" binding:"omitempty,gte=0"`
}

type UpdateIssueRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in_progress resolved complete rejected"`
}

type IssueFilter struct {
	ReportedBy int
	Status     string
	IssueType  string
	Priority   string
	AssignedTo int
	Search     string
}

type IssueStats struct {
	TotalIssues int            `json:"totalIssues"`
	ByStatus    map[string]int `json:"byStatus"`
	ByPriority  map[string]int `json:"byPriority"`
}
