package models

import "time"

// CreateAssetRequest is the typed input for asset registration. Unknown JSON
// fields are rejected at the boundary; the actor identity is never read from
// the body.
type CreateAssetRequest struct {
	AssetTag     string `json:"assetId" binding:"omitempty"`
	SerialNumber string `json:"serialNumber" binding:"required"`
	Name         string `json:"name" binding:"required"`
	CategoryID   int    `json:"category" binding:"required"`
	Brand        string `json:"brand" binding:"required"`
	Model        string `json:"model" binding:"required"`
	Description  string `json:"description"`
	Engravement  string `json:"engravement"`
	MACAddress   string `json:"macAddress"`

	PurchaseDate       time.Time  `json:"purchaseDate" binding:"required" time_format:"2006-01-02"`
	WarrantyExpiryDate *time.Time `json:"warrantyExpiryDate" time_format:"2006-01-02"`
	Cost               float64    `json:"cost" binding:"omitempty,gte=0"`
	Supplier           string     `json:"supplier"`
	InvoiceNumber      string     `json:"invoiceNumber"`

	Department string `json:"department" binding:"required"`
	LocationID int    `json:"location" binding:"required"`
	AssignedTo *int   `json:"assignedTo"`

	Status    string `json:"status"`
	Condition string `json:"condition"`

	LastMaintenanceDate     *time.Time `json:"lastMaintenanceDate" time_format:"2006-01-02"`
	NextMaintenanceSchedule *time.Time `json:"nextMaintenanceSchedule" time_format:"2006-01-02"`

	DepreciationMethod string `json:"depreciationMethod"`
	UsefulLifeMonths   int    `json:"usefulLifeMonths" binding:"omitempty,gt=0"`
}

// UpdateAssetRequest carries optional field updates; nil means unchanged.
type UpdateAssetRequest struct {
	SerialNumber *string `json:"serialNumber"`
	Name         *string `json:"name"`
	CategoryID   *int    `json:"category"`
	Brand        *string `json:"brand"`
	Model        *string `json:"model"`
	Description  *string `json:"description"`
	Engravement  *string `json:"engravement"`
	MACAddress   *string `json:"macAddress"`

	PurchaseDate       *time.Time `json:"purchaseDate" time_format:"2006-01-02"`
	WarrantyExpiryDate *time.Time `json:"warrantyExpiryDate" time_format:"2006-01-02"`
	Cost               *float64   `json:"cost" binding:"omitempty,gte=0"`
	Supplier           *string    `json:"supplier"`
	InvoiceNumber      *string    `json:"invoiceNumber"`

	Department *string `json:"department"`
	LocationID *int    `json:"location"`
	AssignedTo *int    `json:"assignedTo"`

	LastMaintenanceDate     *time.Time `json:"lastMaintenanceDate" time_format:"2006-01-02"`
	NextMaintenanceSchedule *time.Time `json:"nextMaintenanceSchedule" time_format:"2006-01-02"`

	DepreciationMethod *string `json:"depreciationMethod"`
	UsefulLifeMonths   *int    `json:"usefulLifeMonths" binding:"omitempty,gt=0"`
}

func (r *UpdateAssetRequest) HasChanges() bool {
	return r.SerialNumber != nil || r.Name != nil || r.CategoryID != nil ||
		r.Brand != nil || r.Model != nil || r.Description != nil ||
		r.Engravement != nil || r.MACAddress != nil || r.PurchaseDate != nil ||
		r.WarrantyExpiryDate != nil || r.Cost != nil || r.Supplier != nil ||
		r.InvoiceNumber != nil || r.Department != nil || r.LocationID != nil ||
		r.AssignedTo != nil || r.LastMaintenanceDate != nil ||
		r.NextMaintenanceSchedule != nil || r.DepreciationMethod != nil ||
		r.UsefulLifeMonths != nil
}

// UpdateStatusRequest drives the lifecycle transition operation.
type UpdateStatusRequest struct {
	Status    string `json:"status" binding:"required"`
	Condition string `json:"condition" binding:"required"`
	Notes     string `json:"notes"`
}

// MoveAssetRequest carries the target placement of a move. The previous
// placement is read from the aggregate, never from the client.
type MoveAssetRequest struct {
	ToLocationID int    `json:"toLocation" binding:"required"`
	ToDepartment string `json:"toDepartment" binding:"required"`
	ToUserID     *int   `json:"toUser"`
	Reason       string `json:"reason"`
}

// AssetFilter narrows a listing; zero values mean no filtering.
type AssetFilter struct {
	Status     string
	Condition  string
	CategoryID int
	Department string
	LocationID int
	AssignedTo int
	Search     string
}
