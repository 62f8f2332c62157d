package models

import (
	"time"

	"github.com/luganzimathiasjoseph/ARPM/pkg/metadata"
)

// Asset is the aggregate root for one tracked item: identity, placement,
// lifecycle state and the two append-only ledgers.
type Asset struct {
	ID           int    `json:"id" db:"id"`
	AssetTag     string `json:"assetId" db:"asset_tag"`
	SerialNumber string `json:"serialNumber" db:"serial_number"`
	Name         string `json:"name" db:"name"`
	Brand        string `json:"brand" db:"brand"`
	Model        string `json:"model" db:"model"`
	Description  string `json:"description,omitempty" db:"description"`
	Engravement  string `json:"engravement,omitempty" db:"engravement"`
	MACAddress   string `json:"macAddress,omitempty" db:"mac_address"`

	Category Category `json:"category"`

	PurchaseDate       *time.Time `json:"purchaseDate"`
	WarrantyExpiryDate *time.Time `json:"warrantyExpiryDate,omitempty"`
	Cost               float64    `json:"cost" db:"cost"`
	Supplier           string     `json:"supplier,omitempty" db:"supplier"`
	InvoiceNumber      string     `json:"invoiceNumber,omitempty" db:"invoice_number"`

	Department string   `json:"department" db:"department"`
	Location   Location `json:"location"`
	AssignedTo *UserRef `json:"assignedTo,omitempty"`

	Status    metadata.Status    `json:"status" db:"status"`
	Condition metadata.Condition `json:"condition" db:"condition"`

	LastMaintenanceDate     *time.Time         `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceSchedule *time.Time         `json:"nextMaintenanceSchedule,omitempty"`
	MaintenanceHistory      []MaintenanceEntry `json:"maintenanceHistory"`
	MovementLog             []MovementEntry    `json:"movementLog"`

	DepreciationMethod metadata.DepreciationMethod `json:"depreciationMethod" db:"depreciation_method"`
	UsefulLifeMonths   int                         `json:"usefulLifeMonths" db:"useful_life_months"`

	CreatedBy UserRef   `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// MaintenanceEntry is one row of the maintenance ledger. Entries are append
// only; insertion order is the chronological record.
type MaintenanceEntry struct {
	ID           int       `json:"id,omitempty" db:"id"`
	Date         time.Time `json:"date" db:"entry_date"`
	Type         string    `json:"type" db:"entry_type"`
	Description  string    `json:"description" db:"description"`
	TechnicianID *int      `json:"technician,omitempty" db:"technician_id"`
	Cost         float64   `json:"cost,omitempty" db:"cost"`
	Parts        []string  `json:"parts,omitempty"`
}

// MovementEntry records a change of placement. The from fields hold the
// placement before the move, never client-supplied values.
type MovementEntry struct {
	ID             int       `json:"id,omitempty" db:"id"`
	Date           time.Time `json:"date" db:"entry_date"`
	FromLocationID *int      `json:"fromLocation,omitempty" db:"from_location_id"`
	ToLocationID   int       `json:"toLocation" db:"to_location_id"`
	FromDepartment string    `json:"fromDepartment,omitempty" db:"from_department"`
	ToDepartment   string    `json:"toDepartment" db:"to_department"`
	FromUserID     *int      `json:"fromUser,omitempty" db:"from_user_id"`
	ToUserID       *int      `json:"toUser,omitempty" db:"to_user_id"`
	Reason         string    `json:"reason,omitempty" db:"reason"`
	AuthorizedBy   int       `json:"authorizedBy" db:"authorized_by"`
}

// AssetPlacement is the current placement snapshot read under lock before a
// move commits.
type AssetPlacement struct {
	ID         int    `db:"id"`
	LocationID int    `db:"location_id"`
	Department string `db:"department"`
	AssignedTo *int   `db:"assigned_to"`
}

// FlatAssetRecord is the joined row shape the repository scans into before
// building the aggregate.
type FlatAssetRecord struct {
	ID                      int        `db:"id"`
	AssetTag                string     `db:"asset_tag"`
	SerialNumber            string     `db:"serial_number"`
	Name                    string     `db:"name"`
	Brand                   string     `db:"brand"`
	Model                   string     `db:"model"`
	Description             string     `db:"description"`
	Engravement             string     `db:"engravement"`
	MACAddress              string     `db:"mac_address"`
	PurchaseDate            *time.Time `db:"purchase_date"`
	WarrantyExpiryDate      *time.Time `db:"warranty_expiry_date"`
	Cost                    float64    `db:"cost"`
	Supplier                string     `db:"supplier"`
	InvoiceNumber           string     `db:"invoice_number"`
	Department              string     `db:"department"`
	Status                  string     `db:"status"`
	Condition               string     `db:"condition"`
	LastMaintenanceDate     *time.Time `db:"last_maintenance_date"`
	NextMaintenanceSchedule *time.Time `db:"next_maintenance_schedule"`
	DepreciationMethod      string     `db:"depreciation_method"`
	UsefulLifeMonths        int        `db:"useful_life_months"`
	CreatedAt               time.Time  `db:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at"`
	LocationID              int        `db:"location_id"`
	LocationName            string     `db:"location_name"`
	CategoryID              int        `db:"category_id"`
	CategoryName            string     `db:"category_name"`
	AssignedToID            *int       `db:"assigned_to"`
	AssignedToName          *string    `db:"assigned_to_name"`
	CreatedByID             int        `db:"created_by"`
	CreatedByName           string     `db:"created_by_name"`
}

func (fa *FlatAssetRecord) TransformToAsset() Asset {
	asset := Asset{
		ID:                      fa.ID,
		AssetTag:                fa.AssetTag,
		SerialNumber:            fa.SerialNumber,
		Name:                    fa.Name,
		Brand:                   fa.Brand,
		Model:                   fa.Model,
		Description:             fa.Description,
		Engravement:             fa.Engravement,
		MACAddress:              fa.MACAddress,
		PurchaseDate:            fa.PurchaseDate,
		WarrantyExpiryDate:      fa.WarrantyExpiryDate,
		Cost:                    fa.Cost,
		Supplier:                fa.Supplier,
		InvoiceNumber:           fa.InvoiceNumber,
		Department:              fa.Department,
		Status:                  metadata.Status(fa.Status),
		Condition:               metadata.Condition(fa.Condition),
		LastMaintenanceDate:     fa.LastMaintenanceDate,
		NextMaintenanceSchedule: fa.NextMaintenanceSchedule,
		DepreciationMethod:      metadata.DepreciationMethod(fa.DepreciationMethod),
		UsefulLifeMonths:        fa.UsefulLifeMonths,
		CreatedAt:               fa.CreatedAt,
		UpdatedAt:               fa.UpdatedAt,
		Location: Location{
			ID:   fa.LocationID,
			Name: fa.LocationName,
		},
		Category: Category{
			ID:   fa.CategoryID,
			Name: fa.CategoryName,
		},
		CreatedBy: UserRef{
			ID:   fa.CreatedByID,
			Name: fa.CreatedByName,
		},
	}

	if fa.AssignedToID != nil {
		ref := UserRef{ID: *fa.AssignedToID}
		if fa.AssignedToName != nil {
			ref.Name = *fa.AssignedToName
		}
		asset.AssignedTo = &ref
	}

	return asset
}

func (a *Asset) CreateLogView() AuditEntry {
	return AuditEntry{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}

// AssetSummary is the trimmed shape returned by quick search.
type AssetSummary struct {
	ID           int    `json:"id" db:"id"`
	AssetTag     string `json:"assetId" db:"asset_tag"`
	Name         string `json:"name" db:"name"`
	SerialNumber string `json:"serialNumber" db:"serial_number"`
	Status       string `json:"status,omitempty" db:"status"`
	Condition    string `json:"condition,omitempty" db:"condition"`
	CategoryName string `json:"categoryName,omitempty" db:"category_name"`
}

type AssetStats struct {
	TotalAssets int            `json:"totalAssets"`
	TotalValue  float64        `json:"totalValue"`
	ByStatus    map[string]int `json:"byStatus"`
	ByCondition map[string]int `json:"byCondition"`
}

// BarcodePayload is the shape consumed by client-side barcode/QR generators.
type BarcodePayload struct {
	BarcodeText string `json:"barcodeText"`
	QRData      QRData `json:"qrData"`
}

type QRData struct {
	ID           int    `json:"id"`
	AssetTag     string `json:"assetId"`
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	Condition    string `json:"condition"`
	MACAddress   string `json:"macAddress"`
	Engravement  string `json:"engravement"`
}
