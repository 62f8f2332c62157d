package assets

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/metadata"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

// AssetRepository is the persistence surface the asset service works
// against. Ledger appends and the matching current-state updates run inside
// WithinTransaction so both commit or neither does.
type AssetRepository interface {
	MaxAssetTag() (string, error)
	PersistAsset(req models.CreateAssetRequest, tag string, createdBy int, now time.Time) (int, error)
	GetAsset(id int) (*models.Asset, error)
	GetAssets(filter models.AssetFilter) ([]models.Asset, error)
	SearchAssets(q string, limit int) ([]models.AssetSummary, error)
	UpdateAsset(id int, req models.UpdateAssetRequest, now time.Time) error
	DeleteAsset(id int) (bool, error)
	GetAssetStats() (*models.AssetStats, error)

	WithinTransaction(fn func(tx *goqu.TxDatabase) error) error
	GetAssetPlacementForUpdate(tx *goqu.TxDatabase, id int) (*models.AssetPlacement, error)
	InsertMaintenanceEntry(tx *goqu.TxDatabase, assetID int, entry models.MaintenanceEntry) error
	SetAssetState(tx *goqu.TxDatabase, id int, status metadata.Status, condition metadata.Condition, now time.Time) error
	InsertMovementEntry(tx *goqu.TxDatabase, assetID int, entry models.MovementEntry) error
	SetAssetPlacement(tx *goqu.TxDatabase, id int, locationID int, department string, assignedTo *int, now time.Time) error

	CategoryExists(id int) (bool, error)
	LocationExists(id int) (bool, error)
	UserExists(id int) (bool, error)
}

type assetRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) AssetRepository {
	return &assetRepositoryImpl{repository: r}
}

// MaxAssetTag returns the highest allocated tag matching the generated
// format, or empty when none exist. The suffix is fixed-width and zero
// padded, so ordering by the tag column descending yields the numeric max.
func (r *assetRepositoryImpl) MaxAssetTag() (string, error) {
	var tag string

	query := r.repository.GoquDBWrapper.Select("asset_tag").
		From("assets").
		Where(goqu.L(`asset_tag ~ '^AST-\d{5}$'`)).
		Order(goqu.I("asset_tag").Desc()).
		Limit(1)

	found, err := query.Executor().ScanVal(&tag)
	if err != nil {
		return "", fmt.Errorf("failed to find max asset tag: %w", err)
	}
	if !found {
		return "", nil
	}

	return tag, nil
}

func (r *assetRepositoryImpl) PersistAsset(req models.CreateAssetRequest, tag string, createdBy int, now time.Time) (int, error) {
	record := goqu.Record{
		"asset_tag":                 tag,
		"serial_number":             req.SerialNumber,
		"name":                      req.Name,
		"category_id":               req.CategoryID,
		"brand":                     req.Brand,
		"model":                     req.Model,
		"description":               req.Description,
		"engravement":               req.Engravement,
		"mac_address":               req.MACAddress,
		"purchase_date":             req.PurchaseDate,
		"warranty_expiry_date":      req.WarrantyExpiryDate,
		"cost":                      req.Cost,
		"supplier":                  req.Supplier,
		"invoice_number":            req.InvoiceNumber,
		"department":                req.Department,
		"location_id":               req.LocationID,
		"assigned_to":               req.AssignedTo,
		"status":                    req.Status,
		"condition":                 req.Condition,
		"last_maintenance_date":     req.LastMaintenanceDate,
		"next_maintenance_schedule": req.NextMaintenanceSchedule,
		"depreciation_method":       req.DepreciationMethod,
		"useful_life_months":        req.UsefulLifeMonths,
		"created_by":                createdBy,
		"created_at":                now,
		"updated_at":                now,
	}

	query := r.repository.GoquDBWrapper.Insert("assets").
		Rows(record).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, custom_error.WrapDBError("Duplicate value for asset", pqErr)
		}
		return 0, fmt.Errorf("failed to insert asset record: %w", err)
	}

	return id, nil
}

const assetColumns = `
	a.id, a.asset_tag, a.serial_number, a.name, a.brand, a.model,
	a.description, a.engravement, a.mac_address, a.purchase_date,
	a.warranty_expiry_date, a.cost, a.supplier, a.invoice_number,
	a.department, a.status, a.condition, a.last_maintenance_date,
	a.next_maintenance_schedule, a.depreciation_method, a.useful_life_months,
	a.created_at, a.updated_at,
	a.location_id, l.name AS location_name,
	a.category_id, c.name AS category_name,
	a.assigned_to, au.name AS assigned_to_name,
	a.created_by, cu.name AS created_by_name`

const assetJoins = `
	FROM assets a
	JOIN locations l ON l.id = a.location_id
	JOIN categories c ON c.id = a.category_id
	LEFT JOIN users au ON au.id = a.assigned_to
	JOIN users cu ON cu.id = a.created_by`

func scanFlatAsset(scan func(dest ...any) error) (*models.FlatAssetRecord, error) {
	var fa models.FlatAssetRecord
	err := scan(
		&fa.ID, &fa.AssetTag, &fa.SerialNumber, &fa.Name, &fa.Brand, &fa.Model,
		&fa.Description, &fa.Engravement, &fa.MACAddress, &fa.PurchaseDate,
		&fa.WarrantyExpiryDate, &fa.Cost, &fa.Supplier, &fa.InvoiceNumber,
		&fa.Department, &fa.Status, &fa.Condition, &fa.LastMaintenanceDate,
		&fa.NextMaintenanceSchedule, &fa.DepreciationMethod, &fa.UsefulLifeMonths,
		&fa.CreatedAt, &fa.UpdatedAt,
		&fa.LocationID, &fa.LocationName,
		&fa.CategoryID, &fa.CategoryName,
		&fa.AssignedToID, &fa.AssignedToName,
		&fa.CreatedByID, &fa.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	return &fa, nil
}

// GetAsset loads the full aggregate including both ledgers, each in
// insertion order.
func (r *assetRepositoryImpl) GetAsset(id int) (*models.Asset, error) {
	row := r.repository.DB.QueryRow(
		`SELECT`+assetColumns+assetJoins+` WHERE a.id = $1`, id)

	fa, err := scanFlatAsset(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	asset := fa.TransformToAsset()

	if asset.MaintenanceHistory, err = r.getMaintenanceHistory(id); err != nil {
		return nil, err
	}
	if asset.MovementLog, err = r.getMovementLog(id); err != nil {
		return nil, err
	}

	return &asset, nil
}

func (r *assetRepositoryImpl) getMaintenanceHistory(assetID int) ([]models.MaintenanceEntry, error) {
	rows, err := r.repository.DB.Query(`
		SELECT id, entry_date, entry_type, description, technician_id, cost, parts
		FROM maintenance_entries
		WHERE asset_id = $1
		ORDER BY id`, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance history: %w", err)
	}
	defer rows.Close()

	entries := []models.MaintenanceEntry{}
	for rows.Next() {
		var entry models.MaintenanceEntry
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Type, &entry.Description, &entry.TechnicianID, &entry.Cost, pq.Array(&entry.Parts)); err != nil {
			return nil, fmt.Errorf("failed to scan maintenance entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *assetRepositoryImpl) getMovementLog(assetID int) ([]models.MovementEntry, error) {
	rows, err := r.repository.DB.Query(`
		SELECT id, entry_date, from_location_id, to_location_id, from_department,
		       to_department, from_user_id, to_user_id, reason, authorized_by
		FROM movement_entries
		WHERE asset_id = $1
		ORDER BY id`, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movement log: %w", err)
	}
	defer rows.Close()

	entries := []models.MovementEntry{}
	for rows.Next() {
		var entry models.MovementEntry
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.FromLocationID, &entry.ToLocationID, &entry.FromDepartment,
			&entry.ToDepartment, &entry.FromUserID, &entry.ToUserID, &entry.Reason, &entry.AuthorizedBy); err != nil {
			return nil, fmt.Errorf("failed to scan movement entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// GetAssets lists aggregates without their ledgers, newest first.
func (r *assetRepositoryImpl) GetAssets(filter models.AssetFilter) ([]models.Asset, error) {
	where := []string{"1=1"}
	args := []any{}

	addFilter := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Status != "" {
		addFilter("a.status = $%d", filter.Status)
	}
	if filter.Condition != "" {
		addFilter("a.condition = $%d", filter.Condition)
	}
	if filter.CategoryID != 0 {
		addFilter("a.category_id = $%d", filter.CategoryID)
	}
	if filter.Department != "" {
		addFilter("a.department = $%d", filter.Department)
	}
	if filter.LocationID != 0 {
		addFilter("a.location_id = $%d", filter.LocationID)
	}
	if filter.AssignedTo != 0 {
		addFilter("a.assigned_to = $%d", filter.AssignedTo)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(a.asset_tag ILIKE $%d OR a.name ILIKE $%d OR a.serial_number ILIKE $%d)", n, n, n))
	}

	query := `SELECT` + assetColumns + assetJoins + ` WHERE `
	for i, clause := range where {
		if i > 0 {
			query += " AND "
		}
		query += clause
	}
	query += ` ORDER BY a.created_at DESC`

	rows, err := r.repository.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		fa, err := scanFlatAsset(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, fa.TransformToAsset())
	}

	return assets, rows.Err()
}

func (r *assetRepositoryImpl) SearchAssets(q string, limit int) ([]models.AssetSummary, error) {
	var results []models.AssetSummary

	query := r.repository.GoquDBWrapper.Select("id", "asset_tag", "name", "serial_number").
		From("assets").
		Where(goqu.Or(
			goqu.I("asset_tag").ILike("%"+q+"%"),
			goqu.I("name").ILike("%"+q+"%"),
			goqu.I("serial_number").ILike("%"+q+"%"),
		)).
		Limit(uint(limit))

	if err := query.Executor().ScanStructs(&results); err != nil {
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}

	return results, nil
}

func (r *assetRepositoryImpl) UpdateAsset(id int, req models.UpdateAssetRequest, now time.Time) error {
	record := goqu.Record{"updated_at": now}

	setString := func(column string, v *string) {
		if v != nil {
			record[column] = *v
		}
	}
	setString("serial_number", req.SerialNumber)
	setString("name", req.Name)
	setString("brand", req.Brand)
	setString("model", req.Model)
	setString("description", req.Description)
	setString("engravement", req.Engravement)
	setString("mac_address", req.MACAddress)
	setString("supplier", req.Supplier)
	setString("invoice_number", req.InvoiceNumber)
	setString("department", req.Department)
	setString("depreciation_method", req.DepreciationMethod)

	if req.CategoryID != nil {
		record["category_id"] = *req.CategoryID
	}
	if req.PurchaseDate != nil {
		record["purchase_date"] = *req.PurchaseDate
	}
	if req.WarrantyExpiryDate != nil {
		record["warranty_expiry_date"] = *req.WarrantyExpiryDate
	}
	if req.Cost != nil {
		record["cost"] = *req.Cost
	}
	if req.LocationID != nil {
		record["location_id"] = *req.LocationID
	}
	if req.AssignedTo != nil {
		record["assigned_to"] = *req.AssignedTo
	}
	if req.LastMaintenanceDate != nil {
		record["last_maintenance_date"] = *req.LastMaintenanceDate
	}
	if req.NextMaintenanceSchedule != nil {
		record["next_maintenance_schedule"] = *req.NextMaintenanceSchedule
	}
	if req.UsefulLifeMonths != nil {
		record["useful_life_months"] = *req.UsefulLifeMonths
	}

	query := r.repository.GoquDBWrapper.Update("assets").
		Set(record).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return custom_error.WrapDBError("Duplicate value for asset", pqErr)
		}
		return fmt.Errorf("failed to update asset: %w", err)
	}

	return nil
}

func (r *assetRepositoryImpl) DeleteAsset(id int) (bool, error) {
	result, err := r.repository.GoquDBWrapper.Delete("assets").
		Where(goqu.Ex{"id": id}).
		Executor().
		Exec()
	if err != nil {
		return false, fmt.Errorf("failed to delete asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	return affected > 0, nil
}

func (r *assetRepositoryImpl) GetAssetStats() (*models.AssetStats, error) {
	stats := models.AssetStats{
		ByStatus:    map[string]int{},
		ByCondition: map[string]int{},
	}

	row := r.repository.DB.QueryRow(`SELECT COUNT(*), COALESCE(SUM(cost), 0) FROM assets`)
	if err := row.Scan(&stats.TotalAssets, &stats.TotalValue); err != nil {
		return nil, fmt.Errorf("failed to aggregate asset totals: %w", err)
	}

	rows, err := r.repository.DB.Query(`SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	conditionRows, err := r.repository.DB.Query(`SELECT condition, COUNT(*) FROM assets GROUP BY condition`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by condition: %w", err)
	}
	defer conditionRows.Close()
	for conditionRows.Next() {
		var condition string
		var count int
		if err := conditionRows.Scan(&condition, &count); err != nil {
			return nil, err
		}
		stats.ByCondition[condition] = count
	}

	return &stats, conditionRows.Err()
}

func (r *assetRepositoryImpl) WithinTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, fn)
}

// GetAssetPlacementForUpdate reads the current placement under a row lock so
// a concurrent move cannot interleave between the ledger append and the
// placement update.
func (r *assetRepositoryImpl) GetAssetPlacementForUpdate(tx *goqu.TxDatabase, id int) (*models.AssetPlacement, error) {
	var placement models.AssetPlacement

	query := tx.Select("id", "location_id", "department", "assigned_to").
		From("assets").
		Where(goqu.Ex{"id": id}).
		ForUpdate(goqu.Wait)

	found, err := query.Executor().ScanStruct(&placement)
	if err != nil {
		return nil, fmt.Errorf("failed to lock asset row: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &placement, nil
}

func (r *assetRepositoryImpl) InsertMaintenanceEntry(tx *goqu.TxDatabase, assetID int, entry models.MaintenanceEntry) error {
	query := tx.Insert("maintenance_entries").
		Rows(goqu.Record{
			"asset_id":      assetID,
			"entry_date":    entry.Date,
			"entry_type":    entry.Type,
			"description":   entry.Description,
			"technician_id": entry.TechnicianID,
			"cost":          entry.Cost,
			"parts":         pq.Array(entry.Parts),
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to append maintenance entry: %w", err)
	}

	return nil
}

func (r *assetRepositoryImpl) SetAssetState(tx *goqu.TxDatabase, id int, status metadata.Status, condition metadata.Condition, now time.Time) error {
	query := tx.Update("assets").
		Set(goqu.Record{
			"status":     status,
			"condition":  condition,
			"updated_at": now,
		}).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update asset state: %w", err)
	}

	return nil
}

func (r *assetRepositoryImpl) InsertMovementEntry(tx *goqu.TxDatabase, assetID int, entry models.MovementEntry) error {
	query := tx.Insert("movement_entries").
		Rows(goqu.Record{
			"asset_id":         assetID,
			"entry_date":       entry.Date,
			"from_location_id": entry.FromLocationID,
			"to_location_id":   entry.ToLocationID,
			"from_department":  entry.FromDepartment,
			"to_department":    entry.ToDepartment,
			"from_user_id":     entry.FromUserID,
			"to_user_id":       entry.ToUserID,
			"reason":           entry.Reason,
			"authorized_by":    entry.AuthorizedBy,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to append movement entry: %w", err)
	}

	return nil
}

func (r *assetRepositoryImpl) SetAssetPlacement(tx *goqu.TxDatabase, id int, locationID int, department string, assignedTo *int, now time.Time) error {
	query := tx.Update("assets").
		Set(goqu.Record{
			"location_id": locationID,
			"department":  department,
			"assigned_to": assignedTo,
			"updated_at":  now,
		}).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update asset placement: %w", err)
	}

	return nil
}

func (r *assetRepositoryImpl) CategoryExists(id int) (bool, error) {
	return r.exists("categories", id)
}

func (r *assetRepositoryImpl) LocationExists(id int) (bool, error) {
	return r.exists("locations", id)
}

func (r *assetRepositoryImpl) UserExists(id int) (bool, error) {
	return r.exists("users", id)
}

func (r *assetRepositoryImpl) exists(table string, id int) (bool, error) {
	var count int

	query := r.repository.GoquDBWrapper.Select(goqu.COUNT("id")).
		From(table).
		Where(goqu.Ex{"id": id})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to check %s reference: %w", table, err)
	}

	return count > 0, nil
}
