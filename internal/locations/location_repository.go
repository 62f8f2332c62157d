package locations

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type LocationRepository struct {
	Repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{Repository: r}
}

func (r *LocationRepository) GetLocations(includeInactive bool) ([]models.Location, error) {
	query := r.Repository.GoquDBWrapper.
		From("locations").
		Select(
			"id", "name", "building", "floor",
			"contact_person", "contact_email", "contact_phone",
			"is_active", "created_at", "updated_at",
		).
		Order(goqu.I("name").Asc())
	if !includeInactive {
		query = query.Where(goqu.Ex{"is_active": true})
	}

	locations := []models.Location{}
	if err := query.Executor().ScanStructs(&locations); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return locations, nil
}

func (r *LocationRepository) GetLocation(id int) (*models.Location, error) {
	var location models.Location
	found, err := r.Repository.GoquDBWrapper.
		From("locations").
		Select(
			"id", "name", "building", "floor",
			"contact_person", "contact_email", "contact_phone",
			"is_active", "created_at", "updated_at",
		).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&location)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &location, nil
}

func (r *LocationRepository) PersistLocation(req models.CreateLocationRequest) (int, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	query := r.Repository.GoquDBWrapper.Insert("locations").
		Rows(goqu.Record{
			"name":           req.Name,
			"building":       req.Building,
			"floor":          req.Floor,
			"contact_person": req.ContactPerson,
			"contact_email":  req.ContactEmail,
			"contact_phone":  req.ContactPhone,
			"is_active":      isActive,
		}).
		Returning("id")

	var id int
	if _, err := query.Executor().ScanVal(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, custom_error.WrapDBError("Could not create location", pqErr)
		}
		return 0, fmt.Errorf("failed to insert location record: %w", err)
	}

	return id, nil
}

func (r *LocationRepository) UpdateLocation(id int, req models.UpdateLocationRequest) error {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Building != nil {
		updates["building"] = *req.Building
	}
	if req.Floor != nil {
		updates["floor"] = *req.Floor
	}
	if req.ContactPerson != nil {
		updates["contact_person"] = *req.ContactPerson
	}
	if req.ContactEmail != nil {
		updates["contact_email"] = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		updates["contact_phone"] = *req.ContactPhone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = goqu.L("NOW()")

	result, err := r.Repository.GoquDBWrapper.
		Update("locations").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return custom_error.WrapDBError("Could not update location", pqErr)
		}
		return fmt.Errorf("failed to update location: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *LocationRepository) RemoveLocation(id int) error {
	result, err := r.Repository.GoquDBWrapper.
		Delete("locations").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return custom_error.WrapDBError("Could not delete location", pqErr)
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// GetLocationAssets lists the assets currently placed at a location.
func (r *LocationRepository) GetLocationAssets(id int) ([]models.AssetSummary, error) {
	query := r.Repository.GoquDBWrapper.
		From(goqu.T("assets").As("a")).
		Select(
			"a.id", "a.asset_tag", "a.name", "a.serial_number",
			"a.status", "a.condition",
			goqu.I("c.name").As("category_name"),
		).
		LeftJoin(goqu.T("categories").As("c"), goqu.On(goqu.Ex{"a.category_id": goqu.I("c.id")})).
		Where(goqu.Ex{"a.location_id": id}).
		Order(goqu.I("a.asset_tag").Asc())

	rows, err := query.Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	assets := []models.AssetSummary{}
	for rows.Next() {
		var summary models.AssetSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.AssetTag,
			&summary.Name,
			&summary.SerialNumber,
			&summary.Status,
			&summary.Condition,
			&summary.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("unable fetch data: %w", err)
		}
		assets = append(assets, summary)
	}

	return assets, rows.Err()
}
