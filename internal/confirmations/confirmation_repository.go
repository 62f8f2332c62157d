package confirmations

import (
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type ConfirmationRepository struct {
	Repository *repository.Repository
}

func NewConfirmationRepository(r *repository.Repository) *ConfirmationRepository {
	return &ConfirmationRepository{Repository: r}
}

func (r *ConfirmationRepository) PersistConfirmation(req models.CreateConfirmationRequest, confirmedBy int, now time.Time) (int, error) {
	record := goqu.Record{
		"asset_id":          req.AssetID,
		"confirmation_type": req.ConfirmationType,
		"condition":         req.Condition,
		"notes":             req.Notes,
		"damage_report":     req.DamageReport,
		"location":          req.Location,
		"department":        req.Department,
		"confirmed_by":      confirmedBy,
		"confirmed_at":      now,
	}

	var id int
	query := r.Repository.GoquDBWrapper.Insert("confirmations").Rows(record).Returning("id")
	if _, err := query.Executor().ScanVal(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, custom_error.WrapDBError("Could not create confirmation", pqErr)
		}
		return 0, fmt.Errorf("failed to insert confirmation record: %w", err)
	}

	return id, nil
}

func (r *ConfirmationRepository) GetConfirmation(id int) (*models.Confirmation, error) {
	var confirmation models.Confirmation
	found, err := r.Repository.GoquDBWrapper.
		From("confirmations").
		Select(
			"id", "asset_id", "confirmation_type", "condition", "notes",
			"damage_report", "location", "department",
			"confirmed_by", "confirmed_at", "created_at",
		).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&confirmation)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &confirmation, nil
}

// GetConfirmations lists newest first; confirmedBy scopes the listing when
// non-zero.
func (r *ConfirmationRepository) GetConfirmations(confirmedBy int, assetID int) ([]models.Confirmation, error) {
	query := r.Repository.GoquDBWrapper.
		From("confirmations").
		Select(
			"id", "asset_id", "confirmation_type", "condition", "notes",
			"damage_report", "location", "department",
			"confirmed_by", "confirmed_at", "created_at",
		).
		Order(goqu.I("confirmed_at").Desc())
	if confirmedBy != 0 {
		query = query.Where(goqu.Ex{"confirmed_by": confirmedBy})
	}
	if assetID != 0 {
		query = query.Where(goqu.Ex{"asset_id": assetID})
	}

	confirmations := []models.Confirmation{}
	if err := query.Executor().ScanStructs(&confirmations); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return confirmations, nil
}

// AssetAssignee returns the current assignee of an asset, nil when the asset
// is unassigned. The bool reports whether the asset exists.
func (r *ConfirmationRepository) AssetAssignee(assetID int) (*int, bool, error) {
	var assignedTo *int
	found, err := r.Repository.GoquDBWrapper.
		From("assets").
		Select("assigned_to").
		Where(goqu.Ex{"id": assetID}).
		Executor().ScanVal(&assignedTo)
	if err != nil {
		return nil, false, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return assignedTo, found, nil
}
