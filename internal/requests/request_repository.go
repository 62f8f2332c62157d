package requests

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type RequestRepository struct {
	Repository *repository.Repository
}

func NewRequestRepository(r *repository.Repository) *RequestRepository {
	return &RequestRepository{Repository: r}
}

const requestColumns = "id, requester_id, request_type, category, notes, status, created_at, decided_at"

func (r *RequestRepository) PersistRequest(req models.CreateAssetRequestRequest, requesterID int, now time.Time) (int, error) {
	var id int
	query := r.Repository.GoquDBWrapper.Insert("asset_requests").
		Rows(goqu.Record{
			"requester_id": requesterID,
			"request_type": req.Type,
			"category":     req.Category,
			"notes":        req.Notes,
			"status":       "pending",
			"created_at":   now,
		}).
		Returning("id")
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert asset request record: %w", err)
	}

	return id, nil
}

func (r *RequestRepository) GetRequest(id int) (*models.AssetRequest, error) {
	var request models.AssetRequest
	found, err := r.Repository.GoquDBWrapper.
		From("asset_requests").
		Select(goqu.L(requestColumns)).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&request)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &request, nil
}

// GetRequests lists newest first; requesterID scopes the listing when
// non-zero.
func (r *RequestRepository) GetRequests(requesterID int, status string) ([]models.AssetRequest, error) {
	query := r.Repository.GoquDBWrapper.
		From("asset_requests").
		Select(goqu.L(requestColumns)).
		Order(goqu.I("created_at").Desc())
	if requesterID != 0 {
		query = query.Where(goqu.Ex{"requester_id": requesterID})
	}
	if status != "" {
		query = query.Where(goqu.Ex{"status": status})
	}

	requests := []models.AssetRequest{}
	if err := query.Executor().ScanStructs(&requests); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return requests, nil
}

// DecideRequest finalizes a pending request as approved or rejected and
// stamps the decision time.
func (r *RequestRepository) DecideRequest(id int, status string, now time.Time) error {
	result, err := r.Repository.GoquDBWrapper.
		Update("asset_requests").
		Set(goqu.Record{
			"status":     status,
			"decided_at": now,
		}).
		Where(goqu.Ex{"id": id, "status": "pending"}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update asset request: %w", err)
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

// AssetAssignee mirrors the confirmations lookup: assignee of the asset and
// whether the asset exists.
func (r *RequestRepository) AssetAssignee(assetID int) (*int, bool, error) {
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

func (r *RequestRepository) SetAssetCondition(assetID int, condition string, now time.Time) error {
	result, err := r.Repository.GoquDBWrapper.
		Update("assets").
		Set(goqu.Record{
			"condition":  condition,
			"updated_at": now,
		}).
		Where(goqu.Ex{"id": assetID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update asset condition: %w", err)
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
