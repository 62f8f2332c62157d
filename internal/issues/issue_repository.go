package issues

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type IssueRepository struct {
	Repository *repository.Repository
}

func NewIssueRepository(r *repository.Repository) *IssueRepository {
	return &IssueRepository{Repository: r}
}

const issueColumns = `id, issue_type, title, description, priority, status,
	asset_id, incident_date, incident_location, maintenance_type,
	estimated_cost, device_type, justification, preferred_brand,
	preferred_model, estimated_budget, assigned_to, resolved_by, resolved_at,
	resolution_notes, reported_by, department, created_at, updated_at`

func (r *IssueRepository) PersistIssue(req models.CreateIssueRequest, reportedBy int, now time.Time) (int, error) {
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	record := goqu.Record{
		"issue_type":        req.IssueType,
		"title":             req.Title,
		"description":       req.Description,
		"priority":          priority,
		"status":            "pending",
		"asset_id":          req.AssetID,
		"incident_date":     req.IncidentDate,
		"incident_location": req.IncidentLocation,
		"maintenance_type":  req.MaintenanceType,
		"estimated_cost":    req.EstimatedCost,
		"device_type":       req.DeviceType,
		"justification":     req.Justification,
		"preferred_brand":   req.PreferredBrand,
		"preferred_model":   req.PreferredModel,
		"estimated_budget":  req.EstimatedBudget,
		"reported_by":       reportedBy,
		"department":        goqu.L("COALESCE((SELECT department FROM users WHERE id = ?), '')", reportedBy),
		"created_at":        now,
		"updated_at":        now,
	}

	var id int
	query := r.Repository.GoquDBWrapper.Insert("issues").Rows(record).Returning("id")
	if _, err := query.Executor().ScanVal(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, custom_error.WrapDBError("Could not create issue", pqErr)
		}
		return 0, fmt.Errorf("failed to insert issue record: %w", err)
	}

	return id, nil
}

func (r *IssueRepository) GetIssue(id int) (*models.Issue, error) {
	var issue models.Issue
	found, err := r.Repository.GoquDBWrapper.
		From("issues").
		Select(goqu.L(issueColumns)).
		Where(goqu.Ex{"id": id}).
		Executor().ScanStruct(&issue)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &issue, nil
}

func (r *IssueRepository) GetIssues(filter models.IssueFilter) ([]models.Issue, error) {
	query := r.Repository.GoquDBWrapper.
		From("issues").
		Select(goqu.L(issueColumns)).
		Order(goqu.I("created_at").Desc())

	if filter.ReportedBy != 0 {
		query = query.Where(goqu.Ex{"reported_by": filter.ReportedBy})
	}
	if filter.Status != "" {
		query = query.Where(goqu.Ex{"status": filter.Status})
	}
	if filter.IssueType != "" {
		query = query.Where(goqu.Ex{"issue_type": filter.IssueType})
	}
	if filter.Priority != "" {
		query = query.Where(goqu.Ex{"priority": filter.Priority})
	}
	if filter.AssignedTo != 0 {
		query = query.Where(goqu.Ex{"assigned_to": filter.AssignedTo})
	}
	if filter.Search != "" {
		query = query.Where(goqu.Or(
			goqu.I("title").ILike("%"+filter.Search+"%"),
			goqu.I("description").ILike("%"+filter.Search+"%"),
		))
	}

	issues := []models.Issue{}
	if err := query.Executor().ScanStructs(&issues); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return issues, nil
}

func (r *IssueRepository) UpdateIssue(id int, req models.UpdateIssueRequest, now time.Time) error {
	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = now

	return r.execIssueUpdate(id, updates)
}

// AssignIssue sets the technician and moves the issue to in_progress.
func (r *IssueRepository) AssignIssue(id int, technicianID int, now time.Time) error {
	return r.execIssueUpdate(id, map[string]interface{}{
		"assigned_to": technicianID,
		"status":      "in_progress",
		"updated_at":  now,
	})
}

func (r *IssueRepository) ResolveIssue(id int, resolvedBy int, notes string, now time.Time) error {
	return r.execIssueUpdate(id, map[string]interface{}{
		"status":           "resolved",
		"resolved_by":      resolvedBy,
		"resolved_at":      now,
		"resolution_notes": notes,
		"updated_at":       now,
	})
}

func (r *IssueRepository) DeleteIssue(id int) error {
	result, err := r.Repository.GoquDBWrapper.
		Delete("issues").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
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

func (r *IssueRepository) GetIssueStats() (*models.IssueStats, error) {
	stats := models.IssueStats{
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
	}

	rows, err := r.Repository.DB.Query(`SELECT status, priority, COUNT(*) FROM issues GROUP BY status, priority`)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, priority string
		var count int
		if err := rows.Scan(&status, &priority, &count); err != nil {
			return nil, fmt.Errorf("unable fetch data: %w", err)
		}
		stats.TotalIssues += count
		stats.ByStatus[status] += count
		stats.ByPriority[priority] += count
	}

	return &stats, rows.Err()
}

func (r *IssueRepository) AssetExists(id int) (bool, error) {
	var found int
	ok, err := r.Repository.GoquDBWrapper.
		From("assets").
		Select("id").
		Where(goqu.Ex{"id": id}).
		Executor().ScanVal(&found)
	if err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", err)
	}
	return ok, nil
}

func (r *IssueRepository) UserExists(id int) (bool, error) {
	var found int
	ok, err := r.Repository.GoquDBWrapper.
		From("users").
		Select("id").
		Where(goqu.Ex{"id": id}).
		Executor().ScanVal(&found)
	if err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", err)
	}
	return ok, nil
}

func (r *IssueRepository) execIssueUpdate(id int, updates map[string]interface{}) error {
	result, err := r.Repository.GoquDBWrapper.
		Update("issues").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return custom_error.WrapDBError("Could not update issue", pqErr)
		}
		return fmt.Errorf("failed to update issue: %w", err)
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
