package workorders

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/luganzimathiasjoseph/ARPM/internal/repository"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type WorkOrderRepository struct {
	Repository *repository.Repository
}

func NewWorkOrderRepository(r *repository.Repository) *WorkOrderRepository {
	return &WorkOrderRepository{Repository: r}
}

func (r *WorkOrderRepository) PersistWorkOrder(req models.CreateWorkOrderRequest, now time.Time) (int, error) {
	status := req.Status
	if status == "" {
		status = "open"
	}

	var id int
	query := r.Repository.GoquDBWrapper.Insert("work_orders").
		Rows(goqu.Record{
			"title":          req.Title,
			"description":    req.Description,
			"asset_id":       req.AssetID,
			"assigned_to":    req.AssignedTo,
			"status":         status,
			"scheduled_date": req.ScheduledDate,
			"parts_used":     pq.Array(req.PartsUsed),
			"created_at":     now,
			"updated_at":     now,
		}).
		Returning("id")
	if _, err := query.Executor().ScanVal(&id); err != nil {
		return 0, fmt.Errorf("failed to insert work order record: %w", err)
	}

	return id, nil
}

func (r *WorkOrderRepository) GetWorkOrder(id int) (*models.WorkOrder, error) {
	row := r.Repository.DB.QueryRow(`
		SELECT id, title, description, asset_id, assigned_to, status,
		       scheduled_date, parts_used, created_at, updated_at
		FROM work_orders WHERE id = $1`, id)

	order, err := scanWorkOrder(row.Scan)
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (r *WorkOrderRepository) GetWorkOrders(status string, assignedTo int) ([]models.WorkOrder, error) {
	query := `
		SELECT id, title, description, asset_id, assigned_to, status,
		       scheduled_date, parts_used, created_at, updated_at
		FROM work_orders`
	conditions := []string{}
	args := []interface{}{}
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if assignedTo != 0 {
		args = append(args, assignedTo)
		conditions = append(conditions, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.Repository.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	orders := []models.WorkOrder{}
	for rows.Next() {
		order, err := scanWorkOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	return orders, rows.Err()
}

func scanWorkOrder(scan func(dest ...interface{}) error) (*models.WorkOrder, error) {
	var order models.WorkOrder
	if err := scan(
		&order.ID,
		&order.Title,
		&order.Description,
		&order.AssetID,
		&order.AssignedTo,
		&order.Status,
		&order.ScheduledDate,
		pq.Array(&order.PartsUsed),
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("unable fetch data: %w", err)
	}

	return &order, nil
}
