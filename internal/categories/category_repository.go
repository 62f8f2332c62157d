package categories

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

type CategoryRepository struct {
	Repository *repository.Repository
}

func NewCategoryRepository(r *repository.Repository) *CategoryRepository {
	return &CategoryRepository{Repository: r}
}

// CategoryInUseError blocks deletion while assets or child categories still
// reference the category.
type CategoryInUseError struct {
	AssetCount int
	ChildCount int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category is referenced by %d assets and %d child categories", e.AssetCount, e.ChildCount)
}

func (r *CategoryRepository) GetCategories() ([]models.Category, error) {
	query := r.Repository.GoquDBWrapper.
		From(goqu.T("categories").As("c")).
		Select(
			"c.id", "c.name", "c.code", "c.description", "c.status",
			"c.parent_id", goqu.I("p.name").As("parent_name"),
			"c.created_at", "c.updated_at",
		).
		LeftJoin(goqu.T("categories").As("p"), goqu.On(goqu.Ex{"c.parent_id": goqu.I("p.id")})).
		Order(goqu.I("c.name").Asc())

	rows, err := query.Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}

	return categories, rows.Err()
}

func (r *CategoryRepository) GetCategory(id int) (*models.Category, error) {
	query := r.Repository.GoquDBWrapper.
		From(goqu.T("categories").As("c")).
		Select(
			"c.id", "c.name", "c.code", "c.description", "c.status",
			"c.parent_id", goqu.I("p.name").As("parent_name"),
			"c.created_at", "c.updated_at",
		).
		LeftJoin(goqu.T("categories").As("p"), goqu.On(goqu.Ex{"c.parent_id": goqu.I("p.id")})).
		Where(goqu.Ex{"c.id": id})

	rows, err := query.Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	return scanCategory(rows)
}

func (r *CategoryRepository) CategoryExists(id int) (bool, error) {
	var found int
	ok, err := r.Repository.GoquDBWrapper.
		From("categories").
		Select("id").
		Where(goqu.Ex{"id": id}).
		Executor().ScanVal(&found)
	if err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", err)
	}
	return ok, nil
}

// CountCategories feeds the CATnnn code sequence when the caller omits a code.
func (r *CategoryRepository) CountCategories() (int, error) {
	var count int
	if _, err := r.Repository.GoquDBWrapper.
		From("categories").
		Select(goqu.COUNT("*")).
		Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("unable to execute SQL: %w", err)
	}
	return count, nil
}

func (r *CategoryRepository) PersistCategory(req models.CreateCategoryRequest, code string) (int, error) {
	record := goqu.Record{
		"name":        req.Name,
		"code":        code,
		"description": req.Description,
		"status":      req.Status,
		"parent_id":   req.ParentID,
	}

	var id int
	query := r.Repository.GoquDBWrapper.Insert("categories").Rows(record).Returning("id")
	if _, err := query.Executor().ScanVal(&id); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return 0, custom_error.WrapDBError("Could not create category", pqErr)
		}
		return 0, fmt.Errorf("failed to insert category record: %w", err)
	}

	return id, nil
}

func (r *CategoryRepository) UpdateCategory(id int, req models.UpdateCategoryRequest) error {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Code != nil {
		updates["code"] = *req.Code
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.ParentID != nil {
		updates["parent_id"] = *req.ParentID
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = goqu.L("NOW()")

	result, err := r.Repository.GoquDBWrapper.
		Update("categories").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return custom_error.WrapDBError("Could not update category", pqErr)
		}
		return fmt.Errorf("failed to update category: %w", err)
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

func (r *CategoryRepository) DeleteCategory(id int) error {
	var assetCount int
	if _, err := r.Repository.GoquDBWrapper.
		From("assets").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"category_id": id}).
		Executor().ScanVal(&assetCount); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	var childCount int
	if _, err := r.Repository.GoquDBWrapper.
		From("categories").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"parent_id": id}).
		Executor().ScanVal(&childCount); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	if assetCount > 0 || childCount > 0 {
		return &CategoryInUseError{AssetCount: assetCount, ChildCount: childCount}
	}

	result, err := r.Repository.GoquDBWrapper.
		Delete("categories").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
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

func (r *CategoryRepository) GetCategoryStats() (*models.CategoryStats, error) {
	var stats models.CategoryStats
	row := r.Repository.DB.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Active'),
			COUNT(*) FILTER (WHERE status = 'Inactive'),
			COUNT(*) FILTER (WHERE parent_id IS NULL),
			COUNT(*) FILTER (WHERE parent_id IS NOT NULL)
		FROM categories`)
	if err := row.Scan(
		&stats.TotalCategories,
		&stats.ActiveCategories,
		&stats.InactiveCategories,
		&stats.ParentCategories,
		&stats.ChildCategories,
	); err != nil {
		return nil, fmt.Errorf("unable fetch data: %w", err)
	}

	return &stats, nil
}

func scanCategory(rows *sql.Rows) (*models.Category, error) {
	var category models.Category
	var code, description sql.NullString
	if err := rows.Scan(
		&category.ID,
		&category.Name,
		&code,
		&description,
		&category.Status,
		&category.ParentID,
		&category.ParentName,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("unable fetch data: %w", err)
	}
	category.Code = code.String
	category.Description = description.String

	return &category, nil
}
