package models

import "time"

type Category struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Code        string    `json:"code,omitempty" db:"code"`
	Description string    `json:"description,omitempty" db:"description"`
	Status      string    `json:"status" db:"status"`
	ParentID    *int      `json:"parentCategory,omitempty" db:"parent_id"`
	ParentName  *string   `json:"parentCategoryName,omitempty" db:"parent_name"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

func (c *Category) CreateLogView() AuditEntry {
	return AuditEntry{
		ResourceID:   c.ID,
		ResourceType: "category",
	}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Code        string `json:"code" binding:"omitempty,alphanum"`
	Description string `json:"description" binding:"omitempty,max=500"`
	Status      string `json:"status" binding:"omitempty,oneof=Active Inactive"`
	ParentID    *int   `json:"parentCategory"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=50"`
	Code        *string `json:"code" binding:"omitempty,alphanum"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Status      *string `json:"status" binding:"omitempty,oneof=Active Inactive"`
	ParentID    *int    `json:"parentCategory"`
}

type CategoryStats struct {
	TotalCategories    int `json:"totalCategories"`
	ActiveCategories   int `json:"activeCategories"`
	InactiveCategories int `json:"inactiveCategories"`
	ParentCategories   int `json:"parentCategories"`
	ChildCategories    int `json:"childCategories"`
}
