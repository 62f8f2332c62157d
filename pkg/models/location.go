package models

import "time"

type Location struct {
	ID            int       `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Building      string    `json:"building,omitempty" db:"building"`
	Floor         string    `json:"floor,omitempty" db:"floor"`
	ContactPerson *string   `json:"contactPerson,omitempty" db:"contact_person"`
	ContactEmail  *string   `json:"contactEmail,omitempty" db:"contact_email"`
	ContactPhone  *string   `json:"contactPhone,omitempty" db:"contact_phone"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (l *Location) CreateLogView() AuditEntry {
	return AuditEntry{
		ResourceID:   l.ID,
		ResourceType: "location",
	}
}

type CreateLocationRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	Building      string  `json:"building" binding:"required"`
	Floor         string  `json:"floor" binding:"required"`
	ContactPerson *string `json:"contactPerson"`
	ContactEmail  *string `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone  *string `json:"contactPhone"`
	IsActive      *bool   `json:"isActive"`
}

type UpdateLocationRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	Building      *string `json:"building"`
	Floor         *string `json:"floor"`
	ContactPerson *string `json:"contactPerson"`
	ContactEmail  *string `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone  *string `json:"contactPhone"`
	IsActive      *bool   `json:"isActive"`
}
