package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role has no soft delete: removing a role drops its grants immediately.
type Role struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name        string    `gorm:"size:100;uniqueIndex;not null"`
	Label       string    `gorm:"size:255"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relations
	Permissions []Permission `gorm:"many2many:role_permissions;"`
}

func (Role) TableName() string {
	return "roles"
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (r *Role) GetID() uuid.UUID { return r.ID }

// Permission is named "<resource>.<action>", e.g. "category.delete".
type Permission struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	Name        string    `gorm:"size:100;uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Permission) TableName() string {
	return "permissions"
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *Permission) GetID() uuid.UUID { return p.ID }
