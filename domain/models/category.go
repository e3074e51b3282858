package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          uuid.UUID  `gorm:"primaryKey;type:uuid"`
	Name        string     `gorm:"size:100;not null"`
	Slug        string     `gorm:"size:120;uniqueIndex;not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	CustomOrder int        `gorm:"default:0;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	// Relations
	Parent *Category `gorm:"foreignKey:ParentID"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Category) GetID() uuid.UUID          { return c.ID }
func (c *Category) GetParentID() *uuid.UUID   { return c.ParentID }
func (c *Category) SetParentID(id *uuid.UUID) { c.ParentID = id; c.Parent = nil }

// CategoryClosure เก็บทุกคู่ (ancestor, descendant) รวม self ที่ depth 0
type CategoryClosure struct {
	AncestorID   uuid.UUID `gorm:"primaryKey;type:uuid"`
	DescendantID uuid.UUID `gorm:"primaryKey;type:uuid;index"`
	Depth        int       `gorm:"not null"`
}

func (CategoryClosure) TableName() string {
	return "category_closures"
}
