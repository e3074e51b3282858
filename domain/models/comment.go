package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid"`
	Body      string     `gorm:"type:text;not null"`
	PostID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	AuthorID  *uuid.UUID `gorm:"type:uuid;index"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Relations
	Post   *Post    `gorm:"foreignKey:PostID"`
	Author *User    `gorm:"foreignKey:AuthorID"`
	Parent *Comment `gorm:"foreignKey:ParentID"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (c *Comment) GetID() uuid.UUID          { return c.ID }
func (c *Comment) GetParentID() *uuid.UUID   { return c.ParentID }
func (c *Comment) SetParentID(id *uuid.UUID) { c.ParentID = id; c.Parent = nil }

type CommentClosure struct {
	AncestorID   uuid.UUID `gorm:"primaryKey;type:uuid"`
	DescendantID uuid.UUID `gorm:"primaryKey;type:uuid;index"`
	Depth        int       `gorm:"not null"`
}

func (CommentClosure) TableName() string {
	return "comment_closures"
}
