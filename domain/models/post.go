package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID          uuid.UUID  `gorm:"primaryKey;type:uuid"`
	Title       string     `gorm:"size:255;not null"`
	Slug        string     `gorm:"size:255;uniqueIndex;not null"`
	Summary     string     `gorm:"size:500"`
	Body        string     `gorm:"type:text"`
	CoverPath   string     `gorm:"size:500"` // key ใน storage
	CoverURL    string     `gorm:"size:1000"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index"`
	AuthorID    *uuid.UUID `gorm:"type:uuid;index"`
	PublishedAt *time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID"`
	Author   *User     `gorm:"foreignKey:AuthorID"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *Post) GetID() uuid.UUID { return p.ID }

// IsPublished ตรวจสอบว่า post เผยแพร่แล้วหรือยัง
func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(time.Now())
}
