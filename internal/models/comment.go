package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a blog. The author snapshot is copied at
// creation time and never updated afterwards.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BlogID    uint           `gorm:"not null;index" json:"blog_id"`
	Text      string         `gorm:"not null" json:"text"`
	Author    AuthorSnapshot `gorm:"embedded" json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
