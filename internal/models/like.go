package models

import "time"

// BlogLike represents a user's like on a blog. The combination of UserID and
// BlogID must be unique; inserts use ON CONFLICT DO NOTHING so the toggle is
// atomic with respect to the membership check.
type BlogLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_blog" json:"user_id"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_user_blog" json:"blog_id"`
	CreatedAt time.Time `json:"created_at"`
}
