package models

import (
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

// wordsPerMinute is the reading speed assumed when deriving reading time.
const wordsPerMinute = 200

// MaxExcerptLen is the maximum length of a blog excerpt.
const MaxExcerptLen = 250

// AuthorSnapshot is an immutable copy of the identifying fields of a user,
// taken at the moment a blog or comment is created. It intentionally
// diverges from the live User record: later profile edits do not propagate.
type AuthorSnapshot struct {
	ID        uint   `gorm:"column:author_id;not null;index" json:"id"`
	Name      string `gorm:"column:author_name;not null" json:"name"`
	AvatarURL string `gorm:"column:author_avatar_url" json:"avatar_url"`
}

// Blog represents a published post. Likes live in the blog_likes join table;
// LikesCount and Liked are computed at query time.
type Blog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Excerpt     string         `gorm:"size:250" json:"excerpt"`
	Content     string         `gorm:"not null" json:"content"`
	Category    string         `gorm:"index" json:"category"`
	HeroImage   string         `json:"hero_image"`
	Author      AuthorSnapshot `gorm:"embedded" json:"author"`
	ReadingTime int            `gorm:"not null;default:1" json:"reading_time"`

	LikesCount    int  `gorm:"->" json:"likes_count"`
	CommentsCount int  `gorm:"->" json:"comments_count"`
	Liked         bool `gorm:"->" json:"liked"`
	// ContentHTML is the markdown-rendered content; computed on read.
	ContentHTML string `gorm:"-" json:"content_html,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ReadingTime derives reading minutes from content: ceil(wordCount / 200),
// never less than one minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := int(math.Ceil(float64(words) / float64(wordsPerMinute)))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// BlogPage is a paginated title-search result.
type BlogPage struct {
	Blogs       []*Blog `json:"blogs"`
	TotalCount  int64   `json:"total_count"`
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
}
