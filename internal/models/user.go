// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Gender is the self-reported gender on a user profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// DefaultAvatarURL is assigned at registration until the user uploads or
// generates an avatar.
const DefaultAvatarURL = "https://upload.wikimedia.org/wikipedia/commons/2/2c/Default_pfp.svg"

const (
	// DefaultRewards is the reward balance granted on registration.
	DefaultRewards = 10
	// DefaultAiCredits is the AI-credit balance granted on registration.
	DefaultAiCredits = 100
)

// User represents a registered author on the platform. The rewards and
// total_ai_credits columns form the per-user ledger; they are only ever
// mutated through atomic SQL expressions in the repository layer.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Gender    Gender    `gorm:"type:varchar(10);not null" json:"gender"`
	DOB       time.Time `json:"dob"`
	Address   string    `json:"address"`
	Title     string    `json:"title"`
	About     string    `json:"about"`
	AvatarURL string    `gorm:"column:avatar_url" json:"avatar_url"`

	Rewards        int `gorm:"not null;default:10" json:"rewards"`
	TotalAiCredits int `gorm:"not null;default:100" json:"total_ai_credits"`

	IsAdmin bool `gorm:"default:false" json:"is_admin"`

	// Reset fields are set together by forgot-password and cleared together
	// by a successful reset; a lone leftover token is permanently stale.
	ResetPasswordToken  string     `gorm:"index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserSummary is the trimmed projection returned by login and follower
// listings.
type UserSummary struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Title     string `json:"title,omitempty"`
	AvatarURL string `json:"avatar_url"`
}

// Summary returns the trimmed projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Title:     u.Title,
		AvatarURL: u.AvatarURL,
	}
}
