package models

import "time"

// Follow represents a directed follower relationship: FollowerID follows
// FolloweeID. A single row backs both the follower's "following" list and
// the followee's "followers" list, so the two views can never diverge.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}
