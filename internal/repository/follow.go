package repository

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for the follow graph.
// A single join row backs both the follower and following views, so the
// two directions can never disagree.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID uint) (bool, error)
	Delete(ctx context.Context, followerID, followeeID uint) (bool, error)
	Exists(ctx context.Context, followerID, followeeID uint) (bool, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error)
	Counts(ctx context.Context, userID uint) (followers int64, following int64, err error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the follow edge. Returns false when the edge already
// existed; the insert is ON CONFLICT DO NOTHING, so concurrent duplicate
// follows collapse into one row.
func (r *followRepository) Create(ctx context.Context, followerID, followeeID uint) (bool, error) {
	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidateFollowGraph(ctx, followerID)
		cache.InvalidateFollowGraph(ctx, followeeID)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the follow edge. Returns false when no edge existed.
func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.InvalidateFollowGraph(ctx, followerID)
		cache.InvalidateFollowGraph(ctx, followeeID)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	var summaries []models.UserSummary
	err := cache.Aside(ctx, cache.FollowersKey(userID), &summaries, cache.FollowersTTL, func() error {
		return r.db.WithContext(ctx).Model(&models.User{}).
			Select("users.id, users.name, users.title, users.avatar_url").
			Joins("JOIN follows ON follows.follower_id = users.id").
			Where("follows.followee_id = ?", userID).
			Order("follows.created_at DESC").
			Scan(&summaries).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summaries, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	var summaries []models.UserSummary
	err := cache.Aside(ctx, cache.FollowingKey(userID), &summaries, cache.FollowersTTL, func() error {
		return r.db.WithContext(ctx).Model(&models.User{}).
			Select("users.id, users.name, users.title, users.avatar_url").
			Joins("JOIN follows ON follows.followee_id = users.id").
			Where("follows.follower_id = ?", userID).
			Order("follows.created_at DESC").
			Scan(&summaries).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summaries, nil
}

func (r *followRepository) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	var followers, following int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	return followers, following, nil
}
