// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users, including the
// per-user reward and AI-credit ledger.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	// Update persists profile columns only; ledger balances move exclusively
	// through the atomic methods below.
	Update(ctx context.Context, user *models.User) error
	SetAvatar(ctx context.Context, id uint, url string) error
	SetResetToken(ctx context.Context, id uint, token string, expire time.Time) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error

	AccrueReward(ctx context.Context, id uint, delta int) error
	DebitCredits(ctx context.Context, id uint, cost int) error
	RedeemRewards(ctx context.Context, id uint, rewardCost, credits int) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expire > ?", token, now).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User with that email or username already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports the constraint name
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// Update writes the profile columns of user. Rewards and credits are never
// touched here, so a profile save cannot overwrite a concurrent ledger
// mutation with the stale balances it was loaded with.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Model(user).
		Select("name", "gender", "dob", "address", "title", "about").
		Updates(user).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

func (r *userRepository) SetAvatar(ctx context.Context, id uint, url string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("avatar_url", url)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id uint, token string, expire time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_password_token":  token,
			"reset_password_expire": expire,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// UpdatePassword stores the new hash and clears both reset fields in a
// single statement so a used token can never be replayed.
func (r *userRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"password":              passwordHash,
			"reset_password_token":  "",
			"reset_password_expire": nil,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// AccrueReward adds delta reward points using an atomic SQL expression so
// concurrent accruals never lose updates.
func (r *userRepository) AccrueReward(ctx context.Context, id uint, delta int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("rewards", gorm.Expr("rewards + ?", delta))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// DebitCredits subtracts cost from the AI-credit balance. The balance check
// and the subtraction happen in one conditional UPDATE; the balance can
// never go negative regardless of concurrency.
func (r *userRepository) DebitCredits(ctx context.Context, id uint, cost int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND total_ai_credits >= ?", id, cost).
		UpdateColumn("total_ai_credits", gorm.Expr("total_ai_credits - ?", cost))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing user from an insufficient balance.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("User", id)
		}
		return models.NewInsufficientCreditsError()
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// RedeemRewards converts rewardCost reward points into credits. Both sides
// of the conversion are a single conditional UPDATE guarded by the reward
// balance, so a double-spend of the same points is impossible.
func (r *userRepository) RedeemRewards(ctx context.Context, id uint, rewardCost, credits int) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND rewards >= ?", id, rewardCost).
		UpdateColumns(map[string]interface{}{
			"rewards":          gorm.Expr("rewards - ?", rewardCost),
			"total_ai_credits": gorm.Expr("total_ai_credits + ?", credits),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("User", id)
		}
		return models.NewInsufficientRewardsError()
	}
	cache.InvalidateUser(ctx, id)
	return nil
}
