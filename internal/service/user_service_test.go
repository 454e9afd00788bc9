package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Follow(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects following yourself", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, &followRepoStub{})

		_, err := svc.Follow(ctx, 1, 1)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	t.Run("rejects a missing target", func(t *testing.T) {
		repo := &userRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				return nil, models.NewNotFoundError("User", id)
			},
		}
		svc := NewUserService(repo, &followRepoStub{})

		_, err := svc.Follow(ctx, 1, 2)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("repeated follow is a no-op", func(t *testing.T) {
		repo := &userRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id}, nil
			},
		}
		follows := &followRepoStub{
			createFn: func(context.Context, uint, uint) (bool, error) {
				return false, nil
			},
		}
		svc := NewUserService(repo, follows)

		created, err := svc.Follow(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, created)
	})
}

func TestUserService_Unfollow(t *testing.T) {
	ctx := context.Background()

	t.Run("unfollow of a never-followed user is a no-op", func(t *testing.T) {
		repo := &userRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id}, nil
			},
		}
		follows := &followRepoStub{
			deleteFn: func(context.Context, uint, uint) (bool, error) {
				return false, nil
			},
		}
		svc := NewUserService(repo, follows)

		removed, err := svc.Unfollow(ctx, 1, 2)
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("rejects unfollowing yourself", func(t *testing.T) {
		svc := NewUserService(&userRepoStub{}, &followRepoStub{})

		_, err := svc.Unfollow(ctx, 3, 3)
		assert.Error(t, err)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	base := func() *userRepoStub {
		return &userRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id, Name: "Old", Gender: models.GenderOther}, nil
			},
			updateFn: func(context.Context, *models.User) error { return nil },
		}
	}

	t.Run("applies only the provided fields", func(t *testing.T) {
		svc := NewUserService(base(), &followRepoStub{})

		user, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Title: "Staff Writer"})
		require.NoError(t, err)
		assert.Equal(t, "Old", user.Name)
		assert.Equal(t, "Staff Writer", user.Title)
	})

	t.Run("rejects an unknown gender", func(t *testing.T) {
		svc := NewUserService(base(), &followRepoStub{})

		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: 1, Gender: "robot"})
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()

	repo := &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Writer"}, nil
		},
	}
	follows := &followRepoStub{
		countsFn: func(context.Context, uint) (int64, int64, error) {
			return 3, 7, nil
		},
	}
	svc := NewUserService(repo, follows)

	user, followers, following, err := svc.GetUserByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Writer", user.Name)
	assert.EqualValues(t, 3, followers)
	assert.EqualValues(t, 7, following)
}
