package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddComment(t *testing.T) {
	ctx := context.Background()

	blogs := &blogRepoStub{
		getByIDFn: func(context.Context, uint, uint) (*models.Blog, error) {
			return &models.Blog{ID: 5, Author: models.AuthorSnapshot{ID: 7}}, nil
		},
	}
	users := &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Grace", AvatarURL: "https://img/grace.png"}, nil
		},
	}

	t.Run("snapshots the commenter and rewards the blog author", func(t *testing.T) {
		rewards := map[uint]int{}
		comments := &commentRepoStub{
			createFn: func(_ context.Context, c *models.Comment) error {
				c.ID = 9
				return nil
			},
		}
		svc := NewCommentService(comments, blogs, users, ledgerRecording(&rewards))

		comment, err := svc.AddComment(ctx, 5, 3, "nice post")
		require.NoError(t, err)
		assert.Equal(t, uint(3), comment.Author.ID)
		assert.Equal(t, "Grace", comment.Author.Name)
		assert.Equal(t, RewardForComment, rewards[7])
	})

	t.Run("author commenting on own blog earns nothing", func(t *testing.T) {
		rewards := map[uint]int{}
		comments := &commentRepoStub{
			createFn: func(context.Context, *models.Comment) error { return nil },
		}
		svc := NewCommentService(comments, blogs, users, ledgerRecording(&rewards))

		_, err := svc.AddComment(ctx, 5, 7, "thanks all")
		require.NoError(t, err)
		assert.Empty(t, rewards)
	})

	t.Run("rejects empty and oversized text", func(t *testing.T) {
		svc := NewCommentService(&commentRepoStub{}, blogs, users, nil)

		_, err := svc.AddComment(ctx, 5, 3, "")
		assert.Error(t, err)

		_, err = svc.AddComment(ctx, 5, 3, "   \n\t ")
		assert.Error(t, err)

		_, err = svc.AddComment(ctx, 5, 3, strings.Repeat("x", maxCommentLen+1))
		assert.Error(t, err)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	ctx := context.Background()

	blogs := &blogRepoStub{
		getByIDFn: func(context.Context, uint, uint) (*models.Blog, error) {
			return &models.Blog{ID: 5, Author: models.AuthorSnapshot{ID: 7}}, nil
		},
	}
	comments := func(deleted *bool) *commentRepoStub {
		return &commentRepoStub{
			getByIDFn: func(context.Context, uint, uint) (*models.Comment, error) {
				return &models.Comment{ID: 9, BlogID: 5, Author: models.AuthorSnapshot{ID: 3}}, nil
			},
			deleteFn: func(context.Context, uint, uint) error {
				*deleted = true
				return nil
			},
		}
	}

	t.Run("comment author may delete", func(t *testing.T) {
		deleted := false
		svc := NewCommentService(comments(&deleted), blogs, &userRepoStub{}, nil)
		require.NoError(t, svc.DeleteComment(ctx, 5, 9, 3))
		assert.True(t, deleted)
	})

	t.Run("blog author may delete", func(t *testing.T) {
		deleted := false
		svc := NewCommentService(comments(&deleted), blogs, &userRepoStub{}, nil)
		require.NoError(t, svc.DeleteComment(ctx, 5, 9, 7))
		assert.True(t, deleted)
	})

	t.Run("anyone else may not", func(t *testing.T) {
		deleted := false
		svc := NewCommentService(comments(&deleted), blogs, &userRepoStub{}, nil)

		err := svc.DeleteComment(ctx, 5, 9, 42)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeUnauthorized, appErr.Code)
		assert.False(t, deleted)
	})
}
