package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for blog comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, blogID, commentID uint) (*models.Comment, error)
	ListByBlog(ctx context.Context, blogID uint) ([]models.Comment, error)
	Delete(ctx context.Context, blogID, commentID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, comment.BlogID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, blogID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND blog_id = ?", commentID, blogID).
		First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListByBlog returns all comments on the blog, newest first.
func (r *commentRepository) ListByBlog(ctx context.Context, blogID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := cache.Aside(ctx, cache.CommentsKey(blogID), &comments, cache.CommentsTTL, func() error {
		return r.db.WithContext(ctx).
			Where("blog_id = ?", blogID).
			Order("created_at DESC").
			Find(&comments).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// Delete soft deletes the comment, scoped to the blog so a comment ID from
// another post cannot be removed through the wrong route.
func (r *commentRepository) Delete(ctx context.Context, blogID, commentID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND blog_id = ?", commentID, blogID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", commentID)
	}
	cache.InvalidateBlog(ctx, blogID)
	return nil
}
