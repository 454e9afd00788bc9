// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error)
	GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Blog, error)
	GetByCategory(ctx context.Context, category string, limit, offset int, currentUserID uint) ([]*models.Blog, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Blog, error)
	SearchByTitle(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Blog, int64, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, blogID uint) (bool, error)
	Like(ctx context.Context, userID, blogID uint) (bool, error)
	Unlike(ctx context.Context, userID, blogID uint) (bool, error)
}

// blogRepository implements BlogRepository
type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyBlogDetails adds subqueries to fetch counts and liked status in a single query.
func (r *blogRepository) applyBlogDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "blogs.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.blog_id = blogs.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM blog_likes WHERE blog_likes.blog_id = blogs.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM blog_likes WHERE blog_likes.blog_id = blogs.id AND blog_likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *blogRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error) {
	var blog models.Blog

	var err error
	if currentUserID == 0 {
		// Anonymous reads share one cache entry; liked is always false for them.
		err = cache.Aside(ctx, cache.BlogKey(id), &blog, cache.BlogTTL, func() error {
			return r.applyBlogDetails(r.db.WithContext(ctx), 0).First(&blog, id).Error
		})
	} else {
		err = r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).First(&blog, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &blog, nil
}

func (r *blogRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

func (r *blogRepository) GetByCategory(ctx context.Context, category string, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Where("LOWER(category) = LOWER(?)", category).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

func (r *blogRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return blogs, nil
}

// SearchByTitle returns the matching page plus the total match count so the
// caller can derive page numbers. The LOWER comparison keeps the query
// portable across PostgreSQL and the SQLite test database.
func (r *blogRepository) SearchByTitle(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Blog, int64, error) {
	like := "%" + query + "%"

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("LOWER(title) LIKE LOWER(?)", like).
		Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var blogs []*models.Blog
	err := r.applyBlogDetails(r.db.WithContext(ctx), currentUserID).
		Where("LOWER(title) LIKE LOWER(?)", like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return blogs, total, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, blog.ID)
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Blog{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBlog(ctx, id)
	return nil
}

func (r *blogRepository) IsLiked(ctx context.Context, userID, blogID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BlogLike{}).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Like inserts the like row. ON CONFLICT DO NOTHING makes concurrent
// duplicate likes collapse into one row; returns false when already liked.
func (r *blogRepository) Like(ctx context.Context, userID, blogID uint) (bool, error) {
	like := models.BlogLike{UserID: userID, BlogID: blogID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.BlogKey(blogID))
	}
	return res.RowsAffected > 0, nil
}

// Unlike hard deletes the like record; returns false when no like existed.
func (r *blogRepository) Unlike(ctx context.Context, userID, blogID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND blog_id = ?", userID, blogID).
		Delete(&models.BlogLike{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.BlogKey(blogID))
	}
	return res.RowsAffected > 0, nil
}
