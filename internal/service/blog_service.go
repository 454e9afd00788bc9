package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renders blog content to HTML on read. GFM covers the tables and
// strikethrough authors actually use.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func renderContent(content string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		middleware.Logger.Warn("markdown rendering failed", slog.String("error", err.Error()))
		return ""
	}
	return buf.String()
}

// BlogService provides blog CRUD, like-toggle, and search business logic.
type BlogService struct {
	blogRepo repository.BlogRepository
	userRepo repository.UserRepository
	ledger   *LedgerService
}

// CreateBlogInput carries the fields for a new blog post.
type CreateBlogInput struct {
	AuthorID  uint
	Title     string
	Excerpt   string
	Content   string
	Category  string
	HeroImage string
}

// UpdateBlogInput carries the editable fields; empty strings leave the
// stored field unchanged.
type UpdateBlogInput struct {
	BlogID    uint
	UserID    uint
	Title     string
	Excerpt   string
	Content   string
	Category  string
	HeroImage string
}

// NewBlogService returns a new BlogService.
func NewBlogService(blogRepo repository.BlogRepository, userRepo repository.UserRepository, ledger *LedgerService) *BlogService {
	return &BlogService{blogRepo: blogRepo, userRepo: userRepo, ledger: ledger}
}

// CreateBlog publishes a new post. The author fields are snapshotted from
// the live profile at creation time and never updated afterwards.
func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	if in.Title == "" || in.Content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}
	if err := validation.ValidateExcerpt(in.Excerpt); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Category:  in.Category,
		HeroImage: in.HeroImage,
		Author: models.AuthorSnapshot{
			ID:        author.ID,
			Name:      author.Name,
			AvatarURL: author.AvatarURL,
		},
		ReadingTime: models.ReadingTime(in.Content),
	}

	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}
	observability.BlogsPublished.WithLabelValues(blog.Category).Inc()

	// Publishing earns the author reward points. The post already exists,
	// so a failed accrual is logged rather than failing the request.
	if _, err := s.ledger.AccrueReward(ctx, author.ID, RewardActionBlog); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to accrue blog reward",
			slog.Any("user_id", author.ID), slog.String("error", err.Error()))
	}

	blog.ContentHTML = renderContent(blog.Content)
	return blog, nil
}

// GetBlog returns the post with counts, the viewer's liked flag, and the
// rendered HTML body.
func (s *BlogService) GetBlog(ctx context.Context, blogID, currentUserID uint) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID, currentUserID)
	if err != nil {
		return nil, err
	}
	blog.ContentHTML = renderContent(blog.Content)
	return blog, nil
}

// ListBlogs returns the newest posts first.
func (s *BlogService) ListBlogs(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	return s.blogRepo.List(ctx, limit, offset, currentUserID)
}

// ListByAuthor returns the author's posts, newest first.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByAuthorID(ctx, authorID, limit, offset, currentUserID)
}

// UpdateBlog edits the post. Only the author may edit; reading time is
// recomputed whenever the content changes.
func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, in.BlogID, in.UserID)
	if err != nil {
		return nil, err
	}
	if blog.Author.ID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own blogs")
	}

	if in.Title != "" {
		blog.Title = in.Title
	}
	if in.Excerpt != "" {
		if err := validation.ValidateExcerpt(in.Excerpt); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		blog.Excerpt = in.Excerpt
	}
	if in.Content != "" && in.Content != blog.Content {
		blog.Content = in.Content
		blog.ReadingTime = models.ReadingTime(in.Content)
	}
	if in.Category != "" {
		blog.Category = in.Category
	}
	if in.HeroImage != "" {
		blog.HeroImage = in.HeroImage
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}

	blog.ContentHTML = renderContent(blog.Content)
	return blog, nil
}

// DeleteBlog removes the post. Only the author may delete.
func (s *BlogService) DeleteBlog(ctx context.Context, blogID, userID uint) error {
	blog, err := s.blogRepo.GetByID(ctx, blogID, userID)
	if err != nil {
		return err
	}
	if blog.Author.ID != userID {
		return models.NewUnauthorizedError("You can only delete your own blogs")
	}
	return s.blogRepo.Delete(ctx, blogID)
}

// ToggleLike flips the viewer's like on the post and returns the new state.
// A fresh like from someone other than the author accrues a reward point to
// the author; removing a like never claws points back.
func (s *BlogService) ToggleLike(ctx context.Context, blogID, userID uint) (bool, error) {
	blog, err := s.blogRepo.GetByID(ctx, blogID, userID)
	if err != nil {
		return false, err
	}

	if blog.Liked {
		if _, err := s.blogRepo.Unlike(ctx, userID, blogID); err != nil {
			return false, err
		}
		observability.LikeToggles.WithLabelValues("unlike").Inc()
		return false, nil
	}

	created, err := s.blogRepo.Like(ctx, userID, blogID)
	if err != nil {
		return false, err
	}
	observability.LikeToggles.WithLabelValues("like").Inc()

	if created && blog.Author.ID != userID {
		if _, err := s.ledger.AccrueReward(ctx, blog.Author.ID, RewardActionLike); err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to accrue like reward",
				slog.Any("user_id", blog.Author.ID), slog.String("error", err.Error()))
		}
	}
	return true, nil
}

// SearchByTitle returns the requested page of title matches. Requesting a
// page past the last one is reported as not found rather than returned as
// an empty page.
func (s *BlogService) SearchByTitle(ctx context.Context, query string, page, pageSize int, currentUserID uint) (*models.BlogPage, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	offset := (page - 1) * pageSize
	blogs, total, err := s.blogRepo.SearchByTitle(ctx, query, pageSize, offset, currentUserID)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if total > 0 && page > totalPages {
		return nil, &models.AppError{
			Code:    models.CodeNotFound,
			Message: fmt.Sprintf("Page %d does not exist", page),
		}
	}

	return &models.BlogPage{
		Blogs:       blogs,
		TotalCount:  total,
		CurrentPage: page,
		TotalPages:  totalPages,
	}, nil
}

// SearchByCategory returns the newest posts in the category.
func (s *BlogService) SearchByCategory(ctx context.Context, category string, limit, offset int, currentUserID uint) ([]*models.Blog, error) {
	if category == "" {
		return nil, models.NewValidationError("Category is required")
	}
	return s.blogRepo.GetByCategory(ctx, category, limit, offset, currentUserID)
}
