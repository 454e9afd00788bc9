package service

import (
	"context"
	"log/slog"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

const maxCommentLen = 2000

// CommentService provides comment business logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	blogRepo    repository.BlogRepository
	userRepo    repository.UserRepository
	ledger      *LedgerService
}

// NewCommentService returns a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, blogRepo repository.BlogRepository, userRepo repository.UserRepository, ledger *LedgerService) *CommentService {
	return &CommentService{commentRepo: commentRepo, blogRepo: blogRepo, userRepo: userRepo, ledger: ledger}
}

// AddComment posts a comment on the blog. The commenter's identity is
// snapshotted the same way blog authorship is; a comment from someone other
// than the blog's author accrues reward points to that author.
func (s *CommentService) AddComment(ctx context.Context, blogID, userID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	blog, err := s.blogRepo.GetByID(ctx, blogID, 0)
	if err != nil {
		return nil, err
	}

	commenter, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		BlogID: blogID,
		Text:   text,
		Author: models.AuthorSnapshot{
			ID:        commenter.ID,
			Name:      commenter.Name,
			AvatarURL: commenter.AvatarURL,
		},
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()

	if blog.Author.ID != userID {
		if _, err := s.ledger.AccrueReward(ctx, blog.Author.ID, RewardActionComment); err != nil {
			middleware.Logger.ErrorContext(ctx, "failed to accrue comment reward",
				slog.Any("user_id", blog.Author.ID), slog.String("error", err.Error()))
		}
	}
	return comment, nil
}

// ListComments returns the blog's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, blogID uint) ([]models.Comment, error) {
	if _, err := s.blogRepo.GetByID(ctx, blogID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByBlog(ctx, blogID)
}

// DeleteComment removes the comment. The comment's author and the blog's
// author may both delete it.
func (s *CommentService) DeleteComment(ctx context.Context, blogID, commentID, userID uint) error {
	blog, err := s.blogRepo.GetByID(ctx, blogID, 0)
	if err != nil {
		return err
	}
	comment, err := s.commentRepo.GetByID(ctx, blogID, commentID)
	if err != nil {
		return err
	}
	if comment.Author.ID != userID && blog.Author.ID != userID {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, blogID, commentID)
}
