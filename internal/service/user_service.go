package service

import (
	"context"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// UserService provides profile and follow-graph business logic.
type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// UpdateProfileInput carries the optional profile fields; empty strings and
// nil values leave the stored field unchanged.
type UpdateProfileInput struct {
	UserID  uint
	Name    string
	Gender  string
	DOB     *time.Time
	Address string
	Title   string
	About   string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// GetUserByID returns the user with follower and following counts attached.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, int64, int64, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, 0, err
	}
	followers, following, err := s.followRepo.Counts(ctx, id)
	if err != nil {
		return nil, 0, 0, err
	}
	return user, followers, following, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxAboutLen = 1000
	const maxTitleLen = 120

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Gender != "" {
		if err := validation.ValidateGender(models.Gender(in.Gender)); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Gender = models.Gender(in.Gender)
	}
	if in.DOB != nil {
		user.DOB = *in.DOB
	}
	if in.Address != "" {
		user.Address = in.Address
	}
	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 120 characters)")
		}
		user.Title = in.Title
	}
	if in.About != "" {
		if len(in.About) > maxAboutLen {
			return nil, models.NewValidationError("About too long (max 1000 characters)")
		}
		user.About = in.About
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetAvatar stores the new avatar URL and returns the updated user.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, url string) (*models.User, error) {
	if err := s.userRepo.SetAvatar(ctx, userID, url); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// GetAvatar returns the current avatar URL for the user.
func (s *UserService) GetAvatar(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.AvatarURL, nil
}

// Follow makes follower follow target. Following an already-followed user
// is a no-op; the returned bool reports whether a new edge was created.
func (s *UserService) Follow(ctx context.Context, followerID, targetID uint) (bool, error) {
	if followerID == targetID {
		return false, models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}
	return s.followRepo.Create(ctx, followerID, targetID)
}

// Unfollow removes the follow edge. Unfollowing a user who was never
// followed is a no-op; the returned bool reports whether an edge was removed.
func (s *UserService) Unfollow(ctx context.Context, followerID, targetID uint) (bool, error) {
	if followerID == targetID {
		return false, models.NewValidationError("Cannot unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return false, err
	}
	return s.followRepo.Delete(ctx, followerID, targetID)
}

// ListFollowers returns the users following the given user.
func (s *UserService) ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, userID)
}

// ListFollowing returns the users the given user follows.
func (s *UserService) ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, userID)
}
