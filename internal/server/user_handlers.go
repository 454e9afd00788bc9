package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"inkwell/internal/imagestore"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// profileResponse is the API response for a user profile.
type profileResponse struct {
	User           *models.User `json:"user"`
	FollowersCount int64        `json:"followers_count"`
	FollowingCount int64        `json:"following_count"`
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, followers, following, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profileResponse{
		User:           user,
		FollowersCount: followers,
		FollowingCount: following,
	})
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, followers, following, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profileResponse{
		User:           user,
		FollowersCount: followers,
		FollowingCount: following,
	})
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name    string `json:"name"`
		Gender  string `json:"gender"`
		DOB     string `json:"dob"`
		Address string `json:"address"`
		Title   string `json:"title"`
		About   string `json:"about"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var dob *time.Time
	if req.DOB != "" {
		parsed, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid date of birth, expected YYYY-MM-DD"))
		}
		dob = &parsed
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:  userID,
		Name:    req.Name,
		Gender:  req.Gender,
		DOB:     dob,
		Address: req.Address,
		Title:   req.Title,
		About:   req.About,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// UploadAvatar handles POST /api/users/me/avatar. The multipart file is
// written to a local staging directory, pushed to the image store, and the
// staging copy removed once the upload succeeded.
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	file, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	if err := os.MkdirAll(s.config.AvatarUploadDir, 0o755); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Stage under a generated name; the client filename is untrusted.
	localPath := filepath.Join(s.config.AvatarUploadDir,
		fmt.Sprintf("%d-%s%s", userID, uuid.New().String()[:8], filepath.Ext(file.Filename)))
	if err := c.SaveFile(file, localPath); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer func() { _ = os.Remove(localPath) }()

	url, err := s.uploader.Upload(c.UserContext(), localPath)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewGatewayError(err))
	}

	user, err := s.userService.SetAvatar(c.Context(), userID, url)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"avatar_url": user.AvatarURL,
		"user":       user,
	})
}

// GenerateAvatar handles POST /api/users/me/avatar/generate. A random
// avatar matching the user's gender replaces the current one.
func (s *Server) GenerateAvatar(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	url := imagestore.RandomAvatarURL(user.Gender)
	updated, err := s.userService.SetAvatar(c.Context(), userID, url)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"avatar_url": updated.AvatarURL,
		"user":       updated,
	})
}

// GetAvatar handles GET /api/users/:id/avatar
func (s *Server) GetAvatar(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	url, err := s.userService.GetAvatar(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"avatar_url": url,
	})
}

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	created, err := s.userService.Follow(c.Context(), userID, targetID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	message := "User followed"
	if !created {
		message = "Already following this user"
	}
	return c.JSON(fiber.Map{
		"message":   message,
		"following": true,
	})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	removed, err := s.userService.Unfollow(c.Context(), userID, targetID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	message := "User unfollowed"
	if !removed {
		message = "Not following this user"
	}
	return c.JSON(fiber.Map{
		"message":   message,
		"following": false,
	})
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	followers, err := s.userService.ListFollowers(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"followers": followers,
		"count":     len(followers),
	})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	following, err := s.userService.ListFollowing(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"following": following,
		"count":     len(following),
	})
}
