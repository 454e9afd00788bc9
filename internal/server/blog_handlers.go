package server

import (
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateBlog handles POST /api/blogs
// @Summary Publish a blog
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,excerpt=string,content=string,category=string,hero_image=string} true "Blog"
// @Success 201 {object} models.Blog
// @Failure 400 {object} object{error=string}
// @Router /blogs [post]
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Title     string `json:"title"`
		Excerpt   string `json:"excerpt"`
		Content   string `json:"content"`
		Category  string `json:"category"`
		HeroImage string `json:"hero_image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.CreateBlog(c.Context(), service.CreateBlogInput{
		AuthorID:  userID,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Category:  req.Category,
		HeroImage: req.HeroImage,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(blog)
}

// GetBlogs handles GET /api/blogs
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	// Optional author filter: ?author=<id>
	if authorID := c.QueryInt("author", 0); authorID > 0 {
		blogs, err := s.blogService.ListByAuthor(c.Context(), uint(authorID), page.Limit, page.Offset, currentUserID)
		if err != nil {
			return models.RespondWithError(c, mapServiceError(err), err)
		}
		return c.JSON(blogs)
	}

	blogs, err := s.blogService.ListBlogs(c.Context(), page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(blogs)
}

// GetBlog handles GET /api/blogs/:id
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	blog, err := s.blogService.GetBlog(c.Context(), id, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(blog)
}

// UpdateBlog handles PUT /api/blogs/:id
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title     string `json:"title"`
		Excerpt   string `json:"excerpt"`
		Content   string `json:"content"`
		Category  string `json:"category"`
		HeroImage string `json:"hero_image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.UpdateBlog(c.Context(), service.UpdateBlogInput{
		BlogID:    id,
		UserID:    userID,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Category:  req.Category,
		HeroImage: req.HeroImage,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(blog)
}

// DeleteBlog handles DELETE /api/blogs/:id
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.blogService.DeleteBlog(c.Context(), id, userID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Blog deleted",
	})
}

// ToggleLike handles POST /api/blogs/:id/like. Liking an already-liked blog
// removes the like.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, err := s.blogService.ToggleLike(c.Context(), id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"liked": liked,
	})
}

// CreateComment handles POST /api/blogs/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.Context(), id, userID, req.Text)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/blogs/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/blogs/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), blogID, commentID, userID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Comment deleted",
	})
}

// SearchBlogs handles GET /api/blogs/search?q=...&page=1&limit=10
func (s *Server) SearchBlogs(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	currentUserID, _ := s.optionalUserID(c)

	result, err := s.blogService.SearchByTitle(c.Context(), q, page, limit, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(result)
}

// GetBlogsByCategory handles GET /api/blogs/category/:category
func (s *Server) GetBlogsByCategory(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Params("category"))
	if category == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Category is required"))
	}
	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	blogs, err := s.blogService.SearchByCategory(c.Context(), category, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(blogs)
}
