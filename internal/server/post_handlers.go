package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		TagIDs  []string `json:"tag_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID: currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		TagIDs:   req.TagIDs,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// ListPosts handles GET /api/posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		ViewerID: currentUserID(c),
		AuthorID: c.Query("author_id"),
		Status:   c.Query("status"),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req struct {
		Title   string    `json:"title"`
		Content string    `json:"content"`
		Status  string    `json:"status"`
		TagIDs  *[]string `json:"tag_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	in := service.UpdatePostInput{
		PostID:  c.Params("id"),
		ActorID: currentUserID(c),
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	}
	if req.TagIDs != nil {
		in.TagIDs = *req.TagIDs
		in.TagIDsSet = true
	}

	post, err := s.postService.UpdatePost(c.Context(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// ActivatePost handles POST /api/posts/:id/activate
func (s *Server) ActivatePost(c *fiber.Ctx) error {
	post, err := s.postService.ActivatePost(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// ModifyPost handles POST /api/posts/:id/modify
func (s *Server) ModifyPost(c *fiber.Ctx) error {
	post, err := s.postService.ModifyPost(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// ArchivePost handles POST /api/posts/:id/archive
func (s *Server) ArchivePost(c *fiber.Ctx) error {
	post, err := s.postService.ArchivePost(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	if err := s.postService.DeletePost(c.Context(), c.Params("id"), currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
