package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		PostID:   c.Params("id"),
		AuthorID: currentUserID(c),
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments handles GET /api/posts/:id/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	comments, err := s.commentService.ListComments(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"comments": comments,
		"count":    len(comments),
	})
}

// GetComment handles GET /api/posts/:id/comments/:commentId
func (s *Server) GetComment(c *fiber.Ctx) error {
	comment, err := s.commentService.GetComment(c.Context(), c.Params("id"), c.Params("commentId"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// UpdateComment handles PUT /api/posts/:id/comments/:commentId
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		PostID:    c.Params("id"),
		CommentID: c.Params("commentId"),
		ActorID:   currentUserID(c),
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	err := s.commentService.DeleteComment(c.Context(),
		c.Params("id"), c.Params("commentId"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ArchiveComment handles POST /api/posts/:id/comments/:commentId/archive
func (s *Server) ArchiveComment(c *fiber.Ctx) error {
	comment, err := s.commentService.ArchiveComment(c.Context(),
		c.Params("id"), c.Params("commentId"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}

// ActivateComment handles POST /api/posts/:id/comments/:commentId/activate
func (s *Server) ActivateComment(c *fiber.Ctx) error {
	comment, err := s.commentService.ActivateComment(c.Context(),
		c.Params("id"), c.Params("commentId"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comment)
}
