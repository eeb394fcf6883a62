package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /api/posts/:id/comments/:commentId/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.CreateReply(c.Context(), service.CreateReplyInput{
		PostID:    c.Params("id"),
		CommentID: c.Params("commentId"),
		AuthorID:  currentUserID(c),
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// ListReplies handles GET /api/posts/:id/comments/:commentId/replies
func (s *Server) ListReplies(c *fiber.Ctx) error {
	replies, err := s.replyService.ListReplies(c.Context(),
		c.Params("id"), c.Params("commentId"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"replies": replies,
		"count":   len(replies),
	})
}

// GetReply handles GET /api/posts/:id/comments/:commentId/replies/:replyId
func (s *Server) GetReply(c *fiber.Ctx) error {
	reply, err := s.replyService.GetReply(c.Context(),
		c.Params("id"), c.Params("commentId"), c.Params("replyId"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reply)
}

// UpdateReply handles PUT /api/posts/:id/comments/:commentId/replies/:replyId
func (s *Server) UpdateReply(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.UpdateReply(c.Context(), service.UpdateReplyInput{
		PostID:    c.Params("id"),
		CommentID: c.Params("commentId"),
		ReplyID:   c.Params("replyId"),
		ActorID:   currentUserID(c),
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reply)
}

// DeleteReply handles DELETE /api/posts/:id/comments/:commentId/replies/:replyId
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	err := s.replyService.DeleteReply(c.Context(),
		c.Params("id"), c.Params("commentId"), c.Params("replyId"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ArchiveReply handles POST /api/posts/:id/comments/:commentId/replies/:replyId/archive
func (s *Server) ArchiveReply(c *fiber.Ctx) error {
	reply, err := s.replyService.ArchiveReply(c.Context(),
		c.Params("id"), c.Params("commentId"), c.Params("replyId"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reply)
}

// ActivateReply handles POST /api/posts/:id/comments/:commentId/replies/:replyId/activate
func (s *Server) ActivateReply(c *fiber.Ctx) error {
	reply, err := s.replyService.ActivateReply(c.Context(),
		c.Params("id"), c.Params("commentId"), c.Params("replyId"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(reply)
}
