package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTag handles POST /api/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.CreateTag(c.Context(), service.CreateTagInput{
		CreatorID:   currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// ListTags handles GET /api/tags
func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.tagService.ListTags(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"tags":  tags,
		"count": len(tags),
	})
}

// GetTag handles GET /api/tags/:id
func (s *Server) GetTag(c *fiber.Ctx) error {
	tag, err := s.tagService.GetTag(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tag)
}

// UpdateTag handles PUT /api/tags/:id
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.UpdateTag(c.Context(), service.UpdateTagInput{
		TagID:       c.Params("id"),
		ActorID:     currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tag)
}

// DeleteTag handles DELETE /api/tags/:id
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	if err := s.tagService.DeleteTag(c.Context(), c.Params("id"), currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ArchiveTag handles POST /api/tags/:id/archive
func (s *Server) ArchiveTag(c *fiber.Ctx) error {
	tag, err := s.tagService.ArchiveTag(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(tag)
}

// AddTagToPost handles POST /api/posts/:id/tags/:tagId
func (s *Server) AddTagToPost(c *fiber.Ctx) error {
	err := s.tagService.AddTagToPost(c.Context(),
		c.Params("id"), c.Params("tagId"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// RemoveTagFromPost handles DELETE /api/posts/:id/tags/:tagId
func (s *Server) RemoveTagFromPost(c *fiber.Ctx) error {
	err := s.tagService.RemoveTagFromPost(c.Context(),
		c.Params("id"), c.Params("tagId"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPostTags handles GET /api/posts/:id/tags
func (s *Server) ListPostTags(c *fiber.Ctx) error {
	tags, err := s.tagService.ListPostTags(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{
		"tags":  tags,
		"count": len(tags),
	})
}
