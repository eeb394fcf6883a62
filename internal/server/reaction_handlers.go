package server

import (
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// React handles POST /api/reactions. The status code reports the
// outcome: 201 created, 200 switched, 204 removed.
func (s *Server) React(c *fiber.Ctx) error {
	var req struct {
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Type       string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	reaction, outcome, err := s.reactionService.React(c.Context(), service.ReactInput{
		ActorID:    currentUserID(c),
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Type:       req.Type,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.ReactionOutcomes.WithLabelValues(outcome.String()).Inc()

	switch outcome {
	case models.ReactionCreated:
		return c.Status(fiber.StatusCreated).JSON(reaction)
	case models.ReactionSwitched:
		return c.JSON(reaction)
	default:
		return c.SendStatus(fiber.StatusNoContent)
	}
}
