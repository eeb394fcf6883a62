package service

import (
	"context"
	"fmt"

	"murmur/internal/models"
	"murmur/internal/repository"
)

// ReactionService implements the toggle semantics: reacting with the
// same type twice removes the reaction, reacting with the other type
// switches it in place. Counter updates ride in the same transaction
// as the row change.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	replyRepo    repository.ReplyRepository
	userRepo     repository.UserRepository
}

type ReactInput struct {
	ActorID    string
	TargetType string
	TargetID   string
	Type       string
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	replyRepo repository.ReplyRepository,
	userRepo repository.UserRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		replyRepo:    replyRepo,
		userRepo:     userRepo,
	}
}

// React applies one like/dislike call and reports which of the three
// outcomes happened. The reaction return value is nil only for the
// removed outcome.
func (s *ReactionService) React(ctx context.Context, in ReactInput) (*models.Reaction, models.ReactionOutcome, error) {
	if !models.ValidTargetType(in.TargetType) {
		return nil, 0, models.NewValidationError("Invalid target type")
	}
	if !models.ValidReactionType(in.Type) {
		return nil, 0, models.NewValidationError("Invalid reaction type")
	}

	user, err := s.userRepo.GetByID(ctx, in.ActorID)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return nil, 0, models.NewNotFoundError("User not found")
	}
	if !user.IsActive {
		return nil, 0, models.NewForbiddenError("Inactive user")
	}

	if err := s.requireActiveTarget(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, 0, err
	}

	existing, err := s.reactionRepo.Get(ctx, in.ActorID, in.TargetID, in.TargetType)
	if err != nil {
		return nil, 0, err
	}

	switch {
	case existing == nil:
		reaction := &models.Reaction{
			UserID:     in.ActorID,
			TargetID:   in.TargetID,
			TargetType: in.TargetType,
			Type:       in.Type,
		}
		if err := s.reactionRepo.Create(ctx, reaction); err != nil {
			return nil, 0, err
		}
		return reaction, models.ReactionCreated, nil

	case existing.Type == in.Type:
		if err := s.reactionRepo.Remove(ctx, existing); err != nil {
			return nil, 0, err
		}
		return nil, models.ReactionRemoved, nil

	default:
		if err := s.reactionRepo.Switch(ctx, existing, in.Type); err != nil {
			return nil, 0, err
		}
		return existing, models.ReactionSwitched, nil
	}
}

// requireActiveTarget resolves the target by kind. Absent targets read
// as not found; present but non-active ones reject the reaction.
func (s *ReactionService) requireActiveTarget(ctx context.Context, targetType, targetID string) error {
	var status string
	switch targetType {
	case models.TargetPost:
		post, err := s.postRepo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if post == nil {
			return models.NewNotFoundError("Post not found")
		}
		status = post.Status
	case models.TargetComment:
		comment, err := s.commentRepo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if comment == nil {
			return models.NewNotFoundError("Comment not found")
		}
		status = comment.Status
	case models.TargetReply:
		reply, err := s.replyRepo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if reply == nil {
			return models.NewNotFoundError("Reply not found")
		}
		status = reply.Status
	}
	if status != models.PostStatusActive {
		return models.NewValidationError(fmt.Sprintf("Cannot react to inactive %s", targetType))
	}
	return nil
}
