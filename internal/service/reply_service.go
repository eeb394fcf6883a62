package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/repository"
)

// ReplyService mirrors CommentService one level deeper: every
// operation requires the chain post ACTIVE, comment ACTIVE. Deleting a
// reply is a soft delete, the row stays with status ARCHIVED.
type ReplyService struct {
	replyRepo   repository.ReplyRepository
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateReplyInput struct {
	PostID    string
	CommentID string
	AuthorID  string
	Content   string
}

type UpdateReplyInput struct {
	PostID    string
	CommentID string
	ReplyID   string
	ActorID   string
	Content   string
}

func NewReplyService(replyRepo repository.ReplyRepository, commentRepo repository.CommentRepository, postRepo repository.PostRepository) *ReplyService {
	return &ReplyService{replyRepo: replyRepo, commentRepo: commentRepo, postRepo: postRepo}
}

const maxReplyLen = 10000

// CreateReply adds an ACTIVE reply under an ACTIVE comment of an
// ACTIVE post.
func (s *ReplyService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Reply, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxReplyLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}
	if _, err := s.requireActiveChain(ctx, in.PostID, in.CommentID); err != nil {
		return nil, err
	}

	reply := &models.Reply{
		CommentID: in.CommentID,
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		Status:    models.ReplyStatusActive,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// ListReplies returns the ACTIVE replies under a comment, oldest
// first.
func (s *ReplyService) ListReplies(ctx context.Context, postID, commentID string) ([]*models.Reply, error) {
	if _, err := s.requireActiveChain(ctx, postID, commentID); err != nil {
		return nil, err
	}
	return s.replyRepo.ListActiveByComment(ctx, commentID)
}

// GetReply resolves one ACTIVE reply under a comment. A reply
// belonging to a different comment reads as not found; an archived
// reply is only reachable through the activate toggle.
func (s *ReplyService) GetReply(ctx context.Context, postID, commentID, replyID string) (*models.Reply, error) {
	if _, err := s.requireActiveChain(ctx, postID, commentID); err != nil {
		return nil, err
	}
	reply, err := s.requireReplyInComment(ctx, commentID, replyID)
	if err != nil {
		return nil, err
	}
	if reply.Status != models.ReplyStatusActive {
		return nil, models.NewForbiddenError("Reply is not active")
	}
	return reply, nil
}

// UpdateReply edits the content. Author only; the whole chain and the
// reply itself must be ACTIVE.
func (s *ReplyService) UpdateReply(ctx context.Context, in UpdateReplyInput) (*models.Reply, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxReplyLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}
	reply, err := s.requireMutableReply(ctx, in.PostID, in.CommentID, in.ReplyID, in.ActorID)
	if err != nil {
		return nil, err
	}
	reply.Content = in.Content
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteReply soft-deletes: the reply row stays, its status becomes
// ARCHIVED.
func (s *ReplyService) DeleteReply(ctx context.Context, postID, commentID, replyID, actorID string) error {
	reply, err := s.requireMutableReply(ctx, postID, commentID, replyID, actorID)
	if err != nil {
		return err
	}
	reply.Status = models.ReplyStatusArchived
	return s.replyRepo.Update(ctx, reply)
}

// ArchiveReply retires an ACTIVE reply.
func (s *ReplyService) ArchiveReply(ctx context.Context, postID, commentID, replyID, actorID string) (*models.Reply, error) {
	return s.toggleStatus(ctx, postID, commentID, replyID, actorID,
		models.ReplyStatusActive, models.ReplyStatusArchived,
		"Only active replies can be archived")
}

// ActivateReply restores an ARCHIVED reply.
func (s *ReplyService) ActivateReply(ctx context.Context, postID, commentID, replyID, actorID string) (*models.Reply, error) {
	return s.toggleStatus(ctx, postID, commentID, replyID, actorID,
		models.ReplyStatusArchived, models.ReplyStatusActive,
		"Only archived replies can be activated")
}

func (s *ReplyService) toggleStatus(ctx context.Context, postID, commentID, replyID, actorID, from, to, wrongStateMsg string) (*models.Reply, error) {
	if _, err := s.requireActiveChain(ctx, postID, commentID); err != nil {
		return nil, err
	}
	reply, err := s.requireReplyInComment(ctx, commentID, replyID)
	if err != nil {
		return nil, err
	}
	if reply.AuthorID != actorID {
		return nil, models.NewForbiddenError("Not authorized to modify this reply")
	}
	if reply.Status != from {
		return nil, models.NewForbiddenError(wrongStateMsg)
	}
	reply.Status = to
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *ReplyService) requireActiveChain(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}
	if post.Status != models.PostStatusActive {
		return nil, models.NewForbiddenError("Post is not active")
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NewNotFoundError("Comment not found")
	}
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("Comment not found in this post")
	}
	if comment.Status != models.CommentStatusActive {
		return nil, models.NewForbiddenError("Comment is not active")
	}
	return comment, nil
}

func (s *ReplyService) requireReplyInComment(ctx context.Context, commentID, replyID string) (*models.Reply, error) {
	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply == nil {
		return nil, models.NewNotFoundError("Reply not found")
	}
	if reply.CommentID != commentID {
		return nil, models.NewNotFoundError("Reply not found in this comment")
	}
	return reply, nil
}

func (s *ReplyService) requireMutableReply(ctx context.Context, postID, commentID, replyID, actorID string) (*models.Reply, error) {
	if _, err := s.requireActiveChain(ctx, postID, commentID); err != nil {
		return nil, err
	}
	reply, err := s.requireReplyInComment(ctx, commentID, replyID)
	if err != nil {
		return nil, err
	}
	if reply.AuthorID != actorID {
		return nil, models.NewForbiddenError("Not authorized to modify this reply")
	}
	if reply.Status != models.ReplyStatusActive {
		return nil, models.NewForbiddenError("Reply is not active")
	}
	return reply, nil
}
