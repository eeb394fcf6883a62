package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/repository"
)

// CommentService guards every comment operation behind its parent
// post: the post must exist and be ACTIVE, and the comment must belong
// to the post named in the request path.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	PostID   string
	AuthorID string
	Content  string
}

type UpdateCommentInput struct {
	PostID    string
	CommentID string
	ActorID   string
	Content   string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

const maxCommentLen = 10000

// CreateComment adds an ACTIVE comment under an ACTIVE post and bumps
// the post's comment counter.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}
	if _, err := s.requireActivePost(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Content:  in.Content,
		Status:   models.CommentStatusActive,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the ACTIVE comments of an ACTIVE post, newest
// first.
func (s *CommentService) ListComments(ctx context.Context, postID string) ([]*models.Comment, error) {
	if _, err := s.requireActivePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListActiveByPost(ctx, postID)
}

// GetComment resolves one ACTIVE comment under a post. A comment that
// exists but belongs to a different post reads as not found; an
// archived comment is only reachable through the activate toggle.
func (s *CommentService) GetComment(ctx context.Context, postID, commentID string) (*models.Comment, error) {
	if _, err := s.requireActivePost(ctx, postID); err != nil {
		return nil, err
	}
	comment, err := s.requireCommentInPost(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.Status != models.CommentStatusActive {
		return nil, models.NewForbiddenError("Comment is not active")
	}
	return comment, nil
}

// UpdateComment edits the content. Author only; both the post and the
// comment must be ACTIVE.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Content too long (max 10000 characters)")
	}
	comment, err := s.requireMutableComment(ctx, in.PostID, in.CommentID, in.ActorID)
	if err != nil {
		return nil, err
	}
	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment hard-deletes the comment, cascading to its replies and
// decrementing the post's comment counter.
func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID, actorID string) error {
	comment, err := s.requireMutableComment(ctx, postID, commentID, actorID)
	if err != nil {
		return err
	}
	return s.commentRepo.DeleteCascade(ctx, comment)
}

// ArchiveComment retires an ACTIVE comment without removing it.
func (s *CommentService) ArchiveComment(ctx context.Context, postID, commentID, actorID string) (*models.Comment, error) {
	return s.toggleStatus(ctx, postID, commentID, actorID,
		models.CommentStatusActive, models.CommentStatusArchived,
		"Only active comments can be archived")
}

// ActivateComment restores an ARCHIVED comment.
func (s *CommentService) ActivateComment(ctx context.Context, postID, commentID, actorID string) (*models.Comment, error) {
	return s.toggleStatus(ctx, postID, commentID, actorID,
		models.CommentStatusArchived, models.CommentStatusActive,
		"Only archived comments can be activated")
}

func (s *CommentService) toggleStatus(ctx context.Context, postID, commentID, actorID, from, to, wrongStateMsg string) (*models.Comment, error) {
	if _, err := s.requireActivePost(ctx, postID); err != nil {
		return nil, err
	}
	comment, err := s.requireCommentInPost(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, models.NewForbiddenError("Not authorized to modify this comment")
	}
	if comment.Status != from {
		return nil, models.NewForbiddenError(wrongStateMsg)
	}
	comment.Status = to
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) requireActivePost(ctx context.Context, postID string) (*models.Post, error) {
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
	return post, nil
}

func (s *CommentService) requireCommentInPost(ctx context.Context, postID, commentID string) (*models.Comment, error) {
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
	return comment, nil
}

func (s *CommentService) requireMutableComment(ctx context.Context, postID, commentID, actorID string) (*models.Comment, error) {
	if _, err := s.requireActivePost(ctx, postID); err != nil {
		return nil, err
	}
	comment, err := s.requireCommentInPost(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, models.NewForbiddenError("Not authorized to modify this comment")
	}
	if comment.Status != models.CommentStatusActive {
		return nil, models.NewForbiddenError("Comment is not active")
	}
	return comment, nil
}
