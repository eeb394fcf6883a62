package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/repository"
)

// PostService owns the post state machine and its visibility rules.
// Every mutation checks ownership before touching state; reads apply
// the draft-only-for-author rule.
type PostService struct {
	postRepo repository.PostRepository
	tagRepo  repository.TagRepository
}

type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
	TagIDs   []string
}

type ListPostsInput struct {
	// ViewerID is empty for anonymous callers.
	ViewerID string
	AuthorID string
	Status   string
}

type UpdatePostInput struct {
	PostID  string
	ActorID string
	Title   string
	Content string
	Status  string
	// TagIDs replaces the post's tag set when TagIDsSet is true. An
	// empty slice clears all tags.
	TagIDs    []string
	TagIDsSet bool
}

func NewPostService(postRepo repository.PostRepository, tagRepo repository.TagRepository) *PostService {
	return &PostService{postRepo: postRepo, tagRepo: tagRepo}
}

const (
	maxPostTitleLen   = 300
	maxPostContentLen = 50000
)

// CreatePost creates a post in DRAFT. All referenced tags must exist
// and be active or the whole call fails without side effects.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxPostTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	if err := s.validateTagIDs(ctx, in.TagIDs); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Title:    in.Title,
		Content:  in.Content,
		Status:   models.PostStatusDraft,
	}
	if err := s.postRepo.Create(ctx, post, in.TagIDs); err != nil {
		return nil, err
	}
	post.TagIDs = append([]string{}, in.TagIDs...)
	return post, nil
}

// GetPost loads a post for viewerID (empty for anonymous). Drafts are
// visible only to their author. Reading refreshes the denormalized
// likes/dislikes/comments counters from their source tables.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}

	if post.Status == models.PostStatusDraft {
		if viewerID == "" {
			return nil, models.NewUnauthorizedError("Authentication required to view this post")
		}
		if viewerID != post.AuthorID {
			return nil, models.NewForbiddenError("Not authorized to view this post")
		}
	}

	if err := s.postRepo.RefreshCounts(ctx, post); err != nil {
		return nil, err
	}
	return s.attachTagIDs(ctx, post)
}

// ListPosts applies the visibility rules: the viewer sees all of their
// own posts but only ACTIVE/ARCHIVED posts of others.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if in.Status != "" && !models.ValidPostStatus(in.Status) {
		return nil, models.NewValidationError("Invalid status filter")
	}
	posts, err := s.postRepo.List(ctx, repository.PostFilter{
		ViewerID: in.ViewerID,
		AuthorID: in.AuthorID,
		Status:   in.Status,
	})
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		if _, err := s.attachTagIDs(ctx, post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// UpdatePost edits title/content/status/tags. Only the author may
// update, and only while the post is DRAFT or MODIFYING.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.requireOwnedPost(ctx, in.PostID, in.ActorID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusDraft && post.Status != models.PostStatusModifying {
		return nil, models.NewValidationError("Post can only be updated in DRAFT or MODIFYING status")
	}

	if in.Title != "" {
		if len(in.Title) > maxPostTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxPostContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.Status != "" {
		if !models.ValidPostStatus(in.Status) {
			return nil, models.NewValidationError("Invalid status")
		}
		post.Status = in.Status
	}

	if in.TagIDsSet {
		if err := s.validateTagIDs(ctx, in.TagIDs); err != nil {
			return nil, err
		}
		if err := s.postRepo.Update(ctx, post, in.TagIDs); err != nil {
			return nil, err
		}
	} else {
		if err := s.postRepo.Save(ctx, post); err != nil {
			return nil, err
		}
	}
	return s.attachTagIDs(ctx, post)
}

// ActivatePost moves a DRAFT or MODIFYING post to ACTIVE.
func (s *PostService) ActivatePost(ctx context.Context, postID, actorID string) (*models.Post, error) {
	return s.transition(ctx, postID, actorID, models.PostStatusActive,
		"Cannot activate an archived post")
}

// ModifyPost moves an ACTIVE post back to MODIFYING for editing.
func (s *PostService) ModifyPost(ctx context.Context, postID, actorID string) (*models.Post, error) {
	return s.transition(ctx, postID, actorID, models.PostStatusModifying,
		"Cannot modify an archived post")
}

// ArchivePost retires the post. ARCHIVED is terminal.
func (s *PostService) ArchivePost(ctx context.Context, postID, actorID string) (*models.Post, error) {
	return s.transition(ctx, postID, actorID, models.PostStatusArchived,
		"Post is already archived")
}

func (s *PostService) transition(ctx context.Context, postID, actorID, target, archivedMsg string) (*models.Post, error) {
	post, err := s.requireOwnedPost(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusArchived {
		return nil, models.NewValidationError(archivedMsg)
	}
	post.Status = target
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	return s.attachTagIDs(ctx, post)
}

// DeletePost hard-deletes the post and everything under it: comments,
// their replies and the post's tag links, in one transaction.
func (s *PostService) DeletePost(ctx context.Context, postID, actorID string) error {
	post, err := s.requireOwnedPost(ctx, postID, actorID)
	if err != nil {
		return err
	}
	return s.postRepo.DeleteCascade(ctx, post.ID)
}

func (s *PostService) requireOwnedPost(ctx context.Context, postID, actorID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}
	if post.AuthorID != actorID {
		return nil, models.NewForbiddenError("Not authorized to modify this post")
	}
	return post, nil
}

func (s *PostService) validateTagIDs(ctx context.Context, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	tags, err := s.tagRepo.GetActiveByIDs(ctx, tagIDs)
	if err != nil {
		return err
	}
	found := make(map[string]bool, len(tags))
	for _, t := range tags {
		found[t.ID] = true
	}
	for _, id := range tagIDs {
		if !found[id] {
			return models.NewNotFoundError("Some tags not found or not active")
		}
	}
	return nil
}

func (s *PostService) attachTagIDs(ctx context.Context, post *models.Post) (*models.Post, error) {
	ids, err := s.postRepo.ActiveTagIDs(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	post.TagIDs = ids
	return post, nil
}
