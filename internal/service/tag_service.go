package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/repository"
)

// TagService owns tag lifecycle and the Post<->Tag link bookkeeping.
// Tag names are unique with exact case-sensitive matching; only the
// creator may change or remove a tag.
type TagService struct {
	tagRepo  repository.TagRepository
	postRepo repository.PostRepository
}

type CreateTagInput struct {
	CreatorID   string
	Name        string
	Description string
}

type UpdateTagInput struct {
	TagID       string
	ActorID     string
	Name        string
	Description string
}

func NewTagService(tagRepo repository.TagRepository, postRepo repository.PostRepository) *TagService {
	return &TagService{tagRepo: tagRepo, postRepo: postRepo}
}

const maxTagNameLen = 50

func (s *TagService) CreateTag(ctx context.Context, in CreateTagInput) (*models.Tag, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(in.Name) > maxTagNameLen {
		return nil, models.NewValidationError("Name too long (max 50 characters)")
	}
	existing, err := s.tagRepo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Tag name already exists")
	}

	tag := &models.Tag{
		Name:        in.Name,
		Description: in.Description,
		CreatorID:   in.CreatorID,
		Status:      models.TagStatusActive,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// ListTags returns all ACTIVE tags.
func (s *TagService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	return s.tagRepo.ListActive(ctx)
}

// GetTag resolves an ACTIVE tag. Archived tags read as not found.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil || tag.Status != models.TagStatusActive {
		return nil, models.NewNotFoundError("Tag not found")
	}
	return tag, nil
}

// UpdateTag renames or re-describes a tag. Creator only; renames keep
// the uniqueness guarantee.
func (s *TagService) UpdateTag(ctx context.Context, in UpdateTagInput) (*models.Tag, error) {
	tag, err := s.requireOwnedTag(ctx, in.TagID, in.ActorID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && in.Name != tag.Name {
		if len(in.Name) > maxTagNameLen {
			return nil, models.NewValidationError("Name too long (max 50 characters)")
		}
		existing, err := s.tagRepo.GetByName(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewValidationError("Tag name already exists")
		}
		tag.Name = in.Name
	}
	if in.Description != "" {
		tag.Description = in.Description
	}

	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag hard-deletes the tag after removing all its post links.
// Posts keep their content; the links simply disappear.
func (s *TagService) DeleteTag(ctx context.Context, tagID, actorID string) error {
	tag, err := s.requireOwnedTag(ctx, tagID, actorID)
	if err != nil {
		return err
	}
	return s.tagRepo.DeleteCascade(ctx, tag.ID)
}

// ArchiveTag flips the status. Existing links stay, but the tag stops
// listing as active and stops being assignable.
func (s *TagService) ArchiveTag(ctx context.Context, tagID, actorID string) (*models.Tag, error) {
	tag, err := s.requireOwnedTag(ctx, tagID, actorID)
	if err != nil {
		return nil, err
	}
	if tag.Status == models.TagStatusArchived {
		return nil, models.NewValidationError("Tag is already archived")
	}
	tag.Status = models.TagStatusArchived
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// AddTagToPost links an ACTIVE tag to a post. Post author only; a
// duplicate link is rejected before any counter moves.
func (s *TagService) AddTagToPost(ctx context.Context, postID, tagID, actorID string) error {
	if err := s.requirePostAuthor(ctx, postID, actorID); err != nil {
		return err
	}
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return models.NewNotFoundError("Tag not found")
	}
	if tag.Status != models.TagStatusActive {
		// archived tags read as absent everywhere
		return models.NewNotFoundError("Tag not found")
	}
	linked, err := s.tagRepo.HasLink(ctx, postID, tagID)
	if err != nil {
		return err
	}
	if linked {
		return models.NewValidationError("Tag already added to this post")
	}
	return s.tagRepo.AddLink(ctx, postID, tagID)
}

// RemoveTagFromPost unlinks a tag. Removing a link that does not exist
// is a no-op and leaves usage_count untouched.
func (s *TagService) RemoveTagFromPost(ctx context.Context, postID, tagID, actorID string) error {
	if err := s.requirePostAuthor(ctx, postID, actorID); err != nil {
		return err
	}
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return models.NewNotFoundError("Tag not found")
	}
	return s.tagRepo.RemoveLink(ctx, postID, tagID)
}

// ListPostTags returns the ACTIVE tags linked to a post. Post
// visibility applies: a DRAFT post's tags are readable by its author
// only, so the list cannot be used to probe unpublished content.
func (s *TagService) ListPostTags(ctx context.Context, postID, viewerID string) ([]*models.Tag, error) {
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
	return s.tagRepo.ListByPost(ctx, postID)
}

func (s *TagService) requireOwnedTag(ctx context.Context, tagID, actorID string) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, models.NewNotFoundError("Tag not found")
	}
	if tag.CreatorID != actorID {
		return nil, models.NewForbiddenError("Not authorized to modify this tag")
	}
	return tag, nil
}

func (s *TagService) requirePostAuthor(ctx context.Context, postID, actorID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return models.NewNotFoundError("Post not found")
	}
	if post.AuthorID != actorID {
		return models.NewForbiddenError("Not authorized to modify this post")
	}
	return nil
}
