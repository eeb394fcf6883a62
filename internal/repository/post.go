package repository

import (
	"context"
	"errors"

	"murmur/internal/cache"
	"murmur/internal/models"

	"gorm.io/gorm"
)

// PostFilter narrows a post listing. ViewerID is the authenticated
// principal; AuthorID and Status are optional.
type PostFilter struct {
	ViewerID string
	AuthorID string
	Status   string
}

// PostRepository defines the interface for post data operations.
// Multi-step mutations (tag links, cascades) run inside one
// transaction.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tagIDs []string) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, f PostFilter) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post, tagIDs []string) error
	Save(ctx context.Context, post *models.Post) error
	DeleteCascade(ctx context.Context, id string) error
	RefreshCounts(ctx context.Context, post *models.Post) error
	ActiveTagIDs(ctx context.Context, postID string) ([]string, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and, when tagIDs are given, its tag links,
// incrementing each tag's usage count in the same transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post, tagIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if err := tx.Create(&models.PostTag{PostID: post.ID, TagID: tagID}).Error; err != nil {
				return err
			}
			if err := incrementUsage(tx, tagID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List applies the visibility policy: an author filter exposes all of
// the viewer's own statuses but only ACTIVE/ARCHIVED of other authors;
// without an author filter the viewer sees their own posts plus
// everyone's ACTIVE/ARCHIVED ones.
func (r *postRepository) List(ctx context.Context, f PostFilter) ([]*models.Post, error) {
	publicStatuses := []string{models.PostStatusActive, models.PostStatusArchived}
	q := r.db.WithContext(ctx).Model(&models.Post{})

	switch {
	case f.AuthorID != "" && f.AuthorID == f.ViewerID:
		q = q.Where("author_id = ?", f.AuthorID)
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
	case f.AuthorID != "":
		q = q.Where("author_id = ? AND status IN ?", f.AuthorID, publicStatuses)
		if f.Status == models.PostStatusActive || f.Status == models.PostStatusArchived {
			q = q.Where("status = ?", f.Status)
		}
	default:
		q = q.Where("author_id = ? OR status IN ?", f.ViewerID, publicStatuses)
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
	}

	var posts []*models.Post
	if err := q.Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Update saves the post and, when tagIDs is non-nil, replaces the tag
// set. The link diff is computed by set difference; usage counts are
// adjusted only for tags actually added or removed.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tagIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		if tagIDs == nil {
			return nil
		}

		var current []string
		if err := tx.Model(&models.PostTag{}).
			Where("post_id = ?", post.ID).
			Pluck("tag_id", &current).Error; err != nil {
			return err
		}

		currentSet := make(map[string]bool, len(current))
		for _, id := range current {
			currentSet[id] = true
		}
		newSet := make(map[string]bool, len(tagIDs))
		for _, id := range tagIDs {
			newSet[id] = true
		}

		for _, id := range current {
			if newSet[id] {
				continue
			}
			if err := tx.Where("post_id = ? AND tag_id = ?", post.ID, id).
				Delete(&models.PostTag{}).Error; err != nil {
				return err
			}
			if err := decrementUsage(tx, id); err != nil {
				return err
			}
		}
		for _, id := range tagIDs {
			if currentSet[id] {
				continue
			}
			if err := tx.Create(&models.PostTag{PostID: post.ID, TagID: id}).Error; err != nil {
				return err
			}
			if err := incrementUsage(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(post.ID), cache.PostTagsKey(post.ID))
	}
	return err
}

func (r *postRepository) Save(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	return nil
}

// DeleteCascade removes the post, its comments, the replies under
// those comments, and its tag links, all-or-nothing.
func (r *postRepository) DeleteCascade(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).
				Delete(&models.Reply{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, "id = ?", id).Error
	})
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(id), cache.PostTagsKey(id))
	}
	return err
}

// RefreshCounts recomputes the cached like/dislike/comment counters
// from their source tables and persists them, updating post in place.
func (r *postRepository) RefreshCounts(ctx context.Context, post *models.Post) error {
	db := r.db.WithContext(ctx)

	var likes, dislikes, comments int64
	if err := db.Model(&models.Reaction{}).
		Where("target_id = ? AND target_type = ? AND type = ?",
			post.ID, models.TargetPost, models.ReactionLike).
		Count(&likes).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Reaction{}).
		Where("target_id = ? AND target_type = ? AND type = ?",
			post.ID, models.TargetPost, models.ReactionDislike).
		Count(&dislikes).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Comment{}).
		Where("post_id = ? AND status = ?", post.ID, models.CommentStatusActive).
		Count(&comments).Error; err != nil {
		return err
	}

	post.LikesCount = int(likes)
	post.DislikesCount = int(dislikes)
	post.CommentsCount = int(comments)

	return db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumns(map[string]interface{}{
			"likes_count":    post.LikesCount,
			"dislikes_count": post.DislikesCount,
			"comments_count": post.CommentsCount,
		}).Error
}

// ActiveTagIDs returns the ids of the post's tags that are still ACTIVE.
func (r *postRepository) ActiveTagIDs(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ? AND tags.status = ?", postID, models.TagStatusActive).
		Pluck("tags.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
