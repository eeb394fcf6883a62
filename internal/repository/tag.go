package repository

import (
	"context"
	"errors"

	"murmur/internal/cache"
	"murmur/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines interface for tag and post-tag link operations.
// Lookup methods return (nil, nil) when no record matches.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	GetActiveByIDs(ctx context.Context, ids []string) ([]*models.Tag, error)
	ListActive(ctx context.Context) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	DeleteCascade(ctx context.Context, id string) error
	HasLink(ctx context.Context, postID, tagID string) (bool, error)
	AddLink(ctx context.Context, postID, tagID string) error
	RemoveLink(ctx context.Context, postID, tagID string) error
	ListByPost(ctx context.Context, postID string) ([]*models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.TagListKey)
	return nil
}

func (r *tagRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).First(&tag, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetActiveByIDs(ctx context.Context, ids []string) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, models.TagStatusActive).
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) ListActive(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := cache.Aside(ctx, cache.TagListKey, &tags, cache.TagListTTL, func() error {
		return r.db.WithContext(ctx).
			Where("status = ?", models.TagStatusActive).
			Order("name asc").
			Find(&tags).Error
	})
	return tags, err
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Save(tag).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.TagListKey)
	return nil
}

// DeleteCascade removes all post links for the tag and then the tag
// row itself. Post tag counters are not adjusted; the links simply
// cease to exist.
func (r *tagRepository) DeleteCascade(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.PostTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, "id = ?", id).Error
	})
	if err == nil {
		cache.Invalidate(ctx, cache.TagListKey)
	}
	return err
}

func (r *tagRepository) HasLink(ctx context.Context, postID, tagID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostTag{}).
		Where("post_id = ? AND tag_id = ?", postID, tagID).
		Count(&count).Error
	return count > 0, err
}

func (r *tagRepository) AddLink(ctx context.Context, postID, tagID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.PostTag{PostID: postID, TagID: tagID}).Error; err != nil {
			return err
		}
		return incrementUsage(tx, tagID)
	})
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(postID), cache.PostTagsKey(postID))
	}
	return err
}

// RemoveLink deletes the link if present. The tag's usage counter is
// only decremented when a row was actually removed.
func (r *tagRepository) RemoveLink(ctx context.Context, postID, tagID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND tag_id = ?", postID, tagID).
			Delete(&models.PostTag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return decrementUsage(tx, tagID)
	})
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(postID), cache.PostTagsKey(postID))
	}
	return err
}

// ListByPost returns the ACTIVE tags linked to a post. A tag archived
// after the list was cached keeps showing up until the TTL expires.
func (r *tagRepository) ListByPost(ctx context.Context, postID string) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := cache.Aside(ctx, cache.PostTagsKey(postID), &tags, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).
			Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
			Where("post_tags.post_id = ? AND tags.status = ?", postID, models.TagStatusActive).
			Order("tags.name asc").
			Find(&tags).Error
	})
	return tags, err
}

func incrementUsage(tx *gorm.DB, tagID string) error {
	return tx.Model(&models.Tag{}).
		Where("id = ?", tagID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
}

func decrementUsage(tx *gorm.DB, tagID string) error {
	return tx.Model(&models.Tag{}).
		Where("id = ?", tagID).
		UpdateColumn("usage_count",
			gorm.Expr("CASE WHEN usage_count > 0 THEN usage_count - 1 ELSE 0 END")).Error
}
