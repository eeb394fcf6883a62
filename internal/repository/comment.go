package repository

import (
	"context"
	"errors"

	"murmur/internal/cache"
	"murmur/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListActiveByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	DeleteCascade(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the parent post's cached
// comment counter in the same transaction.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error
	})
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListActiveByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND status = ?", postID, models.CommentStatusActive).
		Order("created_at desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteCascade hard-deletes the comment and all its replies and
// decrements the parent post's comment counter, all-or-nothing. The
// counter is guarded against going below zero.
func (r *commentRepository) DeleteCascade(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).
			Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "id = ?", comment.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count",
				gorm.Expr("CASE WHEN comments_count > 0 THEN comments_count - 1 ELSE 0 END")).Error
	})
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	}
	return err
}
