package repository

import (
	"context"
	"errors"

	"murmur/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines interface for reply operations. Replies are
// never hard-deleted; removal is a status change to ARCHIVED.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id string) (*models.Reply, error)
	ListActiveByComment(ctx context.Context, commentID string) ([]*models.Reply, error)
	Update(ctx context.Context, reply *models.Reply) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *replyRepository) GetByID(ctx context.Context, id string) (*models.Reply, error) {
	var reply models.Reply
	err := r.db.WithContext(ctx).First(&reply, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *replyRepository) ListActiveByComment(ctx context.Context, commentID string) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND status = ?", commentID, models.ReplyStatusActive).
		Order("created_at asc").
		Find(&replies).Error
	return replies, err
}

func (r *replyRepository) Update(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Save(reply).Error
}
