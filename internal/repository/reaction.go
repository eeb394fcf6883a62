package repository

import (
	"context"
	"errors"
	"fmt"

	"murmur/internal/cache"
	"murmur/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository defines interface for reaction operations. The
// three mutations mirror the toggle semantics: Create adds a new
// reaction, Remove withdraws an existing one, and Switch flips its
// type. Each adjusts the target's denormalized counters in the same
// transaction.
type ReactionRepository interface {
	Get(ctx context.Context, userID, targetID, targetType string) (*models.Reaction, error)
	Create(ctx context.Context, reaction *models.Reaction) error
	Remove(ctx context.Context, reaction *models.Reaction) error
	Switch(ctx context.Context, reaction *models.Reaction, newType string) error
	CountByTarget(ctx context.Context, targetID, targetType, reactionType string) (int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Get(ctx context.Context, userID, targetID, targetType string) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, targetType).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reaction).Error; err != nil {
			return err
		}
		return adjustCounter(tx, reaction.TargetID, reaction.TargetType, reaction.Type, +1)
	})
	if err == nil {
		invalidateTarget(ctx, reaction.TargetID, reaction.TargetType)
	}
	return err
}

func (r *reactionRepository) Remove(ctx context.Context, reaction *models.Reaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Reaction{}, "id = ?", reaction.ID).Error; err != nil {
			return err
		}
		return adjustCounter(tx, reaction.TargetID, reaction.TargetType, reaction.Type, -1)
	})
	if err == nil {
		invalidateTarget(ctx, reaction.TargetID, reaction.TargetType)
	}
	return err
}

// Switch flips the reaction to newType: the old counter goes down,
// the new one goes up.
func (r *reactionRepository) Switch(ctx context.Context, reaction *models.Reaction, newType string) error {
	oldType := reaction.Type
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Reaction{}).
			Where("id = ?", reaction.ID).
			UpdateColumn("type", newType).Error; err != nil {
			return err
		}
		if err := adjustCounter(tx, reaction.TargetID, reaction.TargetType, oldType, -1); err != nil {
			return err
		}
		return adjustCounter(tx, reaction.TargetID, reaction.TargetType, newType, +1)
	})
	if err == nil {
		reaction.Type = newType
		invalidateTarget(ctx, reaction.TargetID, reaction.TargetType)
	}
	return err
}

func (r *reactionRepository) CountByTarget(ctx context.Context, targetID, targetType, reactionType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("target_id = ? AND target_type = ? AND type = ?", targetID, targetType, reactionType).
		Count(&count).Error
	return count, err
}

func counterTable(targetType string) (string, error) {
	switch targetType {
	case models.TargetPost:
		return "posts", nil
	case models.TargetComment:
		return "comments", nil
	case models.TargetReply:
		return "replies", nil
	}
	return "", fmt.Errorf("unknown target type %q", targetType)
}

func counterColumn(reactionType string) (string, error) {
	switch reactionType {
	case models.ReactionLike:
		return "likes_count", nil
	case models.ReactionDislike:
		return "dislikes_count", nil
	}
	return "", fmt.Errorf("unknown reaction type %q", reactionType)
}

func adjustCounter(tx *gorm.DB, targetID, targetType, reactionType string, delta int) error {
	table, err := counterTable(targetType)
	if err != nil {
		return err
	}
	column, err := counterColumn(reactionType)
	if err != nil {
		return err
	}
	expr := gorm.Expr(column+" + ?", delta)
	if delta < 0 {
		expr = gorm.Expr(
			"CASE WHEN "+column+" > 0 THEN "+column+" - 1 ELSE 0 END")
	}
	return tx.Table(table).
		Where("id = ?", targetID).
		UpdateColumn(column, expr).Error
}

func invalidateTarget(ctx context.Context, targetID, targetType string) {
	if targetType == models.TargetPost {
		cache.Invalidate(ctx, cache.PostKey(targetID))
	}
}
