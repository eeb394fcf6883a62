// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post status lifecycle: DRAFT -> ACTIVE -> {MODIFYING <-> ACTIVE, ARCHIVED}.
// ARCHIVED is terminal.
const (
	PostStatusDraft     = "DRAFT"
	PostStatusActive    = "ACTIVE"
	PostStatusModifying = "MODIFYING"
	PostStatusArchived  = "ARCHIVED"
)

// ValidPostStatus reports whether s is a known post status.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusActive, PostStatusModifying, PostStatusArchived:
		return true
	}
	return false
}

// Post is the central content entity. AuthorID is a weak reference to a
// User; there is no foreign key, the service layer validates it.
// The count columns are caches derived from the reactions and comments
// tables, not sources of truth.
type Post struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	AuthorID      string    `gorm:"size:36;not null;index" json:"author_id"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Status        string    `gorm:"size:16;not null;default:DRAFT;index" json:"status"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int       `gorm:"not null;default:0" json:"dislikes_count"`
	ViewsCount    int       `gorm:"not null;default:0" json:"views_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// TagIDs lists the post's active tags; populated at read time,
	// backed by the post_tags table.
	TagIDs []string `gorm:"-" json:"tag_ids"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
