package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReplyStatusDraft    = "DRAFT"
	ReplyStatusActive   = "ACTIVE"
	ReplyStatusArchived = "ARCHIVED"
)

// Reply belongs to a comment via a weak reference. Unlike posts and
// comments, a reply is never hard deleted: its delete operation sets
// the status to ARCHIVED and the row stays.
type Reply struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	CommentID     string    `gorm:"size:36;not null;index" json:"comment_id"`
	AuthorID      string    `gorm:"size:36;not null;index" json:"author_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Status        string    `gorm:"size:16;not null;default:ACTIVE;index" json:"status"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int       `gorm:"not null;default:0" json:"dislikes_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (r *Reply) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
