package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment and Reply share the same status set. Comments are created
// ACTIVE; the DRAFT value exists in the lifecycle but is never set by
// the creation path.
const (
	CommentStatusDraft    = "DRAFT"
	CommentStatusActive   = "ACTIVE"
	CommentStatusArchived = "ARCHIVED"
)

// Comment belongs to a post via a weak reference. Deleting a comment is
// a hard delete that cascades to its replies.
type Comment struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	PostID        string    `gorm:"size:36;not null;index" json:"post_id"`
	AuthorID      string    `gorm:"size:36;not null;index" json:"author_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Status        string    `gorm:"size:16;not null;default:ACTIVE;index" json:"status"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int       `gorm:"not null;default:0" json:"dislikes_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
