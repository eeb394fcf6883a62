package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TagStatusActive   = "ACTIVE"
	TagStatusArchived = "ARCHIVED"
)

// Tag names are globally unique (case-sensitive exact match).
// UsageCount tracks how many posts currently link the tag and must
// never go below zero.
type Tag struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   string    `gorm:"size:36;not null;index" json:"creator_id"`
	Status      string    `gorm:"size:16;not null;default:ACTIVE;index" json:"status"`
	UsageCount  int       `gorm:"not null;default:0" json:"usage_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// PostTag is the Post<->Tag association record. It carries no status;
// archiving a tag leaves its links in place.
type PostTag struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;index:idx_post_tag,unique" json:"post_id"`
	TagID     string    `gorm:"size:36;not null;index:idx_post_tag,unique" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (pt *PostTag) BeforeCreate(*gorm.DB) error {
	if pt.ID == "" {
		pt.ID = uuid.NewString()
	}
	return nil
}
