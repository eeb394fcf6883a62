package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReactionLike    = "LIKE"
	ReactionDislike = "DISLIKE"
)

// Reaction target kinds.
const (
	TargetPost    = "post"
	TargetComment = "comment"
	TargetReply   = "reply"
)

// ValidReactionType reports whether t is LIKE or DISLIKE.
func ValidReactionType(t string) bool {
	return t == ReactionLike || t == ReactionDislike
}

// ValidTargetType reports whether t names a reactable entity kind.
func ValidTargetType(t string) bool {
	switch t {
	case TargetPost, TargetComment, TargetReply:
		return true
	}
	return false
}

// Reaction records one user's like or dislike on a target. At most one
// row exists per (user, target_id, target_type); the unique index backs
// the toggle semantics under concurrent requests.
type Reaction struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;not null;index:idx_user_target,unique" json:"user_id"`
	TargetID   string    `gorm:"size:36;not null;index:idx_user_target,unique" json:"target_id"`
	TargetType string    `gorm:"size:16;not null;index:idx_user_target,unique" json:"target_type"`
	Type       string    `gorm:"size:16;not null" json:"type"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (r *Reaction) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReactionOutcome distinguishes the three caller-visible results of a
// react call.
type ReactionOutcome int

const (
	// ReactionCreated means a new reaction row was inserted.
	ReactionCreated ReactionOutcome = iota
	// ReactionSwitched means an existing reaction changed type in place.
	ReactionSwitched
	// ReactionRemoved means a same-type repeat toggled the reaction off.
	ReactionRemoved
)

// String returns the outcome name for logs and metrics labels.
func (o ReactionOutcome) String() string {
	switch o {
	case ReactionCreated:
		return "created"
	case ReactionSwitched:
		return "switched"
	case ReactionRemoved:
		return "removed"
	}
	return "unknown"
}
