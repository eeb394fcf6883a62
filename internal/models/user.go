package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity anchor. Content entities reference it by id
// only; nothing in the schema enforces the reference.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Username     string     `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Bio          string     `gorm:"type:text" json:"bio"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
