package database

import (
	"murmur/internal/models"

	"gorm.io/gorm"
)

// Models lists every persisted record kind, in dependency-friendly
// order. Used by AutoMigrate and the test harness.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reply{},
		&models.Tag{},
		&models.PostTag{},
		&models.Reaction{},
	}
}

// Migrate applies the schema for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
