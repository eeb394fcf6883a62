// Command migrate applies the database schema.
package main

import (
	"log"

	"murmur/internal/config"
	"murmur/internal/database"
	"murmur/internal/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect runs AutoMigrate as part of startup; this command exists
	// so deploys can migrate without booting the API.
	if _, err := database.Connect(cfg, middleware.Logger); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied")
}
