package main

import (
	"log"

	"hybrid-chatbot-be/internal/config"
	"hybrid-chatbot-be/internal/model"
	"hybrid-chatbot-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}

	// pgvector must exist before the embeddings table migrates
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Failed to create vector extension: %v", err)
	}

	err = db.AutoMigrate(
		&model.Document{},
		&model.DocumentEmbedding{},
		&model.IntakeSubmission{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed")
}
