package main

import (
	"log"

	"rmf-policy-be/internal/config"
	"rmf-policy-be/internal/model"
	"rmf-policy-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running migrations for corpus_chunks and transcript_entries...")
	if err := database.Migrate(db, &model.CorpusChunk{}, &model.TranscriptEntry{}); err != nil {
		log.Fatalf("Error: migration failed: %v", err)
	}
	log.Println("✅ Migration completed")
}
