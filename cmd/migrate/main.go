package main

import (
	"log"
	"os"

	"ship-consultant-be/internal/model"
	"ship-consultant-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate for 5 Tables...")

	models := []interface{}{
		&model.Ship{},
		&model.ShipEmbedding{},
		&model.Conversation{},
		&model.ConversationMessage{},
		&model.FleetSelection{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Indexes & Views
	log.Println("Step 3: Creating Indexes and Views...")

	postMigrationSQL := []string{
		// ANN index for the catalog embeddings
		`CREATE INDEX IF NOT EXISTS idx_ship_embeddings_ann
		 ON ship_embeddings USING hnsw (embedding_value vector_cosine_ops);`,

		// View: joined catalog rows ready for semantic search
		`CREATE OR REPLACE VIEW semantic_searchable_ships AS
		 SELECT s.id AS ship_id, s.name, s.manufacturer, s.focus, s.description, se.embedding_value AS embedding
		 FROM ships s JOIN ship_embeddings se ON s.id = se.ship_id
		 WHERE s.deleted_at IS NULL;`,

		// View: completed conversations with fleet sizes for analytics
		`CREATE OR REPLACE VIEW conversation_fleet_summary AS
		 SELECT c.id AS conversation_id, c.user_name, c.status, c.phase,
		        count(fs.id) FILTER (WHERE fs.removed = false) AS fleet_size,
		        c.created_at, c.last_message_at
		 FROM conversations c
		 LEFT JOIN fleet_selections fs ON fs.conversation_id = c.id
		 GROUP BY c.id;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
