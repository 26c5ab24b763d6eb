package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// One-off: creates the players and matches tables. Safe to re-run.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set in environment")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	fmt.Println("Connected to database")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS players (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			rating        INTEGER NOT NULL DEFAULT 1500,
			wins          INTEGER NOT NULL DEFAULT 0,
			losses        INTEGER NOT NULL DEFAULT 0,
			win_streak    INTEGER NOT NULL DEFAULT 0,
			best_streak   INTEGER NOT NULL DEFAULT 0,
			last_match_at TIMESTAMPTZ,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			id               BIGSERIAL PRIMARY KEY,
			player1_id       TEXT NOT NULL REFERENCES players(id),
			player1_name     TEXT NOT NULL,
			player1_rating   INTEGER NOT NULL,
			player2_id       TEXT NOT NULL REFERENCES players(id),
			player2_name     TEXT NOT NULL,
			player2_rating   INTEGER NOT NULL,
			status           TEXT NOT NULL DEFAULT 'pending',
			winner_id        TEXT,
			duration_seconds INTEGER,
			started_at       TIMESTAMPTZ,
			completed_at     TIMESTAMPTZ,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_rating ON players (rating DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_player1 ON matches (player1_id, completed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_player2 ON matches (player2_id, completed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_status ON matches (status)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal("Failed to apply schema:", err)
		}
	}

	fmt.Println("Schema applied")

	var playerCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM players").Scan(&playerCount); err != nil {
		log.Fatal("Failed to verify schema:", err)
	}

	fmt.Printf("players table ready (%d rows)\n", playerCount)
}
