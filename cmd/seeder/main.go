package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/kixfc/kix-server/internal/match"
	"github.com/kixfc/kix-server/internal/progression"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	playerIDs := seedPlayers(db, 40)
	seedMatches(db, playerIDs, 5000)
}

func seedPlayers(db *sql.DB, count int) []string {
	positions := []progression.Position{
		progression.Striker, progression.AttackingMid, progression.CentralMid,
		progression.LeftWing, progression.RightWing, progression.CenterBack,
		progression.Goalkeeper,
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id := fmt.Sprintf("seed-player-%d", i+1)
		ids = append(ids, id)
		xp := rand.Intn(4000)
		level := progression.LevelForXP(xp)
		cap := progression.StatCap(level)
		stats := progression.Stats{
			Pace:      40 + rand.Intn(cap-40+1),
			Shooting:  40 + rand.Intn(cap-40+1),
			Passing:   40 + rand.Intn(cap-40+1),
			Dribbling: 40 + rand.Intn(cap-40+1),
			Physical:  40 + rand.Intn(cap-40+1),
		}
		statsJSON, _ := json.Marshal(stats)

		_, err := db.Exec(`
			INSERT OR IGNORE INTO player_profiles
				(id, name, position, xp, stats_json, reliability_score, badges_json, matches_completed, matches_hosted, version)
			VALUES (?, ?, ?, ?, ?, ?, '{}', ?, ?, 1)
		`, id, fmt.Sprintf("Seed Player %d", i+1), positions[rand.Intn(len(positions))], xp, statsJSON,
			60+rand.Intn(41), rand.Intn(30), rand.Intn(5))
		if err != nil {
			log.Fatalf("Failed to insert seed player %s: %s", id, err)
		}
	}
	log.Info("Ensured seed players exist.", "count", count)
	return ids
}

func seedMatches(db *sql.DB, playerIDs []string, numMatches int) {
	const batchSize = 100 // Insert 100 matches at a time
	formats := []match.Format{match.Format5v5, match.Format7v7, match.Format8v8, match.Format11v11}

	log.Info("Preparing to insert seed matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*14)

	for i := 0; i < numMatches; i++ {
		format := formats[rand.Intn(len(formats))]
		capacity, _ := format.Capacity()
		kickoff := time.Now().Add(-time.Duration(rand.Intn(180*24)) * time.Hour)

		host := playerIDs[rand.Intn(len(playerIDs))]
		roster := []string{host}
		for _, id := range playerIDs {
			if len(roster) == capacity {
				break
			}
			if id != host && rand.Intn(2) == 0 {
				roster = append(roster, id)
			}
		}
		rosterJSON, _ := json.Marshal(roster)
		checkedInJSON, _ := json.Marshal(roster[:len(roster)/2])

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			host,
			fmt.Sprintf("Seeded %s", format),
			"Seeded Pitch",
			format,
			capacity,
			kickoff.Unix(),
			kickoff.Add(-72*time.Hour).Unix(),
			match.StatusCompleted,
			string(rosterJSON),
			"[]",
			string(checkedInJSON),
			"[]",
			1,
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO matches (id, host_id, title, location, format, capacity,
					kickoff_time, created_at, status, joined_players_json, waitlist_json,
					checked_in_json, no_shows_json, version)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*14)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all seed matches.", "duration", duration)
}
