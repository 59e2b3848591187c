// Package player holds player profiles and their versioned store.
package player

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/kixfc/kix-server/internal/progression"
	"github.com/kixfc/kix-server/internal/store"
)

// NewStore creates a SQLite-backed profile store.
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

type sqlStore struct {
	db *sql.DB
}

const profileColumns = "id, name, position, xp, stats_json, reliability_score, badges_json, matches_completed, matches_hosted, version"

func (s *sqlStore) Get(ctx context.Context, id string) (*Profile, int64, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM player_profiles WHERE id = ?", id)
	return scanProfile(row)
}

func (s *sqlStore) GetOrCreate(ctx context.Context, id string) (*Profile, int64, error) {
	p, version, err := s.Get(ctx, id)
	if err == nil {
		return p, version, nil
	}
	if err != store.ErrNotFound {
		return nil, 0, err
	}

	fresh := NewProfile(id, "")
	if err := s.insert(ctx, fresh); err != nil {
		// Another writer may have created it in the meantime; re-read.
		p, version, rerr := s.Get(ctx, id)
		if rerr == nil {
			return p, version, nil
		}
		return nil, 0, fmt.Errorf("failed to create profile: %w", err)
	}
	return fresh, 1, nil
}

func (s *sqlStore) insert(ctx context.Context, p *Profile) error {
	stats, badges, err := marshalProfile(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO player_profiles (id, name, position, xp, stats_json, reliability_score, badges_json, matches_completed, matches_hosted, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, p.ID, p.Name, p.Position, p.XP, stats, p.ReliabilityScore, badges, p.MatchesCompleted, p.MatchesHosted)
	return err
}

func (s *sqlStore) Update(ctx context.Context, id string, version int64, p *Profile) error {
	stats, badges, err := marshalProfile(p)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE player_profiles
		SET name = ?, position = ?, xp = ?, stats_json = ?, reliability_score = ?, badges_json = ?, matches_completed = ?, matches_hosted = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, p.Name, p.Position, p.XP, stats, p.ReliabilityScore, badges, p.MatchesCompleted, p.MatchesHosted, id, version)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM player_profiles WHERE id = ?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		return store.ErrVersionConflict
	}
	return nil
}

func (s *sqlStore) Leaderboard(ctx context.Context, limit int) ([]*Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+profileColumns+" FROM player_profiles ORDER BY xp DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p, _, err := scanProfile(rows)
		if err != nil {
			log.Error("Failed to scan profile row", "error", err)
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func marshalProfile(p *Profile) (stats, badges []byte, err error) {
	if stats, err = json.Marshal(p.Stats); err != nil {
		return
	}
	if p.Badges == nil {
		p.Badges = map[progression.BadgeID]int64{}
	}
	badges, err = json.Marshal(p.Badges)
	return
}

func scanProfile(scanner interface{ Scan(...any) error }) (*Profile, int64, error) {
	var p Profile
	var version int64
	var stats, badges string

	err := scanner.Scan(
		&p.ID, &p.Name, &p.Position, &p.XP, &stats, &p.ReliabilityScore, &badges,
		&p.MatchesCompleted, &p.MatchesHosted, &version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, store.ErrNotFound
		}
		return nil, 0, err
	}
	if err := json.Unmarshal([]byte(stats), &p.Stats); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal stats_json: %w", err)
	}
	if err := json.Unmarshal([]byte(badges), &p.Badges); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal badges_json: %w", err)
	}
	return &p, version, nil
}
