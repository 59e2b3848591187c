package match

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kixfc/kix-server/internal/store"
)

// NewStore creates a SQLite-backed match store.
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

type sqlStore struct {
	db *sql.DB
}

func (s *sqlStore) Create(ctx context.Context, m *Match) error {
	joined, waitlist, checkedIn, noShows, err := marshalRoster(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (id, host_id, title, location, format, capacity, kickoff_time, created_at, status, joined_players_json, waitlist_json, checked_in_json, no_shows_json, progression_applied, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, m.ID, m.HostID, m.Title, m.Location, m.Format, m.Capacity, m.KickoffTime.Unix(), m.CreatedAt.Unix(), m.Status, joined, waitlist, checkedIn, noShows, m.ProgressionApplied)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (s *sqlStore) Get(ctx context.Context, id string) (*Match, int64, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, host_id, title, location, format, capacity, kickoff_time, created_at, status, joined_players_json, waitlist_json, checked_in_json, no_shows_json, progression_applied, version
		FROM matches WHERE id = ?
	`, id)
	return scanMatch(row)
}

// Update writes the aggregate back only if the stored version still matches
// the version read. A mismatch means another writer got there first; the
// caller re-reads and retries.
func (s *sqlStore) Update(ctx context.Context, id string, version int64, m *Match) error {
	joined, waitlist, checkedIn, noShows, err := marshalRoster(m)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE matches
		SET status = ?, joined_players_json = ?, waitlist_json = ?, checked_in_json = ?, no_shows_json = ?, progression_applied = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, m.Status, joined, waitlist, checkedIn, noShows, m.ProgressionApplied, id, version)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM matches WHERE id = ?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		return store.ErrVersionConflict
	}
	return nil
}

func (s *sqlStore) List(ctx context.Context) ([]*Match, error) {
	return s.list(ctx, `
		SELECT id, host_id, title, location, format, capacity, kickoff_time, created_at, status, joined_players_json, waitlist_json, checked_in_json, no_shows_json, progression_applied, version
		FROM matches ORDER BY kickoff_time DESC
	`)
}

func (s *sqlStore) ListByStatus(ctx context.Context, status Status) ([]*Match, error) {
	return s.list(ctx, `
		SELECT id, host_id, title, location, format, capacity, kickoff_time, created_at, status, joined_players_json, waitlist_json, checked_in_json, no_shows_json, progression_applied, version
		FROM matches WHERE status = ? ORDER BY kickoff_time DESC
	`, status)
}

func (s *sqlStore) list(ctx context.Context, query string, args ...any) ([]*Match, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, _, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func marshalRoster(m *Match) (joined, waitlist, checkedIn, noShows []byte, err error) {
	if joined, err = json.Marshal(orEmpty(m.JoinedPlayers)); err != nil {
		return
	}
	if waitlist, err = json.Marshal(orEmpty(m.Waitlist)); err != nil {
		return
	}
	if checkedIn, err = json.Marshal(orEmpty(m.CheckedIn)); err != nil {
		return
	}
	noShows, err = json.Marshal(orEmpty(m.NoShows))
	return
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, int64, error) {
	var m Match
	var kickoff, created, version int64
	var joined, waitlist, checkedIn, noShows string

	err := scanner.Scan(
		&m.ID, &m.HostID, &m.Title, &m.Location, &m.Format, &m.Capacity,
		&kickoff, &created, &m.Status, &joined, &waitlist, &checkedIn, &noShows,
		&m.ProgressionApplied, &version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, store.ErrNotFound
		}
		return nil, 0, err
	}
	m.KickoffTime = time.Unix(kickoff, 0).UTC()
	m.CreatedAt = time.Unix(created, 0).UTC()

	for _, col := range []struct {
		raw  string
		dest *[]string
	}{
		{joined, &m.JoinedPlayers},
		{waitlist, &m.Waitlist},
		{checkedIn, &m.CheckedIn},
		{noShows, &m.NoShows},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dest); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal roster column: %w", err)
		}
	}
	return &m, version, nil
}
