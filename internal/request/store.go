package request

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kixfc/kix-server/internal/store"
)

// NewStore creates a SQLite-backed request store.
func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

type sqlStore struct {
	db *sql.DB
}

func (s *sqlStore) Create(ctx context.Context, r *Request) error {
	interested, err := json.Marshal(r.Interested)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO match_requests (id, creator_id, format, location, desired_time, skill_level, notes, created_at, expires_at, status, converted_match_id, interested_json, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, r.ID, r.CreatorID, r.Format, r.Location, r.DesiredTime.Unix(), r.SkillLevel, r.Notes, r.CreatedAt.Unix(), r.ExpiresAt.Unix(), r.Status, nullable(r.ConvertedMatchID), interested)
	if err != nil {
		return fmt.Errorf("failed to insert match request: %w", err)
	}
	return nil
}

func (s *sqlStore) Get(ctx context.Context, id string) (*Request, int64, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, creator_id, format, location, desired_time, skill_level, notes, created_at, expires_at, status, converted_match_id, interested_json, version
		FROM match_requests WHERE id = ?
	`, id)
	return scanRequest(row)
}

func (s *sqlStore) Update(ctx context.Context, id string, version int64, r *Request) error {
	interested, err := json.Marshal(r.Interested)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE match_requests
		SET status = ?, converted_match_id = ?, interested_json = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, r.Status, nullable(r.ConvertedMatchID), interested, id, version)
	if err != nil {
		return fmt.Errorf("failed to update match request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM match_requests WHERE id = ?)", id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return store.ErrNotFound
		}
		return store.ErrVersionConflict
	}
	return nil
}

func (s *sqlStore) List(ctx context.Context) ([]*Request, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, creator_id, format, location, desired_time, skill_level, notes, created_at, expires_at, status, converted_match_id, interested_json, version
		FROM match_requests ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*Request
	for rows.Next() {
		r, _, err := scanRequest(rows)
		if err != nil {
			log.Error("Failed to scan match request row", "error", err)
			continue
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *sqlStore) CountOpenForCreator(ctx context.Context, creatorID string, now time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM match_requests
		WHERE creator_id = ? AND status = ? AND expires_at > ?
	`, creatorID, StatusOpen, now.Unix()).Scan(&count)
	return count, err
}

func (s *sqlStore) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE match_requests SET status = ?, version = version + 1
		WHERE status = ? AND expires_at <= ?
	`, StatusExpired, StatusOpen, now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanRequest(scanner interface{ Scan(...any) error }) (*Request, int64, error) {
	var r Request
	var desired, created, expires, version int64
	var converted sql.NullString
	var interested string

	err := scanner.Scan(
		&r.ID, &r.CreatorID, &r.Format, &r.Location, &desired, &r.SkillLevel, &r.Notes,
		&created, &expires, &r.Status, &converted, &interested, &version,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, store.ErrNotFound
		}
		return nil, 0, err
	}
	r.DesiredTime = time.Unix(desired, 0).UTC()
	r.CreatedAt = time.Unix(created, 0).UTC()
	r.ExpiresAt = time.Unix(expires, 0).UTC()
	r.ConvertedMatchID = converted.String
	if err := json.Unmarshal([]byte(interested), &r.Interested); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal interested_json: %w", err)
	}
	return &r, version, nil
}
