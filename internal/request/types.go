package request

import (
	"time"

	"github.com/kixfc/kix-server/internal/match"
)

// Status is the lifecycle state of a match request.
type Status string

const (
	StatusOpen      Status = "open"
	StatusConverted Status = "converted"
	StatusExpired   Status = "expired"
)

// Requests expire 24 hours after creation. Expiry is evaluated lazily at
// read time; nothing depends on a background sweep.
const TTL = 24 * time.Hour

// MaxOpenPerCreator bounds how many open, non-expired requests one user may
// hold at a time.
const MaxOpenPerCreator = 2

// Request is a player-initiated "looking for a match" post. It collects
// interest and can be converted by its creator into a real match once enough
// players have signed up.
type Request struct {
	ID               string       `json:"id"`
	CreatorID        string       `json:"creator_id"`
	Format           match.Format `json:"format"`
	Location         string       `json:"location"`
	DesiredTime      time.Time    `json:"desired_time"`
	SkillLevel       string       `json:"skill_level"`
	Notes            string       `json:"notes"`
	CreatedAt        time.Time    `json:"created_at"`
	ExpiresAt        time.Time    `json:"expires_at"`
	Status           Status       `json:"status"`
	ConvertedMatchID string       `json:"converted_match_id,omitempty"`
	Interested       []string     `json:"interested"` // excludes the creator
}

// CreateParams are the creator-supplied fields for a new request.
type CreateParams struct {
	Format      match.Format `json:"format"`
	Location    string       `json:"location"`
	DesiredTime time.Time    `json:"desired_time"`
	SkillLevel  string       `json:"skill_level"`
	Notes       string       `json:"notes"`
}
