// Package request implements the match request aggregate: a lightweight
// "looking for a match" post that collects interest and converts into a real
// match. Expiry is lazy: a request past its expiresAt is treated as expired
// on every read regardless of the stored status field.
package request

import (
	"time"

	"github.com/google/uuid"

	"github.com/kixfc/kix-server/internal/match"
)

// New creates an open request expiring TTL from now. The caller enforces the
// per-creator open request limit against the store before persisting.
func New(creatorID string, p CreateParams, now time.Time) (*Request, error) {
	if _, ok := p.Format.Capacity(); !ok {
		return nil, match.ErrInvalidFormat
	}
	skill := p.SkillLevel
	if skill == "" {
		skill = "Any"
	}
	return &Request{
		ID:          uuid.New().String(),
		CreatorID:   creatorID,
		Format:      p.Format,
		Location:    p.Location,
		DesiredTime: p.DesiredTime,
		SkillLevel:  skill,
		Notes:       p.Notes,
		CreatedAt:   now,
		ExpiresAt:   now.Add(TTL),
		Status:      StatusOpen,
		Interested:  []string{},
	}, nil
}

// Expired reports whether the request's lifetime has passed, regardless of
// the stored status.
func (r *Request) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// EffectiveStatus folds lazy expiry into the stored status.
func (r *Request) EffectiveStatus(now time.Time) Status {
	if r.Status == StatusOpen && r.Expired(now) {
		return StatusExpired
	}
	return r.Status
}

// MinInterested is how many non-creator players must express interest before
// the request can convert; the creator counts as the first player.
func (r *Request) MinInterested() int {
	capacity, _ := r.Format.Capacity()
	return capacity - 1
}

// ToggleInterest flips the user's membership in the interested set. The
// returned bool is true when interest was added, false when withdrawn.
func (r *Request) ToggleInterest(userID string, now time.Time) (bool, error) {
	if r.EffectiveStatus(now) != StatusOpen {
		return false, ErrRequestClosed
	}
	if userID == r.CreatorID {
		return false, ErrCreatorInterest
	}
	for i, id := range r.Interested {
		if id == userID {
			r.Interested = append(r.Interested[:i:i], r.Interested[i+1:]...)
			return false, nil
		}
	}
	r.Interested = append(r.Interested, userID)
	return true, nil
}

// CanConvert validates that the user may launch a match from this request.
func (r *Request) CanConvert(userID string, now time.Time) error {
	if userID != r.CreatorID {
		return ErrNotCreator
	}
	if r.EffectiveStatus(now) != StatusOpen {
		return ErrRequestClosed
	}
	if len(r.Interested) < r.MinInterested() {
		return ErrNotEnoughInterest
	}
	return nil
}

// MarkConverted records the successful conversion. Only called after the new
// match has actually been created; a failed match creation leaves the
// request open.
func (r *Request) MarkConverted(matchID string) {
	r.Status = StatusConverted
	r.ConvertedMatchID = matchID
}

// MatchParams pre-fills match creation from the request.
func (r *Request) MatchParams() match.CreateParams {
	return match.CreateParams{
		Title:       string(r.Format) + " in " + r.Location,
		Location:    r.Location,
		Format:      r.Format,
		KickoffTime: r.DesiredTime,
	}
}
