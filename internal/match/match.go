// Package match implements the match aggregate: the roster, waitlist,
// check-ins and lifecycle state machine for a single scheduled match. The
// aggregate methods are pure roster logic; persistence and concurrency
// control live behind the Store interface.
package match

import (
	"time"

	"github.com/google/uuid"
)

// LateCancelWindow is how close to kickoff a cancellation counts as late and
// costs the host reliability.
const LateCancelWindow = 2 * time.Hour

// New creates a match in the open state with the host pre-joined in slot 0.
// Capacity is derived from the format and fixed for the life of the match.
func New(hostID string, p CreateParams, now time.Time) (*Match, error) {
	capacity, ok := p.Format.Capacity()
	if !ok {
		return nil, ErrInvalidFormat
	}
	if !p.KickoffTime.After(now) {
		return nil, ErrKickoffInPast
	}
	return &Match{
		ID:            uuid.New().String(),
		HostID:        hostID,
		Title:         p.Title,
		Location:      p.Location,
		Format:        p.Format,
		Capacity:      capacity,
		KickoffTime:   p.KickoffTime,
		CreatedAt:     now,
		Status:        StatusOpen,
		JoinedPlayers: []string{hostID},
		Waitlist:      []string{},
		CheckedIn:     []string{},
		NoShows:       []string{},
	}, nil
}

// Join adds a player to the roster, or to the waitlist when the roster is at
// capacity. Joining twice is a no-op reported through the outcome; the host
// is pre-joined, so a host join is the same no-op.
func (m *Match) Join(userID string) (JoinOutcome, error) {
	if contains(m.JoinedPlayers, userID) {
		return OutcomeAlreadyJoined, nil
	}
	if contains(m.Waitlist, userID) {
		return OutcomeAlreadyWaitlisted, nil
	}
	if m.Status == StatusLocked {
		return "", ErrRosterLocked
	}
	if m.Status != StatusOpen {
		return "", ErrMatchClosed
	}
	if len(m.JoinedPlayers) < m.Capacity {
		m.JoinedPlayers = append(m.JoinedPlayers, userID)
		return OutcomeJoined, nil
	}
	m.Waitlist = append(m.Waitlist, userID)
	return OutcomeWaitlisted, nil
}

// Leave removes a player from the roster or waitlist. Freeing a roster slot
// promotes the head of the waitlist, preserving FIFO order. The host cannot
// leave; they cancel or complete instead.
func (m *Match) Leave(userID string) (LeaveOutcome, error) {
	if userID == m.HostID {
		return LeaveOutcome{}, ErrHostCannotLeave
	}
	if m.Status == StatusLocked {
		return LeaveOutcome{}, ErrRosterLocked
	}
	if m.Status != StatusOpen {
		return LeaveOutcome{}, ErrMatchClosed
	}
	if contains(m.Waitlist, userID) {
		m.Waitlist = remove(m.Waitlist, userID)
		return LeaveOutcome{Removed: true}, nil
	}
	if !contains(m.JoinedPlayers, userID) {
		return LeaveOutcome{}, nil
	}
	m.JoinedPlayers = remove(m.JoinedPlayers, userID)
	m.CheckedIn = remove(m.CheckedIn, userID)
	out := LeaveOutcome{Removed: true}
	if len(m.Waitlist) > 0 {
		promoted := m.Waitlist[0]
		m.Waitlist = append([]string{}, m.Waitlist[1:]...)
		m.JoinedPlayers = append(m.JoinedPlayers, promoted)
		out.Promoted = promoted
	}
	return out, nil
}

// CheckIn records attendance for a rostered player. Valid only inside the
// check-in window and before the match is completed or canceled. Idempotent:
// the returned bool is false when the player had already checked in.
func (m *Match) CheckIn(userID string, now time.Time) (bool, error) {
	if m.Status.Terminal() {
		return false, ErrMatchClosed
	}
	if !contains(m.JoinedPlayers, userID) {
		return false, ErrNotJoined
	}
	if !m.CheckinWindowOpen(now) {
		return false, ErrCheckinClosed
	}
	if contains(m.CheckedIn, userID) {
		return false, nil
	}
	m.CheckedIn = append(m.CheckedIn, userID)
	return true, nil
}

// ApplyHostAction runs a lifecycle transition. Transitions are host-only
// commands, never auto-triggered.
func (m *Match) ApplyHostAction(actorID string, action HostAction) error {
	if actorID != m.HostID {
		return ErrNotHost
	}
	switch action {
	case ActionLock:
		if m.Status != StatusOpen {
			return ErrInvalidTransition
		}
		m.Status = StatusLocked
	case ActionUnlock:
		if m.Status != StatusLocked {
			return ErrInvalidTransition
		}
		m.Status = StatusOpen
	case ActionStart:
		if m.Status != StatusLocked {
			return ErrInvalidTransition
		}
		m.Status = StatusInProgress
	case ActionComplete:
		switch m.Status {
		case StatusOpen, StatusLocked, StatusInProgress:
			m.Status = StatusCompleted
		default:
			return ErrInvalidTransition
		}
	case ActionCancel:
		switch m.Status {
		case StatusOpen, StatusLocked:
			m.Status = StatusCanceled
		default:
			return ErrInvalidTransition
		}
	default:
		return ErrUnknownAction
	}
	return nil
}

// MarkNoShow flags a non-host participant as absent. Only allowed on a
// completed match, at most once per player. The reliability penalty is
// applied by the caller as part of the same operation.
func (m *Match) MarkNoShow(actorID, userID string) error {
	if actorID != m.HostID {
		return ErrNotHost
	}
	if m.Status != StatusCompleted {
		return ErrNotCompleted
	}
	if userID == m.HostID {
		return ErrHostNoShow
	}
	if !contains(m.JoinedPlayers, userID) {
		return ErrNotJoined
	}
	if contains(m.NoShows, userID) {
		return ErrAlreadyMarked
	}
	m.NoShows = append(m.NoShows, userID)
	return nil
}

// SpotsLeft is the number of open roster slots.
func (m *Match) SpotsLeft() int {
	left := m.Capacity - len(m.JoinedPlayers)
	if left < 0 {
		return 0
	}
	return left
}

// IsFull reports whether the roster is at capacity.
func (m *Match) IsFull() bool {
	return len(m.JoinedPlayers) >= m.Capacity
}

// CheckinWindowOpen reports whether now falls inside
// [kickoff-30m, kickoff+90m).
func (m *Match) CheckinWindowOpen(now time.Time) bool {
	opens := m.KickoffTime.Add(-CheckinOpensBefore)
	closes := m.KickoffTime.Add(CheckinClosesAfter)
	return !now.Before(opens) && now.Before(closes)
}

// IsLateCancel reports whether canceling at the given time counts as late.
func (m *Match) IsLateCancel(now time.Time) bool {
	return now.After(m.KickoffTime.Add(-LateCancelWindow))
}

// HasJoined reports roster membership.
func (m *Match) HasJoined(userID string) bool { return contains(m.JoinedPlayers, userID) }

// IsWaitlisted reports waitlist membership.
func (m *Match) IsWaitlisted(userID string) bool { return contains(m.Waitlist, userID) }

// HasCheckedIn reports whether the player checked in.
func (m *Match) HasCheckedIn(userID string) bool { return contains(m.CheckedIn, userID) }

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func remove(list []string, id string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
