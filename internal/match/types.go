package match

import "time"

// Format is the side count of a match and fixes its roster capacity.
type Format string

const (
	Format5v5   Format = "5v5"
	Format7v7   Format = "7v7"
	Format8v8   Format = "8v8"
	Format11v11 Format = "11v11"
)

var formatCapacity = map[Format]int{
	Format5v5:   10,
	Format7v7:   14,
	Format8v8:   16,
	Format11v11: 22,
}

// Capacity returns the fixed roster capacity for the format, or false for an
// unknown format.
func (f Format) Capacity() (int, bool) {
	c, ok := formatCapacity[f]
	return c, ok
}

// Status is the lifecycle state of a match.
type Status string

const (
	StatusOpen       Status = "open"
	StatusLocked     Status = "locked"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
)

// Terminal reports whether no further lifecycle transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// HostAction is a direct lifecycle command issued by the host.
type HostAction string

const (
	ActionLock     HostAction = "lock"
	ActionUnlock   HostAction = "unlock"
	ActionStart    HostAction = "start"
	ActionComplete HostAction = "complete"
	ActionCancel   HostAction = "cancel"
)

// Check-in opens 30 minutes before kickoff and closes 90 minutes after.
const (
	CheckinOpensBefore = 30 * time.Minute
	CheckinClosesAfter = 90 * time.Minute
)

// Match is the authoritative roster and state machine for one scheduled
// match. It is a plain value; every mutation goes through the aggregate
// methods and is persisted with compare-and-set.
type Match struct {
	ID            string    `json:"id"`
	HostID        string    `json:"host_id"`
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	Format        Format    `json:"format"`
	Capacity      int       `json:"capacity"`
	KickoffTime   time.Time `json:"kickoff_time"`
	CreatedAt     time.Time `json:"created_at"`
	Status        Status    `json:"status"`
	JoinedPlayers []string  `json:"joined_players"`
	Waitlist      []string  `json:"waitlist"`
	CheckedIn     []string  `json:"checked_in"`
	NoShows       []string  `json:"no_shows"`
	// ProgressionApplied is flipped by the updater before it awards anyone,
	// so a redelivered completion event cannot double-award.
	ProgressionApplied bool `json:"progression_applied"`
}

// CreateParams are the host-supplied fields for a new match.
type CreateParams struct {
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Format      Format    `json:"format"`
	KickoffTime time.Time `json:"kickoff_time"`
}

// JoinOutcome reports where a join attempt landed.
type JoinOutcome string

const (
	OutcomeJoined            JoinOutcome = "joined"
	OutcomeWaitlisted        JoinOutcome = "waitlisted"
	OutcomeAlreadyJoined     JoinOutcome = "already_joined"
	OutcomeAlreadyWaitlisted JoinOutcome = "already_waitlisted"
)

// Changed reports whether the outcome mutated the roster.
func (o JoinOutcome) Changed() bool {
	return o == OutcomeJoined || o == OutcomeWaitlisted
}

// LeaveOutcome reports the effect of a leave attempt.
type LeaveOutcome struct {
	Removed  bool   `json:"removed"`
	Promoted string `json:"promoted,omitempty"` // waitlist head moved into the roster
}
