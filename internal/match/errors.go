package match

import "github.com/kixfc/kix-server/internal/reject"

// Validation rejections surfaced by the match aggregate. These are expected
// outcomes with stable reason codes, not failures.
var (
	ErrInvalidFormat     = reject.New("invalid_format", "unknown match format")
	ErrKickoffInPast     = reject.New("kickoff_in_past", "kickoff time must be in the future")
	ErrRosterLocked      = reject.New("match_locked", "the roster is locked")
	ErrMatchClosed       = reject.New("match_closed", "the match is no longer open for roster changes")
	ErrHostCannotLeave   = reject.New("host_cannot_leave", "the host must cancel or complete the match instead of leaving")
	ErrNotJoined         = reject.New("not_joined", "player is not on the roster")
	ErrCheckinClosed     = reject.New("checkin_closed", "the check-in window is not open")
	ErrNotHost           = reject.New("not_host", "only the host can perform this action")
	ErrInvalidTransition = reject.New("invalid_transition", "the match cannot transition to that state")
	ErrUnknownAction     = reject.New("unknown_action", "unknown host action")
	ErrNotCompleted      = reject.New("match_not_completed", "no-shows can only be marked on a completed match")
	ErrHostNoShow        = reject.New("host_not_markable", "the host cannot be marked as a no-show")
	ErrAlreadyMarked     = reject.New("already_marked", "player is already marked as a no-show")
)
