package progression

// ReliabilityEvent is a named attendance event that adjusts a player's
// reliability score.
type ReliabilityEvent string

const (
	EventNoShow         ReliabilityEvent = "no_show"
	EventHostNoShow     ReliabilityEvent = "host_no_show"
	EventLateCancel     ReliabilityEvent = "late_cancel"
	EventMatchCompleted ReliabilityEvent = "match_completed"
)

// ReliabilityTier is a label derived from the score, display-only.
type ReliabilityTier string

const (
	TierElite      ReliabilityTier = "Elite"
	TierGood       ReliabilityTier = "Good"
	TierFair       ReliabilityTier = "Fair"
	TierUnreliable ReliabilityTier = "Unreliable"
)

// ReliabilityDelta maps an event to its score adjustment.
func ReliabilityDelta(event ReliabilityEvent) int {
	switch event {
	case EventNoShow:
		return -15
	case EventHostNoShow:
		return -25
	case EventLateCancel:
		return -5
	case EventMatchCompleted:
		return 2
	}
	return 0
}

// ApplyReliability adds a delta to the current score, clamped to [0, 100].
func ApplyReliability(current, delta int) int {
	score := current + delta
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Tier returns the reliability tier label for a score.
func Tier(score int) ReliabilityTier {
	switch {
	case score >= 95:
		return TierElite
	case score >= 80:
		return TierGood
	case score >= 60:
		return TierFair
	default:
		return TierUnreliable
	}
}
