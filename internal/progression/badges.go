package progression

// BadgeID identifies an earnable badge.
type BadgeID string

const (
	BadgeFirstMatch     BadgeID = "first_match"
	BadgeMatchLegend10  BadgeID = "match_legend_10"
	BadgeProHost        BadgeID = "pro_host"
	BadgeReliablePlayer BadgeID = "reliable_player"
)

// Badge describes a badge for display purposes.
type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Tier        string  `json:"tier"`
}

// Catalog lists every earnable badge.
var Catalog = map[BadgeID]Badge{
	BadgeFirstMatch: {
		ID:          BadgeFirstMatch,
		Name:        "First Blood",
		Description: "Completed your first match on Kix.",
		Icon:        "\u26bd",
		Tier:        "bronze",
	},
	BadgeMatchLegend10: {
		ID:          BadgeMatchLegend10,
		Name:        "Pitch Legend",
		Description: "Completed 10 matches.",
		Icon:        "\U0001f3c6",
		Tier:        "silver",
	},
	BadgeProHost: {
		ID:          BadgeProHost,
		Name:        "Stadium Manager",
		Description: "Successfully hosted 3 matches.",
		Icon:        "\U0001f3df\ufe0f",
		Tier:        "gold",
	},
	BadgeReliablePlayer: {
		ID:          BadgeReliablePlayer,
		Name:        "Always There",
		Description: "Maintained 95%+ reliability over 5 matches.",
		Icon:        "\u2b50",
		Tier:        "silver",
	},
}

// BadgeInput carries the cumulative counters badge rules are evaluated against.
type BadgeInput struct {
	MatchesCompleted int
	MatchesHosted    int
	ReliabilityScore int
}

// EvaluateBadges returns the badge ids newly earned given the counters and the
// set of already earned badges. Awarding is monotonic: a badge already earned
// is never returned again and never revoked, even if the qualifying counter
// later regresses.
func EvaluateBadges(earned map[BadgeID]bool, in BadgeInput) []BadgeID {
	var newly []BadgeID
	award := func(id BadgeID, qualifies bool) {
		if qualifies && !earned[id] {
			newly = append(newly, id)
		}
	}
	award(BadgeFirstMatch, in.MatchesCompleted >= 1)
	award(BadgeMatchLegend10, in.MatchesCompleted >= 10)
	award(BadgeProHost, in.MatchesHosted >= 3)
	award(BadgeReliablePlayer, in.ReliabilityScore >= 95 && in.MatchesCompleted >= 5)
	return newly
}
