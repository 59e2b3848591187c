// Package progression implements the RPG-style player progression model:
// XP to level, stat caps, overall rating, reliability score and badges.
// Everything in here is a pure function over its inputs; no state, no IO.
package progression

import "math"

// LevelForXP maps accumulated XP to a level. Level 0 means no level earned
// yet (below 100 XP).
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 0
	}
	return int(math.Floor(math.Sqrt(float64(xp) / 100)))
}

// XPForNextLevel is the total XP required to reach the level after the given one.
func XPForNextLevel(level int) int {
	return (level + 1) * (level + 1) * 100
}

// ProgressToNextLevel is the fraction, in [0, 1], of XP earned within the
// current level's band.
func ProgressToNextLevel(xp int) float64 {
	if xp < 0 {
		xp = 0
	}
	level := LevelForXP(xp)
	current := level * level * 100
	next := XPForNextLevel(level)
	return float64(xp-current) / float64(next-current)
}

// StatCap is the maximum value any single attribute may hold at the given
// level. Starts at 60, grows by 2 per level, hard-capped at 99.
func StatCap(level int) int {
	cap := 60 + level*2
	if cap > 99 {
		return 99
	}
	return cap
}

// ClampStatsToCap applies StatCap elementwise. Values above the cap are
// silently clamped, never rejected.
func ClampStatsToCap(stats Stats, level int) Stats {
	cap := StatCap(level)
	clamp := func(v int) int {
		if v > cap {
			return cap
		}
		return v
	}
	return Stats{
		Pace:      clamp(stats.Pace),
		Shooting:  clamp(stats.Shooting),
		Passing:   clamp(stats.Passing),
		Dribbling: clamp(stats.Dribbling),
		Physical:  clamp(stats.Physical),
	}
}

// OverallRating computes the weighted OVR for a player in the given position,
// rounded and capped at 99. Unset attributes count as 50.
func OverallRating(stats Stats, position Position) int {
	w, ok := positionWeights[position]
	if !ok {
		w = defaultWeights
	}
	raw := float64(orDefault(stats.Pace))*w.Pace +
		float64(orDefault(stats.Shooting))*w.Shooting +
		float64(orDefault(stats.Passing))*w.Passing +
		float64(orDefault(stats.Dribbling))*w.Dribbling +
		float64(orDefault(stats.Physical))*w.Physical
	ovr := int(math.Round(raw))
	if ovr > 99 {
		return 99
	}
	return ovr
}

func orDefault(v int) int {
	if v <= 0 {
		return 50
	}
	return v
}
