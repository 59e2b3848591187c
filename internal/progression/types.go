package progression

// XP awards applied when a match completes.
const (
	XPPerMatch     = 50
	XPHostBonus    = 25
	XPCheckInBonus = 10
)

// Stats holds the five rated attributes of a player. Values live in [10, 99]
// and are individually capped by the level-derived stat cap.
type Stats struct {
	Pace      int `json:"pace"`
	Shooting  int `json:"shooting"`
	Passing   int `json:"passing"`
	Dribbling int `json:"dribbling"`
	Physical  int `json:"physical"`
}

// Position is one of the eleven canonical pitch positions used for OVR weighting.
type Position string

const (
	Striker       Position = "ST"
	CenterForward Position = "CF"
	AttackingMid  Position = "CAM"
	CentralMid    Position = "CM"
	DefensiveMid  Position = "CDM"
	LeftWing      Position = "LW"
	RightWing     Position = "RW"
	LeftBack      Position = "LB"
	RightBack     Position = "RB"
	CenterBack    Position = "CB"
	Goalkeeper    Position = "GK"
)

// Weights describes how much each attribute contributes to a position's OVR.
// Each table sums to 1.0.
type Weights struct {
	Pace      float64
	Shooting  float64
	Passing   float64
	Dribbling float64
	Physical  float64
}

var positionWeights = map[Position]Weights{
	Striker:       {Pace: 0.30, Shooting: 0.35, Passing: 0.10, Dribbling: 0.15, Physical: 0.10},
	CenterForward: {Pace: 0.25, Shooting: 0.30, Passing: 0.15, Dribbling: 0.20, Physical: 0.10},
	AttackingMid:  {Pace: 0.15, Shooting: 0.20, Passing: 0.30, Dribbling: 0.25, Physical: 0.10},
	CentralMid:    {Pace: 0.15, Shooting: 0.15, Passing: 0.35, Dribbling: 0.20, Physical: 0.15},
	DefensiveMid:  {Pace: 0.10, Shooting: 0.10, Passing: 0.30, Dribbling: 0.15, Physical: 0.35},
	LeftWing:      {Pace: 0.30, Shooting: 0.20, Passing: 0.15, Dribbling: 0.30, Physical: 0.05},
	RightWing:     {Pace: 0.30, Shooting: 0.20, Passing: 0.15, Dribbling: 0.30, Physical: 0.05},
	LeftBack:      {Pace: 0.25, Shooting: 0.05, Passing: 0.20, Dribbling: 0.15, Physical: 0.35},
	RightBack:     {Pace: 0.25, Shooting: 0.05, Passing: 0.20, Dribbling: 0.15, Physical: 0.35},
	CenterBack:    {Pace: 0.15, Shooting: 0.05, Passing: 0.15, Dribbling: 0.10, Physical: 0.55},
	Goalkeeper:    {Pace: 0.10, Shooting: 0.05, Passing: 0.15, Dribbling: 0.10, Physical: 0.60},
}

// defaultWeights is used for unknown or unset positions.
var defaultWeights = Weights{Pace: 0.20, Shooting: 0.20, Passing: 0.20, Dribbling: 0.20, Physical: 0.20}
