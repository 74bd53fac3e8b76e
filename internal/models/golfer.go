package models

// SimulationStats are the tournament-simulation outcomes for one golfer,
// expressed the way the presentation layer consumes them (percentages, not
// fractions).
type SimulationStats struct {
	Top10Percentage float64 `json:"top_10_percentage"`
	WinPercentage   float64 `json:"win_percentage"`
	AverageFinish   float64 `json:"average_finish"`
}

// Golfer is one roster entry from the statistics provider. Identity is the
// name, compared case-insensitively after trimming when reconciling against
// the matchup feed.
type Golfer struct {
	Name               string          `json:"name"`
	StrokesGainedTotal float64         `json:"strokes_gained_total"`
	SimulationStats    SimulationStats `json:"simulation_stats"`
}

// SkillRating is one entry from the DataGolf skill ratings endpoint, the raw
// input the simulation-backed statistics provider works from.
type SkillRating struct {
	PlayerName string  `json:"player_name"`
	SGTotal    float64 `json:"sg_total"`
}
