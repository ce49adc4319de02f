package engine

import "math"

// CadenceStats summarizes how a preset plays out over time
type CadenceStats struct {
	TickPeriodMs int `json:"tick_period_ms"`

	// ObstacleLifetimeTicks is how many snapshots an obstacle appears in
	ObstacleLifetimeTicks int `json:"obstacle_lifetime_ticks"`

	// TicksToCarRow is how many ticks pass between spawn and the first tick an
	// obstacle's bottom edge reaches the car's top edge
	TicksToCarRow int `json:"ticks_to_car_row"`

	MaxConcurrentObstacles int `json:"max_concurrent_obstacles"`
	RoadDepth              int `json:"road_depth"`

	// SidestepMoves is the worst-case number of actions needed to clear an
	// obstacle directly ahead, ignoring the road edges
	SidestepMoves int  `json:"sidestep_moves"`
	Dodgeable     bool `json:"dodgeable"`

	SpawnIntervalMs int `json:"spawn_interval_ms"`
}

// AnalyzeCadence derives cadence statistics from a configuration
func AnalyzeCadence(config *GameConfig) CadenceStats {
	lifetime := int(math.Ceil(MaxPosition/config.ObstacleStep)) - 1
	toCarRow := TicksUntilImpact(Obstacle{Top: 0}, config)
	if toCarRow < 1 {
		toCarRow = 1
	}

	maxConcurrent := 0
	if lifetime > 0 {
		maxConcurrent = int(math.Ceil(float64(lifetime) / float64(config.SpawnEveryTicks)))
	}

	// Worst alignment is the car centered on the obstacle
	sidestep := int(math.Ceil((config.CarWidth + config.ObstacleWidth) / 2 / config.MoveStep))

	return CadenceStats{
		TickPeriodMs:           config.TickPeriodMs,
		ObstacleLifetimeTicks:  lifetime,
		TicksToCarRow:          toCarRow,
		MaxConcurrentObstacles: maxConcurrent,
		RoadDepth:              len(InitGameStateFromConfig(config).Road),
		SidestepMoves:          sidestep,
		Dodgeable:              sidestep <= toCarRow,
		SpawnIntervalMs:        config.SpawnEveryTicks * config.TickPeriodMs,
	}
}

// NearestThreat returns the lowest obstacle whose horizontal span overlaps the
// car's, and whether one exists
func NearestThreat(state *GameState, config *GameConfig) (Obstacle, bool) {
	car := CarRect(state.CarPosition, config)
	var nearest Obstacle
	found := false
	for _, o := range state.Obstacles {
		r := ObstacleRect(o, config)
		if car.Left < r.Right() && car.Right() > r.Left && r.Top < car.Bottom() {
			if !found || o.Top > nearest.Top {
				nearest = o
				found = true
			}
		}
	}
	return nearest, found
}

// TicksUntilImpact returns how many more ticks the obstacle can fall before it
// overlaps the car row, or -1 if it already has or is past it
func TicksUntilImpact(o Obstacle, config *GameConfig) int {
	gap := config.CarTop - (o.Top + config.ObstacleHeight)
	if gap < 0 {
		if o.Top < config.CarTop+config.CarHeight {
			return 0
		}
		return -1
	}
	return int(math.Floor(gap/config.ObstacleStep)) + 1
}
