package engine

import (
	"fmt"
	"strings"
	"time"
)

// DefaultConfig returns the canonical preset: 100ms ticks, a new obstacle
// every 20 ticks, a road marking every tick, 10-unit steering steps.
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:            "classic",
		Description:     "Road Fighter Retro: dodge the falling obstacles",
		TickPeriodMs:    100,
		SpawnEveryTicks: 20,
		RoadEveryTicks:  1,
		MoveStep:        10,
		ObstacleStep:    5,
		RoadStep:        5,
		StartPosition:   50,
		CarWidth:        4,
		CarHeight:       7,
		CarTop:          90,
		ObstacleWidth:   4,
		ObstacleHeight:  10,
	}
	config.Messages.Welcome = "Welcome to Road Fighter Retro! Dodge the obstacles."
	config.Messages.Dodged = "Obstacle dodged! Score: %d"
	config.Messages.Blocked = "Can't go further, you're at the edge of the road"
	config.Messages.GameOver = "Crash! Game Over!"
	return config
}

// TickPeriod returns the configured tick period as a duration
func (c *GameConfig) TickPeriod() time.Duration {
	return time.Duration(c.TickPeriodMs) * time.Millisecond
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is required")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate cadence
	if config.TickPeriodMs < MinTickPeriodMs || config.TickPeriodMs > MaxTickPeriodMs {
		return fmt.Errorf("config validation: tick_period_ms must be between %d and %d, got %d",
			MinTickPeriodMs, MaxTickPeriodMs, config.TickPeriodMs)
	}
	if config.SpawnEveryTicks < 1 || config.SpawnEveryTicks > MaxCadenceTicks {
		return fmt.Errorf("config validation: spawn_every_ticks must be between 1 and %d, got %d",
			MaxCadenceTicks, config.SpawnEveryTicks)
	}
	if config.RoadEveryTicks < 1 || config.RoadEveryTicks > MaxCadenceTicks {
		return fmt.Errorf("config validation: road_every_ticks must be between 1 and %d, got %d",
			MaxCadenceTicks, config.RoadEveryTicks)
	}

	// Validate steps
	steps := []struct {
		name  string
		value float64
	}{
		{"move_step", config.MoveStep},
		{"obstacle_step", config.ObstacleStep},
		{"road_step", config.RoadStep},
	}
	for _, s := range steps {
		if s.value <= 0 || s.value > MaxPosition {
			return fmt.Errorf("config validation: %s must be in (0, %g], got %g", s.name, MaxPosition, s.value)
		}
	}

	if config.StartPosition < MinPosition || config.StartPosition > MaxPosition {
		return fmt.Errorf("config validation: start_position must be between %g and %g, got %g",
			MinPosition, MaxPosition, config.StartPosition)
	}

	// Validate geometry
	dims := []struct {
		name  string
		value float64
	}{
		{"car_width", config.CarWidth},
		{"car_height", config.CarHeight},
		{"obstacle_width", config.ObstacleWidth},
		{"obstacle_height", config.ObstacleHeight},
	}
	for _, d := range dims {
		if d.value <= 0 || d.value > MaxPosition {
			return fmt.Errorf("config validation: %s must be in (0, %g], got %g", d.name, MaxPosition, d.value)
		}
	}
	if config.CarTop < MinPosition || config.CarTop+config.CarHeight > MaxPosition {
		return fmt.Errorf("config validation: car must fit on screen, car_top %g + car_height %g exceeds %g",
			config.CarTop, config.CarHeight, MaxPosition)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}
	if config.Messages.Dodged != "" && !strings.Contains(config.Messages.Dodged, "%d") {
		return fmt.Errorf("config validation: messages.dodged must contain %%d for score")
	}

	return nil
}

// InitGameStateFromConfig creates a new game state using the provided configuration.
// The road is seeded with segments at its stationary spacing so the visible
// depth does not ramp up over the first ticks.
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	// Oldest (lowest on screen) first, matching the order ticks append in
	road := []RoadSegment{}
	spacing := config.RoadStep * float64(config.RoadEveryTicks)
	if spacing > 0 {
		for i := int((MaxPosition - 1e-9) / spacing); i >= 0; i-- {
			road = append(road, RoadSegment{Position: float64(i) * spacing})
		}
	}

	return &GameState{
		CarPosition:   config.StartPosition,
		Road:          road,
		Obstacles:     []Obstacle{},
		GameOver:      false,
		Tick:          0,
		Score:         0,
		Message:       config.Messages.Welcome,
		ConfigName:    config.Name,
		ActionHistory: []ActionHistoryEntry{},
		TotalActions:  0,
	}
}
