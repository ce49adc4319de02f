package engine

import (
	"fmt"
	"strings"
)

// ParseAction converts user input into an Action
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionLeft, ActionRight:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q (expected left or right)", ErrInvalidAction, s)
}

// Steer moves the car one step in the given direction, clamping at the road
// edges. It returns false when the game is over or the action is unknown;
// a clamped move at the edge is still an accepted action.
func (gs *GameState) Steer(action Action, config *GameConfig) bool {
	if gs.GameOver {
		return false
	}

	from := gs.CarPosition
	to := from

	switch action {
	case ActionLeft:
		to -= config.MoveStep
	case ActionRight:
		to += config.MoveStep
	default:
		return false
	}

	clamped := false
	if to < MinPosition {
		to = MinPosition
		clamped = true
	} else if to > MaxPosition {
		to = MaxPosition
		clamped = true
	}

	gs.CarPosition = to
	if clamped && config.Messages.Blocked != "" {
		gs.Message = config.Messages.Blocked
	}

	gs.addActionToHistory(action, from, to, clamped)
	return true
}

// Advance runs one tick: spawn on cadence, move and cull obstacles, scroll the
// road, then check collisions against the advanced obstacles. It returns
// whether the car collided. A game-over state is left untouched.
func (gs *GameState) Advance(config *GameConfig, rng RandomSource) bool {
	if gs.GameOver {
		return false
	}

	gs.Tick++

	// Spawn
	if gs.Tick%config.SpawnEveryTicks == 0 {
		gs.Obstacles = append(gs.Obstacles, Obstacle{
			Position: rng.Float64() * MaxPosition,
			Top:      0,
		})
	}

	// Obstacles fall; anything reaching the bottom has been dodged
	kept := gs.Obstacles[:0]
	dodged := 0
	for _, o := range gs.Obstacles {
		o.Top += config.ObstacleStep
		if o.Top >= MaxPosition {
			dodged++
			continue
		}
		kept = append(kept, o)
	}
	gs.Obstacles = kept
	if dodged > 0 {
		gs.Score += dodged
		if config.Messages.Dodged != "" {
			gs.Message = fmt.Sprintf(config.Messages.Dodged, gs.Score)
		}
	}

	// Road scrolls with its own cadence for new segments
	road := gs.Road[:0]
	for _, seg := range gs.Road {
		seg.Position += config.RoadStep
		if seg.Position >= MaxPosition {
			continue
		}
		road = append(road, seg)
	}
	gs.Road = road
	if gs.Tick%config.RoadEveryTicks == 0 {
		gs.Road = append(gs.Road, RoadSegment{Position: 0})
	}

	if gs.HasCollision(config) {
		gs.GameOver = true
		gs.Message = config.Messages.GameOver
		return true
	}

	return false
}

// Apply returns the state that results from steering, leaving the input untouched
func Apply(state *GameState, action Action, config *GameConfig) (*GameState, bool) {
	next := state.Clone()
	ok := next.Steer(action, config)
	return next, ok
}

// Advance returns the state one tick later and whether that tick collided,
// leaving the input untouched
func Advance(state *GameState, config *GameConfig, rng RandomSource) (*GameState, bool) {
	next := state.Clone()
	collided := next.Advance(config, rng)
	return next, collided
}

// addActionToHistory records an accepted action
func (gs *GameState) addActionToHistory(action Action, from, to float64, clamped bool) {
	entry := ActionHistoryEntry{
		Action:       action,
		FromPosition: from,
		ToPosition:   to,
		Tick:         gs.Tick,
		Clamped:      clamped,
		ActionNumber: gs.TotalActions + 1,
	}
	gs.ActionHistory = append(gs.ActionHistory, entry)
	gs.TotalActions++
}
