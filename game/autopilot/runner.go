package autopilot

import (
	"context"
	"fmt"

	"github.com/wricardo/road-fighter-retro/game/engine"
)

// Game is the surface the runner plays against: an in-process engine or a
// remote manual session
type Game interface {
	State(ctx context.Context) (*engine.GameState, error)
	Move(ctx context.Context, action engine.Action) (*engine.GameState, error)
	Tick(ctx context.Context) (*engine.GameState, error)
}

// Result summarizes a run
type Result struct {
	Ticks    int               `json:"ticks"`
	Moves    int               `json:"moves"`
	Score    int               `json:"score"`
	GameOver bool              `json:"game_over"`
	Final    *engine.GameState `json:"final_state"`
}

// Runner drives a game with a planner, one decision per tick
type Runner struct {
	Planner  *Planner
	MaxTicks int

	// OnTick, if set, is called after every tick
	OnTick func(state *engine.GameState, d Decision)
}

// Run plays until the game is over, MaxTicks is reached or ctx is done
func (r *Runner) Run(ctx context.Context, g Game) (*Result, error) {
	if r.Planner == nil {
		return nil, fmt.Errorf("runner has no planner")
	}

	state, err := g.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}

	result := &Result{}
	for !state.GameOver && (r.MaxTicks <= 0 || result.Ticks < r.MaxTicks) {
		if err := ctx.Err(); err != nil {
			break
		}

		d := r.Planner.Decide(state)
		if !d.Hold() {
			state, err = g.Move(ctx, d.Action)
			if err != nil {
				return nil, fmt.Errorf("move %s: %w", d.Action, err)
			}
			result.Moves++
		}

		state, err = g.Tick(ctx)
		if err != nil {
			return nil, fmt.Errorf("tick: %w", err)
		}
		result.Ticks++

		if r.OnTick != nil {
			r.OnTick(state, d)
		}
	}

	result.Score = state.Score
	result.GameOver = state.GameOver
	result.Final = state
	return result, nil
}

// EngineGame plays directly against an in-process engine
type EngineGame struct {
	Engine *engine.GameEngine
}

// State returns the engine's snapshot
func (g *EngineGame) State(ctx context.Context) (*engine.GameState, error) {
	return g.Engine.GetState(), nil
}

// Move steers the car
func (g *EngineGame) Move(ctx context.Context, action engine.Action) (*engine.GameState, error) {
	state, _ := g.Engine.Move(action)
	return state, nil
}

// Tick advances the engine by one tick
func (g *EngineGame) Tick(ctx context.Context) (*engine.GameState, error) {
	state, _ := g.Engine.Tick()
	return state, nil
}
