package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidAction = errors.New("invalid action")

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Reset() *GameState
	IsGameOver() bool
	GetScore() int
	GetTick() int
	GetCarPosition() float64

	// Actions and time
	MoveLeft() bool
	MoveRight() bool
	Move(action Action) (*GameState, bool)
	Tick() (*GameState, bool)

	// Configuration
	GetConfig() *GameConfig

	// History
	GetActionHistory() []ActionHistoryEntry
}

// GameEngine implements the Engine interface.
//
// Mutations are serialized by mu. After every mutation the new state is
// published as an immutable snapshot, so readers never take the lock.
type GameEngine struct {
	mu       sync.Mutex
	state    *GameState
	config   *GameConfig
	rng      RandomSource
	snapshot atomic.Pointer[GameState]
}

// NewEngine creates a new game engine with the provided configuration and a
// time-seeded random source
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return NewEngineWithSource(config, NewRandomSource(time.Now().UnixNano()))
}

// NewEngineWithSource creates a new game engine that draws spawn positions
// from rng. Injecting a fixed source makes runs replayable.
func NewEngineWithSource(config *GameConfig, rng RandomSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("random source cannot be nil")
	}

	engine := &GameEngine{
		config: config,
		rng:    rng,
	}
	engine.publish(InitGameStateFromConfig(config))

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the default configuration
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		// DefaultConfig is always valid
		panic(err)
	}
	return engine
}

// publish installs state as the current state and snapshot. Callers hold mu
// or own the engine exclusively.
func (e *GameEngine) publish(state *GameState) {
	e.state = state
	e.snapshot.Store(state.Clone())
}

// GetState returns a copy of the latest snapshot
func (e *GameEngine) GetState() *GameState {
	return e.snapshot.Load().Clone()
}

// Reset replaces the state with a fresh initial state, as if a new session
// had started
func (e *GameEngine) Reset() *GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.publish(InitGameStateFromConfig(e.config))
	return e.GetState()
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.snapshot.Load().GameOver
}

// GetScore returns the number of obstacles dodged
func (e *GameEngine) GetScore() int {
	return e.snapshot.Load().Score
}

// GetTick returns the number of ticks advanced
func (e *GameEngine) GetTick() int {
	return e.snapshot.Load().Tick
}

// GetCarPosition returns the car's horizontal position
func (e *GameEngine) GetCarPosition() float64 {
	return e.snapshot.Load().CarPosition
}

// MoveLeft steers the car one step left
func (e *GameEngine) MoveLeft() bool {
	_, ok := e.Move(ActionLeft)
	return ok
}

// MoveRight steers the car one step right
func (e *GameEngine) MoveRight() bool {
	_, ok := e.Move(ActionRight)
	return ok
}

// Move applies a steering action and returns the resulting snapshot. It
// returns false, leaving the state untouched, when the game is over or the
// action is unknown.
func (e *GameEngine) Move(action Action) (*GameState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := Apply(e.state, action, e.config)
	if !ok {
		return e.GetState(), false
	}
	e.publish(next)
	return e.GetState(), true
}

// Tick advances the simulation by one step and returns the new snapshot and
// whether the car collided during it
func (e *GameEngine) Tick() (*GameState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.GameOver {
		return e.GetState(), false
	}

	next, collided := Advance(e.state, e.config, e.rng)
	e.publish(next)
	return e.GetState(), collided
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetActionHistory returns the complete action history
func (e *GameEngine) GetActionHistory() []ActionHistoryEntry {
	return e.GetState().ActionHistory
}
