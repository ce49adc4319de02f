// Package engine provides the core game logic for Road Fighter Retro.
//
// The engine package implements the game mechanics including:
//   - Left/right steering with clamping at the road edges
//   - Obstacle spawning on a fixed tick cadence
//   - Obstacle and road scrolling with off-screen culling
//   - Axis-aligned collision detection and the terminal game-over state
//   - Configuration loading, validation and cadence analysis
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is the simulation state (car position,
// road segments, obstacles, game-over flag). GameConfig holds the tunable
// constants and messages of a preset.
//
// Usage:
//
//	gameEngine, err := engine.NewEngineWithSource(engine.DefaultConfig(), engine.NewRandomSource(42))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.MoveLeft()
//	state, collided := gameEngine.Tick()
//
// Game Rules:
//
// Every tick, an obstacle may spawn at the top of the road (every 20th tick
// with the default preset), all obstacles and road markings fall by a fixed
// step, and anything that reaches the bottom is removed. An obstacle that
// leaves the screen counts as dodged and adds one to the score. If any
// obstacle overlaps the car after the advance, the game is over and no
// further action or tick changes the state.
//
// Determinism:
//
// Spawn positions are the only random input and are drawn from a
// RandomSource. Replaying the same actions and ticks against a source with the
// same seed, or a SequenceSource with the same values, reproduces the same
// state.
package engine
