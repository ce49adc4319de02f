// Package autopilot plays Road Fighter Retro on its own.
//
// A Planner looks at a snapshot and simulates the obstacles already on
// screen for one obstacle lifetime. Spawns that have not happened yet are
// unknown, so the simulation runs with spawning disabled. For each of hold,
// left and right it steers for up to the sidestep distance and then holds,
// and keeps the line that survives longest. Holding is preferred whenever it
// is safe.
//
// A Runner asks the planner once per tick and plays the answer against a
// Game: EngineGame for in-process runs, or an HTTP client against a manual
// session (see cmd/autopilot).
package autopilot
