// Package service provides the business logic layer for Road Fighter Retro.
//
// The service package implements:
//   - Multi-session game management
//   - Realtime and manual session clocks
//   - Action validation and processing
//   - Snapshot publication to subscribers
//   - Action history pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game preset loading and validation.
// StatePublisher receives a snapshot after every call that changes a session.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns an independent engine. Realtime sessions
// are ticked by a game/driver loop at the preset's tick period until they
// crash; manual sessions advance only through Tick, which is capped at
// engine.MaxBulkTicks per call.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, service.WithPublisher(hub))
//	defer gameService.Close()
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionOptions{
//		ConfigName: "classic",
//		Mode:       service.ModeManual,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "left")
//	ticks, err := gameService.Tick(ctx, info.ID, 20)
//
// Errors:
//
// Lookup and validation failures wrap the sentinel errors in this package
// (and engine.ErrInvalidAction), so callers map them with errors.Is.
package service
