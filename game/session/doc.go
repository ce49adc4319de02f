// Package session provides session management for Road Fighter Retro.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Per-session seeded random sources for replayable runs
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the session manager that handles all session operations. Each
// service.Session owns its own engine instance plus metadata: the preset it
// was created from, its mode (realtime or manual), the optional seed and the
// creation and last access times.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Callers may also pick
// their own ID. Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new manual session with a fixed seed
//	seed := int64(42)
//	sess, err := manager.Create("", config, service.ModeManual, &seed)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sess.ID)
//
// Sessions live only in memory. Idle sessions are removed by
// CleanupExpiredSessions, which returns the removed IDs so their drivers can
// be stopped.
package session
