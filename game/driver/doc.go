// Package driver runs the clock of realtime sessions.
//
// A Driver keeps one goroutine per session. Each goroutine owns a
// time.Ticker at the session's tick period and calls a TickFunc on every
// tick. The loop ends when the TickFunc reports that the session is done
// (typically at game over), when Stop is called for the session, or when
// StopAll is called at shutdown. Stop blocks until the goroutine has
// exited, so no tick runs after Stop returns.
//
// Usage:
//
//	d := driver.New()
//	err := d.Start(sessionID, cfg.TickPeriod(), func(ctx context.Context) bool {
//		_, collided := eng.Tick()
//		return collided
//	})
//
//	// Later
//	d.Stop(sessionID)
package driver
