// Package websocket provides WebSocket transport for Road Fighter Retro.
//
// The websocket package implements:
//   - Snapshot fan-out to every client watching a session
//   - Discrete action intake from clients
//   - Connection lifecycle management
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a read and a
// write goroutine. Hub implements service.StatePublisher, so the service
// pushes a snapshot after every mutation, including realtime ticks.
//
// Message Protocol:
//
//   - Outgoing: {"session_id": "ab12", "event": "state_update", "game_state": {...}}
//   - Outgoing: {"session_id": "ab12", "event": "error", "data": "invalid action: up"}
//   - Incoming: {"action": "left"} or {"action": "right"}
//
// Clients attach with /ws?session=ab12 and receive the current snapshot
// first. Publishing never blocks the caller: when the hub's queue is full the
// update is dropped, and a client that cannot keep up is disconnected.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.SetActionHandler(func(ctx context.Context, id, action string) error {
//		_, err := gameService.Move(ctx, id, action)
//		return err
//	})
package websocket
