// Package api provides the HTTP REST API for Road Fighter Retro.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session {config_id, mode, seed}
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session and stop its clock
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/move - Steer {action: "left"|"right"}
//   - POST /api/sessions/{id}/tick - Advance a manual session {count}
//   - POST /api/sessions/{id}/reset - Start over from a fresh state
//   - GET /api/sessions/{id}/history - Action history (page, limit, order)
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Get a preset
//   - POST /api/configs - Save a preset
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket snapshots and actions
//
// Error Handling:
//
// Errors are returned as JSON with a status code derived from the service's
// sentinel errors:
//
//	{"error": "session not found: ab12"}
//
//	400  malformed body, invalid action, mode or preset
//	404  unknown session or preset
//	409  tick on a realtime session
//	500  anything else
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	server := api.NewServer(gameService, hub)
//	http.ListenAndServe(":8080", server)
package api
