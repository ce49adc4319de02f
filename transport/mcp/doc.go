// Package mcp exposes Road Fighter Retro to AI agents over the Model Context
// Protocol.
//
// The Client is a thin proxy: every tool call becomes a REST request against
// the API server, and the JSON response is formatted as text for the agent.
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - game_state: snapshot with an ASCII view of the road and the nearest threat
//   - move: steer left or right, with an intent for rubber duck reasoning
//   - tick: advance a manual session (capped per call)
//   - reset_game: restart the session
//   - action_history: paginated accepted actions
//   - list_configs: available presets
//   - game_instructions: rules and strategy
//
// Transport Modes:
//
// The MCP server returned by GetMCPServer is served either over stdio
// (server.ServeStdio) or mounted on the HTTP server's /mcp endpoint.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
