package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/road-fighter-retro/game/engine"
	"github.com/wricardo/road-fighter-retro/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Road Fighter Retro",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Road Fighter Retro - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Steer your car (A) left and right to dodge obstacles (#) falling down the road.
One collision ends the game. Every obstacle that scrolls past scores a point.

AVAILABLE TOOLS:
- create_session: Create a session (use mode "manual" to control the clock yourself)
- game_state: Current snapshot with an ASCII view of the road
- move: Steer left or right - requires intent explanation
- tick: Advance a manual session by one or more ticks
- reset_game: Start over
- action_history: View past actions
- get_session / list_sessions: Session details
- list_configs: Available presets
- game_instructions: Full rules

NOTE: The 'intent' parameter on move serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset, mode and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"realtime", "manual"},
					"description": "realtime sessions tick on the server clock; manual sessions only advance through the tick tool (default realtime)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for replayable obstacle spawns (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sort": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"created", "accessed"},
					"description": "Sort key (default accessed)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of sessions",
				},
			},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state with an ASCII view of the road",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Steer the car one step left or right",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"left", "right"},
					"description": "Direction to steer",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "action"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Advance a manual session; stops early on a collision",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"count": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Ticks to advance (default 1, max %d)", engine.MaxBulkTicks),
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to a fresh initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get the action history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	return args
}

func sessionPath(args map[string]interface{}, suffix string) string {
	sessionID, _ := args["session_id"].(string)
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]interface{}{}
	if configID, _ := args["config_id"].(string); configID != "" {
		body["config_id"] = configID
	}
	if mode, _ := args["mode"].(string); mode != "" {
		body["mode"] = mode
	}
	if seed, ok := args["seed"].(float64); ok {
		body["seed"] = int64(seed)
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nMode: %s\n", session.ID, session.ConfigName, session.Mode)
	if session.Mode == service.ModeManual {
		result += "The road only moves when you call tick.\n"
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	query := url.Values{}
	if sort, _ := args["sort"].(string); sort != "" {
		query.Set("sort", sort)
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	path := "/api/sessions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "playing"
		if s.GameState != nil && s.GameState.GameOver {
			status = "game over"
		}
		score := 0
		if s.GameState != nil {
			score = s.GameState.Score
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Mode: %s, Score: %d, %s, Created: %s)\n",
			s.ID, s.ConfigName, s.Mode, score, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// The session carries the preset, which the rendering needs for geometry
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(session.GameState, session.GameConfig)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	action, _ := args["action"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_, _ = args["intent"].(string)

	var result service.MoveResult
	if err := c.apiCall(ctx, "POST", sessionPath(args, "/move"), map[string]string{"action": action}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	count := 1
	if n, ok := args["count"].(float64); ok {
		count = int(n)
	}

	var result service.TickResult
	if err := c.apiCall(ctx, "POST", sessionPath(args, "/tick"), map[string]int{"count": count}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTickResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	if err := c.apiCall(ctx, "POST", sessionPath(arguments(request), "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State, nil))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	query := url.Values{}
	if page, ok := args["page"].(float64); ok {
		query.Set("page", fmt.Sprintf("%d", int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		query.Set("limit", fmt.Sprintf("%d", int(limit)))
	}
	if order, _ := args["order"].(string); order != "" {
		query.Set("order", order)
	}
	path := sessionPath(args, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Tick: %dms, Spawn every %d ticks, Move step: %g\n\n",
			config.Name, config.ConfigID, config.Description,
			config.TickPeriodMs, config.SpawnEveryTicks, config.MoveStep)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `🏁 Road Fighter Retro - Complete Instructions

GAME OBJECTIVE:
Keep your car on the road as long as possible. Obstacles fall from the top of
the screen; steer around them. One collision ends the game.

PLAY FIELD:
• Horizontal positions run from 0 (left edge) to 100 (right edge)
• Vertical positions run from 0 (top) to 100 (bottom)
• Your car sits near the bottom (rows 90-97 in the classic preset)
• Obstacles spawn at the top on a fixed cadence and fall a few units per tick

LEGEND (game_state view):
• A - Your car
• # - Obstacle
• : - Lane marking (decorative, scrolls with the road)
• X - Collision

MOVEMENT COMMANDS:
• left / right - Steer by the preset's move step (10 in classic)
• Steering into the road edge keeps the car at the edge
• Moves after a crash are ignored; use reset_game to start over

SESSION MODES:
• realtime - The server ticks the session on its own clock (100ms in classic)
• manual - Nothing moves until you call tick; ideal for planning each step

SCORING:
• Every obstacle that scrolls off the bottom without hitting you is +1

🤖 AI AGENTS - STRATEGY:
1. Use a manual session so the road waits for you
2. Read game_state: "Nearest threat" tells you how many ticks remain before impact
3. One sidestep is enough to clear an obstacle directly ahead in the classic preset
4. Steer, then tick a few times and re-check; avoid steering into a second obstacle
5. Keep some distance from the edges so you always have an escape lane

Good luck on the road!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nMode: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Mode,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState, session.GameConfig))
}

func formatGameState(state *engine.GameState, config *engine.GameConfig) string {
	if state == nil {
		return "No game state available"
	}
	if config == nil {
		config = engine.DefaultConfig()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tick: %d | Car: %g | Score: %d | Obstacles: %d | Actions: %d\n",
		state.Tick, state.CarPosition, state.Score, len(state.Obstacles), state.TotalActions)

	if threat, ok := engine.NearestThreat(state, config); ok && !state.GameOver {
		fmt.Fprintf(&b, "Nearest threat: obstacle at %.1f (top %g), impact in %d ticks\n",
			threat.Position, threat.Top, engine.TicksUntilImpact(threat, config))
	} else if !state.GameOver {
		b.WriteString("Nearest threat: none in your lane\n")
	}
	b.WriteString("\n")
	b.WriteString(renderRoad(state, config))

	if state.GameOver {
		b.WriteString("\n💥 GAME OVER")
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	return b.String()
}

const (
	// Each character covers 4x5 play-field units; two extra columns show a
	// car parked against the right edge
	renderCols = 26
	renderRows = 20
	cellWidth  = 4.0
	cellHeight = engine.MaxPosition / renderRows
)

// renderRoad draws the play field as ASCII, one row per 5 vertical units
func renderRoad(state *engine.GameState, config *engine.GameConfig) string {
	grid := make([][]rune, renderRows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", renderCols))
	}

	for _, seg := range state.Road {
		if row := int(seg.Position / cellHeight); row >= 0 && row < renderRows {
			grid[row][renderCols/2] = ':'
		}
	}

	paint := func(r engine.Rect, ch rune) {
		for y := 0; y < renderRows; y++ {
			for x := 0; x < renderCols; x++ {
				cell := engine.Rect{Left: float64(x) * cellWidth, Top: float64(y) * cellHeight, Width: cellWidth, Height: cellHeight}
				if !cell.Overlaps(r) {
					continue
				}
				if grid[y][x] == '#' && ch == 'A' {
					grid[y][x] = 'X'
				} else {
					grid[y][x] = ch
				}
			}
		}
	}

	for _, o := range state.Obstacles {
		paint(engine.ObstacleRect(o, config), '#')
	}
	paint(engine.CarRect(state.CarPosition, config), 'A')

	var b strings.Builder
	for _, row := range grid {
		b.WriteString("|")
		b.WriteString(string(row))
		b.WriteString("|\n")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	switch {
	case !result.Success:
		b.WriteString("✗ Move ignored: the game is over\n")
	case result.Clamped:
		fmt.Fprintf(&b, "⚠ Steered %s but hit the road edge: %g -> %g\n", result.Action, result.FromPosition, result.ToPosition)
	default:
		fmt.Fprintf(&b, "✓ Steered %s: %g -> %g\n", result.Action, result.FromPosition, result.ToPosition)
	}

	if result.GameState != nil {
		fmt.Fprintf(&b, "Car: %g | Tick: %d | Score: %d\n", result.GameState.CarPosition, result.GameState.Tick, result.GameState.Score)
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", result.Message)
	}
	return b.String()
}

func formatTickResult(result *service.TickResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Advanced %d/%d ticks", result.TicksExecuted, result.TicksRequested)
	if result.Truncated {
		fmt.Fprintf(&b, " (limited to %d)", result.Limit)
	}
	b.WriteString("\n")

	if result.Collided {
		fmt.Fprintf(&b, "💥 Collision on tick %d of this call\n", result.StoppedOnTick)
	}
	fmt.Fprintf(&b, "Spawned: %d | Dodged: %d\n", result.Spawned, result.ScoreDelta)

	for _, e := range result.Events {
		fmt.Fprintf(&b, "  [tick %d] %s: %s\n", e.Tick, e.Type, e.Message)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState, nil))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (page %d/%d, %d total):\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, a := range history.Actions {
		line := fmt.Sprintf("#%d tick %d: %s %g -> %g", a.ActionNumber, a.Tick, a.Action, a.FromPosition, a.ToPosition)
		if a.Clamped {
			line += " (edge)"
		}
		b.WriteString(line + "\n")
	}

	if history.HasNext {
		b.WriteString("\nMore actions on the next page.\n")
	}
	return b.String()
}
