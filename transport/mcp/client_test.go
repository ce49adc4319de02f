package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/road-fighter-retro/game/engine"
	"github.com/wricardo/road-fighter-retro/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" && r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":          "test-session",
			"config_name": "classic",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var result service.SessionInfo
	err := client.apiCall(context.Background(), "POST", "/api/sessions", map[string]string{"mode": "manual"}, &result)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if result.ID != "test-session" {
		t.Errorf("Expected id test-session, got %s", result.ID)
	}
	if result.ConfigName != "classic" {
		t.Errorf("Expected config classic, got %s", result.ConfigName)
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"error field", http.StatusNotFound, `{"error":"session not found"}`, "session not found"},
		{"no error field", http.StatusInternalServerError, `oops`, "API error: 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			err := client.apiCall(context.Background(), "GET", "/api/sessions/x", nil, nil)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestClient_apiCall_InvalidURL(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:99999")

	err := client.apiCall(context.Background(), "GET", "/test", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

// recordingAPI captures the last request and answers with a fixed body
type recordingAPI struct {
	method string
	path   string
	query  string
	body   map[string]interface{}
}

func (r *recordingAPI) server(t *testing.T, response interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.method = req.Method
		r.path = req.URL.Path
		r.query = req.URL.RawQuery
		r.body = nil
		json.NewDecoder(req.Body).Decode(&r.body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()

	request := mcp.CallToolRequest{}
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(result.Content) == 0 {
		t.Fatal("Expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	return text.Text, result.IsError
}

func TestHandleCreateSession(t *testing.T) {
	api := &recordingAPI{}
	srv := api.server(t, service.SessionInfo{ID: "abc", ConfigName: "arcade", Mode: service.ModeManual})
	client := NewClient(srv.URL)

	text, isErr := callTool(t, client.handleCreateSession, map[string]interface{}{
		"config_id": "arcade",
		"mode":      "manual",
		"seed":      float64(7),
	})
	if isErr {
		t.Fatalf("Unexpected tool error: %s", text)
	}

	if api.method != "POST" || api.path != "/api/sessions" {
		t.Errorf("Expected POST /api/sessions, got %s %s", api.method, api.path)
	}
	if api.body["config_id"] != "arcade" || api.body["mode"] != "manual" || api.body["seed"] != float64(7) {
		t.Errorf("Unexpected request body: %v", api.body)
	}
	for _, want := range []string{"Created session: abc", "Config: arcade", "Mode: manual", "call tick"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %q", want, text)
		}
	}
}

func TestHandleCreateSession_DefaultsOmitted(t *testing.T) {
	api := &recordingAPI{}
	srv := api.server(t, service.SessionInfo{ID: "abc", ConfigName: "classic", Mode: service.ModeRealtime})
	client := NewClient(srv.URL)

	text, _ := callTool(t, client.handleCreateSession, nil)

	if len(api.body) != 0 {
		t.Errorf("Expected empty request body, got %v", api.body)
	}
	if strings.Contains(text, "call tick") {
		t.Errorf("Realtime sessions should not mention tick: %q", text)
	}
}

func TestHandleMove(t *testing.T) {
	state := engine.InitGameStateFromConfig(engine.DefaultConfig())
	state.CarPosition = 40

	tests := []struct {
		name     string
		result   service.MoveResult
		contains string
	}{
		{
			name:     "steered",
			result:   service.MoveResult{Success: true, Action: engine.ActionLeft, FromPosition: 50, ToPosition: 40, GameState: state},
			contains: "✓ Steered left: 50 -> 40",
		},
		{
			name:     "clamped",
			result:   service.MoveResult{Success: true, Action: engine.ActionLeft, FromPosition: 5, ToPosition: 0, Clamped: true, GameState: state},
			contains: "hit the road edge: 5 -> 0",
		},
		{
			name:     "game over",
			result:   service.MoveResult{Success: false, Action: engine.ActionLeft, Message: "Crash! Game Over!", GameState: state},
			contains: "Move ignored",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &recordingAPI{}
			srv := api.server(t, tt.result)
			client := NewClient(srv.URL)

			text, _ := callTool(t, client.handleMove, map[string]interface{}{
				"session_id": "s1",
				"action":     "left",
				"intent":     "dodge the obstacle ahead",
			})

			if api.path != "/api/sessions/s1/move" {
				t.Errorf("Expected move path, got %s", api.path)
			}
			if api.body["action"] != "left" {
				t.Errorf("Expected action left, got %v", api.body["action"])
			}
			if !strings.Contains(text, tt.contains) {
				t.Errorf("Expected %q in %q", tt.contains, text)
			}
		})
	}
}

func TestHandleMove_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": `invalid action: "up"`})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	text, isErr := callTool(t, client.handleMove, map[string]interface{}{"session_id": "s1", "action": "up"})

	if !isErr {
		t.Error("Expected tool error result")
	}
	if !strings.Contains(text, "invalid action") {
		t.Errorf("Expected API error message, got %q", text)
	}
}

func TestHandleTick(t *testing.T) {
	state := engine.InitGameStateFromConfig(engine.DefaultConfig())
	state.Tick = 200

	api := &recordingAPI{}
	srv := api.server(t, service.TickResult{
		TicksRequested: 500,
		TicksExecuted:  200,
		Truncated:      true,
		Limit:          engine.MaxBulkTicks,
		ScoreDelta:     6,
		Spawned:        10,
		GameState:      state,
		Events: []service.GameEvent{
			{Type: "spawn", Message: "Obstacle at 12.0", Tick: 20},
		},
	})
	client := NewClient(srv.URL)

	text, _ := callTool(t, client.handleTick, map[string]interface{}{
		"session_id": "s1",
		"count":      float64(500),
	})

	if api.path != "/api/sessions/s1/tick" {
		t.Errorf("Expected tick path, got %s", api.path)
	}
	if api.body["count"] != float64(500) {
		t.Errorf("Expected count 500, got %v", api.body["count"])
	}
	for _, want := range []string{"Advanced 200/500 ticks (limited to 200)", "Spawned: 10 | Dodged: 6", "[tick 20] spawn", "Tick: 200"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %q", want, text)
		}
	}
}

func TestHandleTick_DefaultCount(t *testing.T) {
	api := &recordingAPI{}
	srv := api.server(t, service.TickResult{TicksRequested: 1, TicksExecuted: 1})
	client := NewClient(srv.URL)

	callTool(t, client.handleTick, map[string]interface{}{"session_id": "s1"})

	if api.body["count"] != float64(1) {
		t.Errorf("Expected default count 1, got %v", api.body["count"])
	}
}

func TestHandleGameState(t *testing.T) {
	config := engine.DefaultConfig()
	state := engine.InitGameStateFromConfig(config)
	state.Obstacles = []engine.Obstacle{{Position: 50, Top: 40}}

	api := &recordingAPI{}
	srv := api.server(t, service.SessionInfo{ID: "s1", GameState: state, GameConfig: config})
	client := NewClient(srv.URL)

	text, _ := callTool(t, client.handleGameState, map[string]interface{}{"session_id": "s1"})

	if api.path != "/api/sessions/s1" {
		t.Errorf("Expected session path, got %s", api.path)
	}
	// Gap is 90-50 = 40 units at 5 per tick
	if !strings.Contains(text, "impact in 9 ticks") {
		t.Errorf("Expected threat line, got %q", text)
	}
	if !strings.Contains(text, "Obstacles: 1") {
		t.Errorf("Expected obstacle count, got %q", text)
	}
}

func TestHandleActionHistory(t *testing.T) {
	api := &recordingAPI{}
	srv := api.server(t, service.HistoryResponse{
		Actions: []engine.ActionHistoryEntry{
			{Action: engine.ActionRight, FromPosition: 90, ToPosition: 100, Tick: 4, ActionNumber: 2},
			{Action: engine.ActionRight, FromPosition: 100, ToPosition: 100, Tick: 5, Clamped: true, ActionNumber: 3},
		},
		TotalActions: 3,
		Page:         1,
		PageSize:     2,
		TotalPages:   2,
		HasNext:      true,
	})
	client := NewClient(srv.URL)

	text, _ := callTool(t, client.handleActionHistory, map[string]interface{}{
		"session_id": "s1",
		"page":       float64(1),
		"limit":      float64(2),
		"order":      "asc",
	})

	if api.path != "/api/sessions/s1/history" {
		t.Errorf("Expected history path, got %s", api.path)
	}
	if api.query != "limit=2&order=asc&page=1" {
		t.Errorf("Unexpected query %q", api.query)
	}
	for _, want := range []string{"page 1/2, 3 total", "#2 tick 4: right 90 -> 100", "100 -> 100 (edge)", "next page"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %q", want, text)
		}
	}
}

func TestHandleListSessions(t *testing.T) {
	over := engine.InitGameStateFromConfig(engine.DefaultConfig())
	over.GameOver = true
	over.Score = 3

	api := &recordingAPI{}
	srv := api.server(t, map[string]interface{}{
		"count": 2,
		"sessions": []service.SessionInfo{
			{ID: "a", ConfigName: "classic", Mode: service.ModeManual, CreatedAt: time.Now()},
			{ID: "b", ConfigName: "rush", Mode: service.ModeRealtime, GameState: over, CreatedAt: time.Now()},
		},
	})
	client := NewClient(srv.URL)

	text, _ := callTool(t, client.handleListSessions, map[string]interface{}{"sort": "created", "limit": float64(5)})

	if api.query != "limit=5&sort=created" {
		t.Errorf("Unexpected query %q", api.query)
	}
	for _, want := range []string{"Active Sessions (2)", "- a (Config: classic, Mode: manual, Score: 0, playing", "Score: 3, game over"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %q", want, text)
		}
	}
}

func TestHandleListConfigs(t *testing.T) {
	api := &recordingAPI{}
	srv := api.server(t, []service.ConfigInfo{
		{ConfigID: "classic", Name: "classic", Description: "The original", TickPeriodMs: 100, SpawnEveryTicks: 20, MoveStep: 10},
	})
	client := NewClient(srv.URL)

	text, _ := callTool(t, client.handleListConfigs, nil)

	if !strings.Contains(text, "config_id: classic") {
		t.Errorf("Expected config ID in %q", text)
	}
	if !strings.Contains(text, "Tick: 100ms, Spawn every 20 ticks, Move step: 10") {
		t.Errorf("Expected cadence line in %q", text)
	}
}

func TestHandleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	text, _ := callTool(t, client.handleGameInstructions, nil)

	for _, want := range []string{"GAME OBJECTIVE", "left / right", "manual", "SCORING"} {
		if !strings.Contains(text, want) {
			t.Errorf("Instructions should mention %q", want)
		}
	}
}

func TestRenderRoad(t *testing.T) {
	config := engine.DefaultConfig()

	tests := []struct {
		name      string
		car       float64
		obstacles []engine.Obstacle
		want      map[rune]int
	}{
		{
			name: "car only",
			car:  50,
			want: map[rune]int{'A': 4, '#': 0, 'X': 0},
		},
		{
			name:      "obstacle at top left",
			car:       50,
			obstacles: []engine.Obstacle{{Position: 0, Top: 0}},
			want:      map[rune]int{'A': 4, '#': 2, 'X': 0},
		},
		{
			name:      "collision",
			car:       50,
			obstacles: []engine.Obstacle{{Position: 50, Top: 85}},
			want:      map[rune]int{'A': 2, '#': 2, 'X': 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := engine.InitGameStateFromConfig(config)
			state.CarPosition = tt.car
			state.Obstacles = tt.obstacles

			out := renderRoad(state, config)
			lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			if len(lines) != renderRows {
				t.Fatalf("Expected %d rows, got %d", renderRows, len(lines))
			}
			for i, line := range lines {
				if n := len([]rune(line)); n != renderCols+2 {
					t.Errorf("Row %d has width %d, want %d", i, n, renderCols+2)
				}
			}

			for ch, want := range tt.want {
				if got := strings.Count(out, string(ch)); got != want {
					t.Errorf("Expected %d %q cells, got %d\n%s", want, ch, got, out)
				}
			}
		})
	}
}

func TestFormatGameState(t *testing.T) {
	if got := formatGameState(nil, nil); got != "No game state available" {
		t.Errorf("Unexpected nil rendering %q", got)
	}

	state := engine.InitGameStateFromConfig(engine.DefaultConfig())
	state.GameOver = true
	state.Message = "Crash! Game Over!"

	text := formatGameState(state, nil)
	if !strings.Contains(text, "GAME OVER") || !strings.Contains(text, "Message: Crash!") {
		t.Errorf("Expected game over banner, got %q", text)
	}
	if strings.Contains(text, "Nearest threat") {
		t.Errorf("Finished games should not report threats: %q", text)
	}

	state = engine.InitGameStateFromConfig(engine.DefaultConfig())
	if !strings.Contains(formatGameState(state, nil), "none in your lane") {
		t.Error("Expected clear-lane line for an empty road")
	}
}
