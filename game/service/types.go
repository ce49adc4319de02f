package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/road-fighter-retro/game/engine"
)

// Mode selects who advances a session's clock
type Mode string

const (
	// ModeRealtime sessions are ticked by a driver at the preset's tick period
	ModeRealtime Mode = "realtime"
	// ModeManual sessions only advance when a client asks for ticks
	ModeManual Mode = "manual"
)

// ParseMode converts user input into a Mode. Empty input selects realtime.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeRealtime, nil
	case ModeRealtime, ModeManual:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (expected realtime or manual)", ErrInvalidMode, s)
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Mode           Mode               `json:"mode"`
	Seed           *int64             `json:"seed,omitempty"`
	Running        bool               `json:"running"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// CreateSessionOptions configures a new session
type CreateSessionOptions struct {
	ConfigName string `json:"config_id"`
	Mode       Mode   `json:"mode"`
	// Seed makes obstacle spawns replayable; nil picks a time-based seed
	Seed *int64 `json:"seed,omitempty"`
}

// ListOptions controls session listing
type ListOptions struct {
	Sort  string `json:"sort"`  // "created" or "accessed"
	Order string `json:"order"` // "asc" or "desc"
	Limit int    `json:"limit"`
}

// MoveResult contains the result of a steering action
type MoveResult struct {
	Success      bool              `json:"success"`
	Action       engine.Action     `json:"action"`
	FromPosition float64           `json:"from_position"`
	ToPosition   float64           `json:"to_position"`
	Clamped      bool              `json:"clamped,omitempty"`
	GameState    *engine.GameState `json:"game_state"`
	Message      string            `json:"message"`
	Events       []GameEvent       `json:"events,omitempty"`
}

// TickResult contains the result of advancing a manual session
type TickResult struct {
	TicksRequested int               `json:"ticks_requested"`
	TicksExecuted  int               `json:"ticks_executed"`
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`
	Collided       bool              `json:"collided"`
	StoppedOnTick  int               `json:"stopped_on_tick,omitempty"`
	ScoreDelta     int               `json:"score_delta"`
	Spawned        int               `json:"spawned"`
	GameState      *engine.GameState `json:"game_state"`
	GameOver       bool              `json:"game_over"`
	Message        string            `json:"message,omitempty"`
	Events         []GameEvent       `json:"events"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "move", "blocked", "spawn", "dodge", "collision", "reset"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Tick      int       `json:"tick"`
	Position  float64   `json:"position"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionHistoryEntry `json:"actions"`
	TotalActions int                         `json:"total_actions"`
	Page         int                         `json:"page"`
	PageSize     int                         `json:"page_size"`
	TotalPages   int                         `json:"total_pages"`
	HasNext      bool                        `json:"has_next"`
	HasPrevious  bool                        `json:"has_previous"`
}

// ConfigInfo provides information about a game preset
type ConfigInfo struct {
	Filename        string  `json:"filename"`
	ConfigID        string  `json:"config_id"` // The identifier to use for session creation
	Name            string  `json:"name"`      // Display name
	Description     string  `json:"description"`
	TickPeriodMs    int     `json:"tick_period_ms"`
	SpawnEveryTicks int     `json:"spawn_every_ticks"`
	MoveStep        float64 `json:"move_step"`
}
