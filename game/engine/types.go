package engine

// Action represents a discrete steering command
type Action string

const (
	ActionLeft  Action = "left"
	ActionRight Action = "right"
)

const (
	// Play field bounds, in percentage units on both axes
	MinPosition = 0.0
	MaxPosition = 100.0

	// Validation constants
	MinTickPeriodMs = 10
	MaxTickPeriodMs = 10000
	MaxBulkTicks    = 200
	MaxCadenceTicks = 1000
)

// Obstacle is a falling hazard. Position is the horizontal offset of its left
// edge, Top the distance it has fallen since spawning.
type Obstacle struct {
	Position float64 `json:"position"`
	Top      float64 `json:"top"`
}

// RoadSegment is a decorative lane marking scrolling down the screen
type RoadSegment struct {
	Position float64 `json:"position"`
}

// GameConfig represents a game preset loaded from the configs directory
type GameConfig struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`

	// Cadence
	TickPeriodMs    int `json:"tick_period_ms" mapstructure:"tick_period_ms"`
	SpawnEveryTicks int `json:"spawn_every_ticks" mapstructure:"spawn_every_ticks"`
	RoadEveryTicks  int `json:"road_every_ticks" mapstructure:"road_every_ticks"`

	// Motion
	MoveStep      float64 `json:"move_step" mapstructure:"move_step"`
	ObstacleStep  float64 `json:"obstacle_step" mapstructure:"obstacle_step"`
	RoadStep      float64 `json:"road_step" mapstructure:"road_step"`
	StartPosition float64 `json:"start_position" mapstructure:"start_position"`

	// Geometry
	CarWidth       float64 `json:"car_width" mapstructure:"car_width"`
	CarHeight      float64 `json:"car_height" mapstructure:"car_height"`
	CarTop         float64 `json:"car_top" mapstructure:"car_top"`
	ObstacleWidth  float64 `json:"obstacle_width" mapstructure:"obstacle_width"`
	ObstacleHeight float64 `json:"obstacle_height" mapstructure:"obstacle_height"`

	Messages GameMessages `json:"messages" mapstructure:"messages"`
}

// GameMessages holds the texts shown for game events. Dodged is a format
// string taking the score.
type GameMessages struct {
	Welcome  string `json:"welcome" mapstructure:"welcome"`
	Dodged   string `json:"dodged" mapstructure:"dodged"`
	Blocked  string `json:"blocked" mapstructure:"blocked"`
	GameOver string `json:"game_over" mapstructure:"game_over"`
}

// GameState represents the complete game state
type GameState struct {
	CarPosition float64       `json:"car_position"`
	Road        []RoadSegment `json:"road"`
	Obstacles   []Obstacle    `json:"obstacles"`
	GameOver    bool          `json:"game_over"`

	Tick       int    `json:"tick"`
	Score      int    `json:"score"`
	Message    string `json:"message"`
	ConfigName string `json:"config_name"`

	ActionHistory []ActionHistoryEntry `json:"action_history"`
	TotalActions  int                  `json:"total_actions"`
}

// ActionHistoryEntry represents a single accepted action
type ActionHistoryEntry struct {
	Action       Action  `json:"action"`
	FromPosition float64 `json:"from_position"`
	ToPosition   float64 `json:"to_position"`
	Tick         int     `json:"tick"`
	Clamped      bool    `json:"clamped"`
	ActionNumber int     `json:"action_number"`
}

// Clone returns a deep copy of the state
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	out := *gs
	out.Road = append([]RoadSegment(nil), gs.Road...)
	out.Obstacles = append([]Obstacle(nil), gs.Obstacles...)
	out.ActionHistory = append([]ActionHistoryEntry(nil), gs.ActionHistory...)
	if out.Road == nil {
		out.Road = []RoadSegment{}
	}
	if out.Obstacles == nil {
		out.Obstacles = []Obstacle{}
	}
	if out.ActionHistory == nil {
		out.ActionHistory = []ActionHistoryEntry{}
	}
	return &out
}
