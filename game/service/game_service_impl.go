package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/road-fighter-retro/game/driver"
	"github.com/wricardo/road-fighter-retro/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions  SessionManager
	configs   ConfigManager
	driver    *driver.Driver
	publisher StatePublisher

	// mu serializes session lifecycle changes (create, reset, delete) so a
	// session's driver is never started twice. Tick loops never take it.
	mu sync.Mutex
}

// Option configures the game service
type Option func(*gameServiceImpl)

// WithPublisher sets the sink that receives a snapshot after every mutation
func WithPublisher(p StatePublisher) Option {
	return func(s *gameServiceImpl) {
		s.publisher = p
	}
}

// WithDriver sets the driver that ticks realtime sessions
func WithDriver(d *driver.Driver) Option {
	return func(s *gameServiceImpl) {
		s.driver = d
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.driver == nil {
		s.driver = driver.New()
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// getSession looks up a session and wraps lookup failures
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, err
	}
	return sess, nil
}

// publish forwards a snapshot to the publisher, if any
func (s *gameServiceImpl) publish(sessionID string, state *engine.GameState) {
	if s.publisher != nil {
		s.publisher.PublishState(sessionID, state)
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID, // Return the config_id, not the display name
		Mode:           sess.Mode,
		Seed:           sess.Seed,
		Running:        s.driver.Running(sess.ID),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session and, for realtime sessions, starts its clock
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts CreateSessionOptions) (*SessionInfo, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	// Load configuration
	var config *engine.GameConfig
	if opts.ConfigName != "" {
		config, err = s.configs.LoadConfig(opts.ConfigName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, opts.ConfigName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, opts.ConfigName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", opts.ConfigName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, mode, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.publish(sess.ID, sess.Engine.GetState())

	if sess.Mode == ModeRealtime {
		if err := s.startDriver(sess); err != nil {
			s.sessions.Delete(sess.ID)
			return nil, fmt.Errorf("failed to start session clock: %w", err)
		}
	}

	configID := opts.ConfigName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return s.sessionInfo(sess, configID), nil
}

// startDriver starts the tick loop of a realtime session. Callers hold mu.
func (s *gameServiceImpl) startDriver(sess *Session) error {
	id := sess.ID
	eng := sess.Engine

	return s.driver.Start(id, sess.Config.TickPeriod(), func(ctx context.Context) bool {
		sess.publishMu.Lock()
		state, collided := eng.Tick()
		s.publish(id, state)
		sess.publishMu.Unlock()

		if collided {
			log.Printf("[TICK] session=%s crashed at tick %d, score %d", id, state.Tick, state.Score)
		}
		return state.GameOver
	})
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns active sessions, newest first unless asked otherwise
func (s *gameServiceImpl) ListSessions(ctx context.Context, opts ListOptions) ([]*SessionInfo, error) {
	sessions := s.sessions.List()

	// Read every key once so concurrent touches cannot reorder mid-sort
	keys := make(map[*Session]time.Time, len(sessions))
	for _, sess := range sessions {
		if opts.Sort == "accessed" {
			keys[sess] = sess.LastAccessed()
		} else {
			keys[sess] = sess.CreatedAt
		}
	}
	asc := strings.EqualFold(opts.Order, "asc")

	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := keys[sessions[i]], keys[sessions[j]]
		if a.Equal(b) {
			return sessions[i].ID < sessions[j].ID
		}
		if asc {
			return a.Before(b)
		}
		return a.After(b)
	})

	if opts.Limit > 0 && len(sessions) > opts.Limit {
		sessions = sessions[:opts.Limit]
	}

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession stops a session's clock and removes it
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return err
	}

	s.driver.Stop(sess.ID)
	return s.sessions.Delete(sess.ID)
}

// Move applies one steering action to a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, action string) (*MoveResult, error) {
	parsed, err := engine.ParseAction(action)
	if err != nil {
		return nil, err
	}

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	// Update last accessed time
	s.sessions.UpdateLastAccessed(sessionID)

	sess.publishMu.Lock()
	state, success := sess.Engine.Move(parsed)
	if success {
		s.publish(sess.ID, state)
	}
	sess.publishMu.Unlock()

	result := &MoveResult{
		Success:      success,
		Action:       parsed,
		FromPosition: state.CarPosition,
		ToPosition:   state.CarPosition,
		GameState:    state,
		Message:      state.Message,
		Events:       []GameEvent{},
	}

	if !success {
		// Only a finished game rejects a valid action
		result.Events = append(result.Events, GameEvent{
			Type:      "game_over",
			Message:   state.Message,
			Timestamp: time.Now(),
			Tick:      state.Tick,
			Position:  state.CarPosition,
		})
		return result, nil
	}

	if n := len(state.ActionHistory); n > 0 {
		last := state.ActionHistory[n-1]
		result.FromPosition = last.FromPosition
		result.ToPosition = last.ToPosition
		result.Clamped = last.Clamped
	}

	event := GameEvent{
		Type:      "move",
		Message:   fmt.Sprintf("Steered %s to %g", parsed, result.ToPosition),
		Timestamp: time.Now(),
		Tick:      state.Tick,
		Position:  result.ToPosition,
	}
	if result.Clamped {
		event.Type = "blocked"
		event.Message = state.Message
	}
	result.Events = append(result.Events, event)

	return result, nil
}

// Tick advances a manual session by count ticks, stopping early on a collision
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string, count int) (*TickResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Mode == ModeRealtime {
		return nil, fmt.Errorf("%w: %s ticks every %dms on its own", ErrRealtimeSession, sess.ID, sess.Config.TickPeriodMs)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	if count < 1 {
		count = 1
	}

	result := &TickResult{
		TicksRequested: count,
		Events:         []GameEvent{},
	}

	// Limit ticks to prevent abuse
	if count > engine.MaxBulkTicks {
		result.Truncated = true
		result.Limit = engine.MaxBulkTicks
		count = engine.MaxBulkTicks
	}

	sess.publishMu.Lock()
	defer sess.publishMu.Unlock()

	state := sess.Engine.GetState()
	startScore := state.Score
	spawnEvery := sess.Config.SpawnEveryTicks

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		if state.GameOver {
			break
		}

		prevScore := state.Score
		var collided bool
		state, collided = sess.Engine.Tick()
		result.TicksExecuted++

		if state.Tick%spawnEvery == 0 && len(state.Obstacles) > 0 {
			spawned := state.Obstacles[len(state.Obstacles)-1]
			result.Spawned++
			result.Events = append(result.Events, GameEvent{
				Type:      "spawn",
				Message:   fmt.Sprintf("Obstacle appeared at %.1f", spawned.Position),
				Timestamp: time.Now(),
				Tick:      state.Tick,
				Position:  spawned.Position,
			})
		}
		if state.Score > prevScore {
			result.Events = append(result.Events, GameEvent{
				Type:      "dodge",
				Message:   state.Message,
				Timestamp: time.Now(),
				Tick:      state.Tick,
				Position:  state.CarPosition,
			})
		}
		if collided {
			result.Collided = true
			result.StoppedOnTick = i + 1
			result.Events = append(result.Events, GameEvent{
				Type:      "collision",
				Message:   state.Message,
				Timestamp: time.Now(),
				Tick:      state.Tick,
				Position:  state.CarPosition,
			})
			break
		}
	}

	result.GameState = state
	result.GameOver = state.GameOver
	result.ScoreDelta = state.Score - startScore
	result.Message = state.Message

	if result.TicksExecuted > 0 {
		s.publish(sess.ID, state)
	}
	return result, nil
}

// Reset restarts a session from a fresh initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)

	// The old clock must be gone before the fresh state is installed
	s.driver.Stop(sess.ID)
	sess.publishMu.Lock()
	state := sess.Engine.Reset()
	s.publish(sess.ID, state)
	sess.publishMu.Unlock()

	if sess.Mode == ModeRealtime {
		if err := s.startDriver(sess); err != nil && !errors.Is(err, driver.ErrAlreadyRunning) {
			return nil, fmt.Errorf("failed to restart session clock: %w", err)
		}
	}

	return state, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetActionHistory returns paginated action history
func (s *gameServiceImpl) GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetActionHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	actions := []engine.ActionHistoryEntry{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else if start < total {
		actions = append(actions, history[start:end]...)
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available game presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game preset to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// CleanupExpired removes sessions idle for longer than maxAge and stops their clocks
func (s *gameServiceImpl) CleanupExpired(ctx context.Context, maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.sessions.CleanupExpiredSessions(maxAge)
	for _, id := range removed {
		s.driver.Stop(id)
	}
	return len(removed)
}

// Close stops every session clock
func (s *gameServiceImpl) Close() {
	s.driver.StopAll()
}
