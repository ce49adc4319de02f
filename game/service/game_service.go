package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/road-fighter-retro/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, opts CreateSessionOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context, opts ListOptions) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, action string) (*MoveResult, error)
	Tick(ctx context.Context, sessionID string, count int) (*TickResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// Lifecycle
	CleanupExpired(ctx context.Context, maxAge time.Duration) int
	Close()
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, mode Mode, seed *int64) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	CleanupExpiredSessions(maxAge time.Duration) []string
}

// ConfigManager handles game preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// StatePublisher receives a snapshot after every mutation of a session
type StatePublisher interface {
	PublishState(sessionID string, state *engine.GameState)
}

// PublisherFunc adapts a function to StatePublisher
type PublisherFunc func(sessionID string, state *engine.GameState)

// PublishState calls f
func (f PublisherFunc) PublishState(sessionID string, state *engine.GameState) {
	f(sessionID, state)
}

// Session represents an active game session
type Session struct {
	ID        string
	Engine    *engine.GameEngine
	Config    *engine.GameConfig
	Mode      Mode
	Seed      *int64
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time

	// publishMu pairs each mutation with its publication so subscribers
	// receive snapshots in the order the engine produced them
	publishMu sync.Mutex
}

// Touch records an access at t
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessedAt = t
}

// LastAccessed returns the time of the latest access
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}
