package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/graphracers/game/engine"
)

// GameService defines all match-related operations
type GameService interface {
	// Session Management
	CreateMatch(ctx context.Context, opts MatchOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Match Operations
	SubmitMove(ctx context.Context, sessionID string, target engine.Position) (*MoveResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Match State
	GetState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetTargets(ctx context.Context, sessionID string) ([]engine.Cell, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Tracks
	ListTracks(ctx context.Context) ([]*TrackInfo, error)
	GetTrack(ctx context.Context, trackID string) (*engine.TrackConfig, error)
	SaveTrack(ctx context.Context, trackID string, config *engine.TrackConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, trackID string, config *engine.TrackConfig, settings engine.Settings, opts ...engine.Option) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Count() int
}

// TrackCatalog loads track definitions
type TrackCatalog interface {
	LoadTrack(name string) (*engine.TrackConfig, error)
	ListTracks() ([]*TrackInfo, error)
	GetDefault() *engine.TrackConfig
	DefaultName() string
	SaveTrack(name string, config *engine.TrackConfig) error
}

// Session is one running match with its own engine
type Session struct {
	ID             string
	MatchID        string // changes on every restart
	TrackID        string
	Engine         *engine.GameEngine
	Config         *engine.TrackConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// WithEngine runs fn with exclusive access to the session's engine
func (s *Session) WithEngine(fn func(e *engine.GameEngine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.Engine)
}

// LastAccess returns when the session was last used
func (s *Session) LastAccess() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LastAccessedAt
}

// Touch records an access at now
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.LastAccessedAt = now
	s.mu.Unlock()
}
