package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/wricardo/mcp-training/graphracers/game/engine"
	"github.com/wricardo/mcp-training/graphracers/logging"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	tracks   TrackCatalog
	metrics  *serviceMetrics
	meters   metric.MeterProvider
	logger   zerolog.Logger
	now      func() time.Time
}

// Option customizes the game service
type Option func(*gameServiceImpl)

// WithLogger sets the logger used by the service and the engines it creates
func WithLogger(logger zerolog.Logger) Option {
	return func(s *gameServiceImpl) {
		s.logger = logger
	}
}

// WithClock replaces time.Now for event timestamps
func WithClock(now func() time.Time) Option {
	return func(s *gameServiceImpl) {
		s.now = now
	}
}

// WithMeterProvider reports metrics to mp instead of the global provider
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *gameServiceImpl) {
		s.meters = mp
	}
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, tracks TrackCatalog, opts ...Option) (GameService, error) {
	s := &gameServiceImpl{
		sessions: sessions,
		tracks:   tracks,
		meters:   otel.GetMeterProvider(),
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	m, err := newServiceMetrics(s.meters, sessions)
	if err != nil {
		return nil, err
	}
	s.metrics = m

	return s, nil
}

// CreateMatch loads a track and starts a match on it
func (s *gameServiceImpl) CreateMatch(ctx context.Context, opts MatchOptions) (*SessionInfo, error) {
	trackID := opts.Track
	if trackID == "" {
		trackID = s.tracks.DefaultName()
	}

	config, err := s.tracks.LoadTrack(trackID)
	if err != nil {
		if tracks, listErr := s.tracks.ListTracks(); listErr == nil && len(tracks) > 0 {
			ids := make([]string, 0, len(tracks))
			for _, t := range tracks {
				ids = append(ids, t.TrackID)
			}
			return nil, fmt.Errorf("track '%s' (available tracks: %v): %w", trackID, ids, err)
		}
		return nil, fmt.Errorf("track '%s': %w", trackID, err)
	}

	settings := opts.Settings()
	if err := engine.ValidateSettings(settings); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Create("", trackID, config, settings,
		engine.WithLogger(logging.NewEngineLogger(s.logger)))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.WithEngine(func(*engine.GameEngine) error {
		sess.MatchID = uuid.NewString()
		return nil
	})

	s.metrics.matchCreated(ctx, trackID, settings.Players)
	s.logger.Info().
		Str("session", sess.ID).
		Str("track", trackID).
		Int("players", settings.Players).
		Int("damage_max", settings.DamageMax).
		Int("laps", settings.Laps).
		Msg("match created")

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// SubmitMove resolves the active player's move. Illegal moves and finished
// matches come back as engine errors and leave the session untouched.
func (s *gameServiceImpl) SubmitMove(ctx context.Context, sessionID string, target engine.Position) (*MoveResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var outcome *engine.MoveOutcome
	var state *engine.GameState
	err = sess.WithEngine(func(e *engine.GameEngine) error {
		var moveErr error
		outcome, moveErr = e.SubmitMove(target)
		if moveErr != nil {
			return moveErr
		}
		state = e.Snapshot()
		return nil
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("session", sessionID).Int("x", target.X).Int("y", target.Y).Msg("move rejected")
		return nil, fmt.Errorf("submit move: %w", err)
	}

	s.metrics.moveResolved(ctx, sess.TrackID, outcome.Events)

	return &MoveResult{
		Success:   true,
		Kind:      outcome.Kind,
		Player:    outcome.Player,
		From:      outcome.From,
		To:        outcome.To,
		Speed:     outcome.Speed,
		GameState: state,
		Message:   state.Message,
		Events:    s.convertEvents(outcome.Events),
	}, nil
}

// Restart starts the session's match over with the same settings
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var state *engine.GameState
	err = sess.WithEngine(func(e *engine.GameEngine) error {
		switch e.State() {
		case engine.InGame:
			if err := e.Restart(); err != nil {
				return err
			}
		case engine.EndGame, engine.NoGame:
			if err := e.NewGame(); err != nil {
				return err
			}
		}
		if err := e.Start(); err != nil {
			return err
		}
		sess.MatchID = uuid.NewString()
		state = e.Snapshot()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restart: %w", err)
	}

	s.metrics.matchCreated(ctx, sess.TrackID, state.Settings.Players)
	s.logger.Info().Str("session", sessionID).Msg("match restarted")
	return state, nil
}

// GetState returns a snapshot of the match
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var state *engine.GameState
	sess.WithEngine(func(e *engine.GameEngine) error {
		state = e.Snapshot()
		return nil
	})
	return state, nil
}

// GetTargets returns the cells the active player may choose
func (s *gameServiceImpl) GetTargets(ctx context.Context, sessionID string) ([]engine.Cell, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	targets := []engine.Cell{}
	sess.WithEngine(func(e *engine.GameEngine) error {
		targets = append(targets, e.Targets()...)
		return nil
	})
	return targets, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var history []engine.MoveHistoryEntry
	sess.WithEngine(func(e *engine.GameEngine) error {
		history = append(history, e.GetMoveHistory()...)
		return nil
	})

	return paginate(history, opts), nil
}

// ListTracks returns the track catalog
func (s *gameServiceImpl) ListTracks(ctx context.Context) ([]*TrackInfo, error) {
	return s.tracks.ListTracks()
}

// GetTrack returns one track definition
func (s *gameServiceImpl) GetTrack(ctx context.Context, trackID string) (*engine.TrackConfig, error) {
	return s.tracks.LoadTrack(trackID)
}

// SaveTrack validates and stores a track definition in the catalog
func (s *gameServiceImpl) SaveTrack(ctx context.Context, trackID string, config *engine.TrackConfig) error {
	if err := s.tracks.SaveTrack(trackID, config); err != nil {
		return fmt.Errorf("save track '%s': %w", trackID, err)
	}
	s.logger.Info().Str("track", trackID).Str("name", config.Name).Msg("track saved")
	return nil
}

func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		TrackID:        sess.TrackID,
		TrackName:      sess.Config.Name,
		CreatedAt:      sess.CreatedAt,
	}
	sess.WithEngine(func(e *engine.GameEngine) error {
		info.MatchID = sess.MatchID
		info.LastAccessedAt = sess.LastAccessedAt
		info.Settings = e.Settings()
		info.GameState = e.Snapshot()
		return nil
	})
	return info
}

func (s *gameServiceImpl) convertEvents(events []engine.Event) []GameEvent {
	out := make([]GameEvent, 0, len(events))
	now := s.now()
	for _, ev := range events {
		out = append(out, GameEvent{
			ID:        uuid.NewString(),
			Type:      ev.Type,
			Player:    ev.Player,
			Message:   ev.Message,
			Timestamp: now,
			Position:  ev.Position,
		})
	}
	return out
}

// paginate slices history by page. Defaults: page 1, limit 20 (max 100),
// newest first.
func paginate(history []engine.MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}
