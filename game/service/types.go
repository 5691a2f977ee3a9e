package service

import (
	"time"

	"github.com/wricardo/mcp-training/graphracers/game/engine"
)

// MatchOptions selects the track and settings of a new match. Zero values
// fall back to the default track and engine.DefaultSettings.
type MatchOptions struct {
	Track     string `json:"track,omitempty"`
	Players   int    `json:"players,omitempty"`
	DamageMax int    `json:"damage_max,omitempty"`
	Laps      int    `json:"laps,omitempty"`
}

// Settings merges the options over the engine defaults
func (o MatchOptions) Settings() engine.Settings {
	s := engine.DefaultSettings()
	if o.Players != 0 {
		s.Players = o.Players
	}
	if o.DamageMax != 0 {
		s.DamageMax = o.DamageMax
	}
	if o.Laps != 0 {
		s.Laps = o.Laps
	}
	return s
}

// SessionInfo provides information about a match session
type SessionInfo struct {
	ID             string            `json:"id"`
	MatchID        string            `json:"match_id"`
	TrackID        string            `json:"track_id"`
	TrackName      string            `json:"track_name"`
	Settings       engine.Settings   `json:"settings"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// MoveResult contains the result of a submitted move
type MoveResult struct {
	Success   bool              `json:"success"`
	Kind      engine.EventType  `json:"kind"`
	Player    int               `json:"player"`
	From      engine.Position   `json:"from"`
	To        engine.Position   `json:"to"`
	Speed     float64           `json:"speed"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents something that happened while a move was resolved
type GameEvent struct {
	ID        string           `json:"id"`
	Type      engine.EventType `json:"type"`
	Player    int              `json:"player"`
	Message   string           `json:"message,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Position  *engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// TrackInfo describes a track in the catalog
type TrackInfo struct {
	Filename    string `json:"filename"`
	TrackID     string `json:"track_id"` // The identifier to use for match creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Checkpoints int    `json:"checkpoints"`
	Default     bool   `json:"default,omitempty"`
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)
