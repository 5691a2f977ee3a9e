package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for match operations
type Engine interface {
	// Lifecycle
	NewGame() error
	Configure(settings Settings) error
	Start() error
	Restart() error

	// Moves
	SubmitMove(target Position) (*MoveOutcome, error)

	// Queries
	State() MatchState
	Settings() Settings
	ActivePlayer() int
	Turn() int
	Winner() int
	Player(index int) (PlayerStats, bool)
	Players() []PlayerStats
	Targets() []Cell
	Message() string
	Messages() Messages
	Snapshot() *GameState

	// History
	GetMoveHistory() []MoveHistoryEntry
}

// MoveHistoryEntry records one resolved turn, chosen or forced
type MoveHistoryEntry struct {
	MoveNumber int       `json:"move_number"`
	Turn       int       `json:"turn"`
	Player     int       `json:"player"`
	Kind       EventType `json:"kind"`
	From       Position  `json:"from"`
	To         Position  `json:"to"`
	Speed      float64   `json:"speed"`
	Damage     int       `json:"damage"`
	Lap        int       `json:"lap"`
	Checkpoint int       `json:"checkpoint"`
	Timestamp  int64     `json:"timestamp"`
}

type player struct {
	index      int
	pos        Position
	prev       *Position
	damage     int
	progress   lapProgress
	eliminated bool
	trajectory []Position
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithLogger sets the logger used for engine diagnostics
func WithLogger(l Logger) Option {
	return func(e *GameEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces time.Now for history timestamps
func WithClock(now func() time.Time) Option {
	return func(e *GameEngine) {
		e.now = now
	}
}

// GameEngine implements the Engine interface. It is not safe for concurrent use.
type GameEngine struct {
	config   *TrackConfig
	track    *Track
	messages Messages
	logger   Logger
	now      func() time.Time

	state    MatchState
	settings Settings
	players  []*player
	active   int
	turn     int
	winner   int
	eval     *Evaluation
	message  string
	history  []MoveHistoryEntry
}

// NewEngine validates the track and returns an engine in the NOGAME state
func NewEngine(config *TrackConfig, opts ...Option) (*GameEngine, error) {
	track, err := ValidateTrackConfig(config)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:   config,
		track:    track,
		messages: config.Messages.withDefaults(),
		logger:   NopLogger(),
		now:      time.Now,
		state:    NoGame,
		settings: DefaultSettings(),
		winner:   -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.message = e.messages.Welcome

	return e, nil
}

// NewMatch builds an engine, applies settings and starts play in one step
func NewMatch(config *TrackConfig, settings Settings, opts ...Option) (*GameEngine, error) {
	e, err := NewEngine(config, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.NewGame(); err != nil {
		return nil, err
	}
	if err := e.Configure(settings); err != nil {
		return nil, err
	}
	if err := e.Start(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewGame moves from NOGAME or ENDGAME into PREGAME
func (e *GameEngine) NewGame() error {
	if e.state != NoGame && e.state != EndGame {
		return fmt.Errorf("%w: new game from %s", ErrInvalidState, e.state)
	}
	e.state = PreGame
	e.winner = -1
	e.eval = nil
	e.resetBoard()
	e.message = e.messages.Welcome
	e.logger.Debug("new game", "track", e.config.Name)
	return nil
}

// Configure changes the settings while in PREGAME
func (e *GameEngine) Configure(settings Settings) error {
	if e.state != PreGame {
		return fmt.Errorf("%w: configure in %s", ErrInvalidState, e.state)
	}
	if err := ValidateSettings(settings); err != nil {
		return err
	}
	e.settings = settings
	e.resetBoard()
	return nil
}

// Start begins play with the first player
func (e *GameEngine) Start() error {
	if e.state != PreGame {
		return fmt.Errorf("%w: start in %s", ErrInvalidState, e.state)
	}

	e.resetBoard()
	e.players = make([]*player, e.settings.Players)
	for i := range e.players {
		start := e.track.Start(i)
		e.players[i] = &player{
			index:      i,
			pos:        start,
			trajectory: []Position{start},
		}
	}
	e.active = 0
	e.turn = 1
	e.winner = -1
	e.history = nil
	e.state = InGame
	e.message = e.messages.Start

	e.logger.Info("match started",
		"track", e.config.Name,
		"players", e.settings.Players,
		"damage_max", e.settings.DamageMax,
		"laps", e.settings.Laps)

	var events []Event
	e.beginTurn(&events)
	return nil
}

// Restart abandons the running match and returns to PREGAME
func (e *GameEngine) Restart() error {
	if e.state != InGame {
		return fmt.Errorf("%w: restart in %s", ErrInvalidState, e.state)
	}
	e.state = PreGame
	e.eval = nil
	e.resetBoard()
	e.message = e.messages.Welcome
	return nil
}

// resetBoard clears overlays and removes the cars of unused seats
func (e *GameEngine) resetBoard() {
	e.track.Reset()
	for i := e.settings.Players; i < MaxPlayers; i++ {
		e.track.ForEach(e.track.Start(i), func(c *Cell) { c.Type = c.BaseType })
	}
}

// State returns the lifecycle state
func (e *GameEngine) State() MatchState {
	return e.state
}

// Settings returns the configured options
func (e *GameEngine) Settings() Settings {
	return e.settings
}

// ActivePlayer returns the 0-based index of the player to move
func (e *GameEngine) ActivePlayer() int {
	return e.active
}

// Turn returns the rotation counter, starting at 1
func (e *GameEngine) Turn() int {
	return e.turn
}

// Winner returns the winning player index or -1
func (e *GameEngine) Winner() int {
	return e.winner
}

// Message returns the latest status text
func (e *GameEngine) Message() string {
	return e.message
}

// Messages returns the event texts in effect, overrides merged with defaults
func (e *GameEngine) Messages() Messages {
	return e.messages
}

// Track exposes the grid for read access
func (e *GameEngine) Track() *Track {
	return e.track
}

// Config returns the track definition the engine was built from
func (e *GameEngine) Config() *TrackConfig {
	return e.config
}

// Player returns the stats of one player
func (e *GameEngine) Player(index int) (PlayerStats, bool) {
	if index < 0 || index >= len(e.players) {
		return PlayerStats{}, false
	}
	return e.players[index].stats(), true
}

// Players returns the stats of every seated player
func (e *GameEngine) Players() []PlayerStats {
	out := make([]PlayerStats, len(e.players))
	for i, p := range e.players {
		out[i] = p.stats()
	}
	return out
}

// Targets returns the cells the active player may submit
func (e *GameEngine) Targets() []Cell {
	return Targets(e.track)
}

// GetMoveHistory returns every resolved turn of the current match
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// Snapshot returns a serializable copy of the match
func (e *GameEngine) Snapshot() *GameState {
	legend := make(map[CellType]LegendEntry, len(cellTypes))
	for t, info := range cellTypes {
		legend[t] = LegendEntry{Code: string(info.Code), Color: info.Color, HoverColor: info.HoverColor}
	}

	targets := e.Targets()
	if targets == nil {
		targets = []Cell{}
	}

	return &GameState{
		TrackName:    e.config.Name,
		State:        e.state,
		Settings:     e.settings,
		Checkpoints:  e.track.Checkpoints(),
		Turn:         e.turn,
		ActivePlayer: e.active,
		Winner:       e.winner,
		Players:      e.Players(),
		Targets:      targets,
		Grid:         e.track.Codes(),
		Labels:       e.config.Labels,
		Legend:       legend,
		Message:      e.message,
	}
}

func (p *player) stats() PlayerStats {
	var prev *Position
	if p.prev != nil {
		cp := *p.prev
		prev = &cp
	}
	traj := make([]Position, len(p.trajectory))
	copy(traj, p.trajectory)

	return PlayerStats{
		Index:      p.index,
		Car:        CarType(p.index),
		Position:   p.pos,
		Previous:   prev,
		Damage:     p.damage,
		Lap:        p.progress.Lap,
		Checkpoint: p.progress.Checkpoint,
		Speed:      Speed(p.prev, p.pos),
		Eliminated: p.eliminated,
		Trajectory: traj,
	}
}
