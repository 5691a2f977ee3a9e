package engine

import (
	"bytes"
	"errors"
	"testing"
)

// ringLayout is an open field with an X border, a block in the middle, a
// start line at column 20 below the block, checkpoint 1 to the right of the
// block and checkpoint 2 to the left. A single X pillar sits at (5,5).
func ringLayout() []string {
	grid := make([][]byte, Rows)
	for y := range grid {
		grid[y] = bytes.Repeat([]byte{'.'}, Cols)
		grid[y][0], grid[y][Cols-1] = 'X', 'X'
	}
	for x := 0; x < Cols; x++ {
		grid[0][x], grid[Rows-1][x] = 'X', 'X'
	}
	for y := 10; y <= 28; y++ {
		for x := 12; x <= 28; x++ {
			grid[y][x] = 'X'
		}
	}
	for x := 29; x <= 38; x++ {
		grid[20][x] = 'q'
	}
	for x := 1; x <= 11; x++ {
		grid[20][x] = 'w'
	}
	grid[30][20] = 'S'
	grid[31][20] = '1'
	grid[32][20] = '2'
	grid[33][20] = '3'
	grid[34][20] = '4'
	grid[35][20] = 'S'
	grid[5][5] = 'X'

	rows := make([]string, Rows)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return rows
}

func createTestConfig() *TrackConfig {
	return &TrackConfig{
		Name:        "Test Ring",
		Description: "Ring around a central block",
		Checkpoints: 2,
		Layout:      ringLayout(),
	}
}

func newTestMatch(t *testing.T, settings Settings) *GameEngine {
	t.Helper()
	e, err := NewMatch(createTestConfig(), settings)
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}
	return e
}

// place puts a player on pos with the given previous cell, bypassing the rules
func place(e *GameEngine, idx int, pos Position, prev *Position) {
	p := e.players[idx]
	e.track.ForEach(p.pos, func(c *Cell) {
		if c.Type == CarType(idx) {
			c.Type = c.BaseType
		}
	})
	p.pos = pos
	p.prev = prev
	e.track.ForEach(pos, func(c *Cell) { c.Type = CarType(idx) })
}

// retarget clears the board and repaints targets for the active player
func retarget(e *GameEngine) []Event {
	ClearTargets(e.track)
	var events []Event
	e.beginTurn(&events)
	return events
}

func pos(x, y int) *Position {
	return &Position{X: x, Y: y}
}

func TestNewEngine(t *testing.T) {
	e, err := NewEngine(createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if e.State() != NoGame {
		t.Errorf("Expected state %s, got %s", NoGame, e.State())
	}
	if e.Message() != DefaultMessages().Welcome {
		t.Errorf("Expected welcome message, got %q", e.Message())
	}
	if e.Winner() != -1 {
		t.Errorf("Expected no winner, got %d", e.Winner())
	}
	if e.Track().Checkpoints() != 2 {
		t.Errorf("Expected 2 checkpoints, got %d", e.Track().Checkpoints())
	}
}

func TestNewEngine_InvalidTrack(t *testing.T) {
	config := createTestConfig()
	config.Layout = config.Layout[:39]

	_, err := NewEngine(config)
	if err == nil {
		t.Fatal("Expected error for short layout")
	}
	if !errors.Is(err, ErrInvalidTrack) {
		t.Errorf("Expected ErrInvalidTrack, got %v", err)
	}
	var trackErr *InvalidTrackError
	if !errors.As(err, &trackErr) || trackErr.Kind != TrackRows {
		t.Errorf("Expected rows InvalidTrackError, got %v", err)
	}
}

func TestEngine_Lifecycle(t *testing.T) {
	e, err := NewEngine(createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if err := e.Start(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState starting from NOGAME, got %v", err)
	}
	if err := e.Configure(DefaultSettings()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState configuring in NOGAME, got %v", err)
	}

	if err := e.NewGame(); err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if e.State() != PreGame {
		t.Errorf("Expected %s, got %s", PreGame, e.State())
	}

	t.Run("configure rejects bad settings", func(t *testing.T) {
		bad := []Settings{
			{Players: 0, DamageMax: 3, Laps: 1},
			{Players: 5, DamageMax: 3, Laps: 1},
			{Players: 2, DamageMax: 0, Laps: 1},
			{Players: 2, DamageMax: 3, Laps: 0},
			{Players: 2, DamageMax: 3, Laps: 10},
		}
		for _, s := range bad {
			if err := e.Configure(s); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Expected ErrInvalidSettings for %+v, got %v", s, err)
			}
		}
	})

	t.Run("unused seats are removed from the board", func(t *testing.T) {
		if err := e.Configure(Settings{Players: 3, DamageMax: 4, Laps: 2}); err != nil {
			t.Fatalf("Configure failed: %v", err)
		}
		if e.Track().Count(Car4) != 0 {
			t.Error("Expected car 4 to be removed for a 3 player game")
		}
		if e.Track().Count(Car3) != 1 {
			t.Error("Expected car 3 to stay on the board")
		}
		c, _ := e.Track().At(e.Track().Start(3))
		if c.Type != StartStop {
			t.Errorf("Expected car 4 start to revert to %s, got %s", StartStop, c.Type)
		}
	})

	if err := e.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if e.State() != InGame {
		t.Errorf("Expected %s, got %s", InGame, e.State())
	}
	if len(e.Players()) != 3 {
		t.Errorf("Expected 3 players, got %d", len(e.Players()))
	}
	if e.Turn() != 1 || e.ActivePlayer() != 0 {
		t.Errorf("Expected turn 1 player 0, got turn %d player %d", e.Turn(), e.ActivePlayer())
	}
	if len(e.Targets()) == 0 {
		t.Error("Expected targets for the first player")
	}

	if err := e.NewGame(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState for NewGame during play, got %v", err)
	}

	if err := e.Restart(); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if e.State() != PreGame {
		t.Errorf("Expected %s after restart, got %s", PreGame, e.State())
	}
	if len(e.Targets()) != 0 {
		t.Error("Expected targets to be cleared after restart")
	}
}

func TestEngine_StartPaintsFirstPlayer(t *testing.T) {
	e := newTestMatch(t, DefaultSettings())

	// Player 1 starts at (20,31) with no velocity: all neighbors but the one
	// holding player 2 are candidates.
	targets := e.Targets()
	if len(targets) != 7 {
		t.Fatalf("Expected 7 targets, got %d", len(targets))
	}
	for _, c := range targets {
		if c.Type != Target {
			t.Errorf("Expected open field neighbor (%d,%d) to be %s, got %s", c.X, c.Y, Target, c.Type)
		}
		if c.X == 20 && c.Y == 32 {
			t.Error("Occupied cell must never be painted")
		}
	}
}

func TestEngine_EndToEndRiverWild(t *testing.T) {
	config, err := LoadTrackConfig("../../configs/river_wild.json")
	if err != nil {
		t.Fatalf("Failed to load track: %v", err)
	}

	e, err := NewMatch(config, Settings{Players: 2, DamageMax: 3, Laps: 1})
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}

	p1, _ := e.Player(0)
	if p1.Position != (Position{X: 23, Y: 35}) {
		t.Fatalf("Expected player 1 at (23,35), got %+v", p1.Position)
	}
	if p1.Speed != 0 {
		t.Errorf("Expected initial speed 0, got %v", p1.Speed)
	}

	outcome, err := e.SubmitMove(Position{X: 24, Y: 35})
	if err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}
	if outcome.Kind != EventMove {
		t.Errorf("Expected move outcome, got %s", outcome.Kind)
	}
	if outcome.Speed == 0 {
		t.Error("Expected nonzero speed after moving")
	}
	started := false
	for _, ev := range outcome.Events {
		switch ev.Type {
		case EventCheckpoint, EventLapCompleted, EventLapVoided:
			t.Errorf("Expected no checkpoint crossing, got %s", ev.Type)
		case EventLapStarted:
			started = true
		}
	}
	if !started {
		t.Error("Expected leaving the start line to start lap 1")
	}

	if e.ActivePlayer() != 1 {
		t.Errorf("Expected player 2 to be active, got index %d", e.ActivePlayer())
	}
	for _, p := range e.Players() {
		if p.Damage != 0 || p.Lap != 0 || p.Checkpoint != 0 {
			t.Errorf("Player %d: expected clean stats, got damage %d lap %d checkpoint %d", p.Index, p.Damage, p.Lap, p.Checkpoint)
		}
	}

	p1, _ = e.Player(0)
	if p1.Speed != 1 {
		t.Errorf("Expected player 1 speed 1, got %v", p1.Speed)
	}
	if len(p1.Trajectory) != 2 {
		t.Errorf("Expected trajectory of 2 cells, got %d", len(p1.Trajectory))
	}
	c, _ := e.Track().Cell(23, 35)
	if c.Type.IsCar() {
		t.Errorf("Expected vacated start cell to be free, got %s", c.Type)
	}
	c, _ = e.Track().Cell(24, 35)
	if c.Type != Car1 {
		t.Errorf("Expected car 1 at (24,35), got %s", c.Type)
	}
}

func TestEngine_WinEndsMatch(t *testing.T) {
	e := newTestMatch(t, Settings{Players: 1, DamageMax: 3, Laps: 1})

	place(e, 0, Position{X: 22, Y: 32}, pos(23, 32))
	e.players[0].progress.Checkpoint = 2
	retarget(e)

	outcome, err := e.SubmitMove(Position{X: 20, Y: 32})
	if err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	if e.State() != EndGame {
		t.Fatalf("Expected %s, got %s", EndGame, e.State())
	}
	if e.Winner() != 0 {
		t.Errorf("Expected player 0 to win, got %d", e.Winner())
	}
	last := outcome.Events[len(outcome.Events)-1]
	if last.Type != EventWin {
		t.Errorf("Expected final event %s, got %s", EventWin, last.Type)
	}
	if e.Message() != DefaultMessages().Win {
		t.Errorf("Expected win message, got %q", e.Message())
	}
	if len(e.Targets()) != 0 {
		t.Error("Expected no targets once the match is over")
	}

	if _, err := e.SubmitMove(Position{X: 19, Y: 32}); !errors.Is(err, ErrMatchNotActive) {
		t.Errorf("Expected ErrMatchNotActive after the win, got %v", err)
	}

	if err := e.NewGame(); err != nil {
		t.Errorf("Expected NewGame to be allowed from %s, got %v", EndGame, err)
	}
}

func TestEngine_FinishWithoutCheckpointsVoidsLap(t *testing.T) {
	e := newTestMatch(t, Settings{Players: 1, DamageMax: 3, Laps: 1})

	place(e, 0, Position{X: 22, Y: 32}, pos(23, 32))
	e.players[0].progress.Checkpoint = 1
	retarget(e)

	outcome, err := e.SubmitMove(Position{X: 20, Y: 32})
	if err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	p, _ := e.Player(0)
	if p.Lap != 0 {
		t.Errorf("Expected lap to stay 0, got %d", p.Lap)
	}
	if p.Checkpoint != 0 {
		t.Errorf("Expected checkpoint progress reset to 0, got %d", p.Checkpoint)
	}
	if e.State() != InGame {
		t.Errorf("Expected match to continue, got %s", e.State())
	}

	voided := false
	for _, ev := range outcome.Events {
		if ev.Type == EventLapVoided {
			voided = true
		}
	}
	if !voided {
		t.Error("Expected a lap voided event")
	}
}

func TestEngine_Snapshot(t *testing.T) {
	e := newTestMatch(t, DefaultSettings())
	state := e.Snapshot()

	if state.TrackName != "Test Ring" {
		t.Errorf("Expected track name Test Ring, got %s", state.TrackName)
	}
	if len(state.Grid) != Rows || len(state.Grid[0]) != Cols {
		t.Errorf("Expected %dx%d grid, got %dx%d", Cols, Rows, len(state.Grid[0]), len(state.Grid))
	}
	if state.Grid[31][20] != '1' || state.Grid[32][20] != '2' {
		t.Errorf("Expected cars on the grid, got row 31 %q", state.Grid[31])
	}
	if state.Grid[33][20] != 'S' {
		t.Errorf("Expected unused seat to render as start line, got %q", state.Grid[33][20])
	}
	if len(state.Targets) != len(e.Targets()) {
		t.Errorf("Expected %d targets, got %d", len(e.Targets()), len(state.Targets))
	}
	if state.Legend[Target].Code != "T" || state.Legend[Target].Color != "#338800" {
		t.Errorf("Unexpected legend for target: %+v", state.Legend[Target])
	}
	if len(state.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(state.Players))
	}
}

func TestEngine_MoveHistory(t *testing.T) {
	e := newTestMatch(t, DefaultSettings())

	if _, err := e.SubmitMove(Position{X: 21, Y: 31}); err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}
	if _, err := e.SubmitMove(Position{X: 21, Y: 32}); err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	history := e.GetMoveHistory()
	if len(history) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(history))
	}
	if history[0].Player != 0 || history[1].Player != 1 {
		t.Errorf("Expected players 0 then 1, got %d then %d", history[0].Player, history[1].Player)
	}
	if history[1].MoveNumber != 2 {
		t.Errorf("Expected move number 2, got %d", history[1].MoveNumber)
	}
	if history[0].To != (Position{X: 21, Y: 31}) {
		t.Errorf("Unexpected destination %+v", history[0].To)
	}
	if e.Turn() != 2 {
		t.Errorf("Expected turn 2 after a full rotation, got %d", e.Turn())
	}
}
