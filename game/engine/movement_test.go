package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestSubmitMove_IllegalLeavesStateUntouched(t *testing.T) {
	e := newTestMatch(t, DefaultSettings())
	before := e.Snapshot()

	tests := []struct {
		name string
		at   Position
	}{
		{"plain track far away", Position{X: 5, Y: 30}},
		{"occupied cell", Position{X: 20, Y: 32}},
		{"own cell", Position{X: 20, Y: 31}},
		{"off the grid", Position{X: -1, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.SubmitMove(tt.at)
			if !errors.Is(err, ErrIllegalMove) {
				t.Fatalf("Expected ErrIllegalMove, got %v", err)
			}
			var moveErr *IllegalMoveError
			if !errors.As(err, &moveErr) || moveErr.Position != tt.at {
				t.Errorf("Expected IllegalMoveError for %v, got %v", tt.at, err)
			}
		})
	}

	after := e.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Error("Expected rejected moves to leave the match unchanged")
	}
}

func TestSubmitMove_Crash(t *testing.T) {
	e := newTestMatch(t, DefaultSettings())
	place(e, 0, Position{X: 3, Y: 5}, pos(1, 5))
	retarget(e)

	outcome, err := e.SubmitMove(Position{X: 6, Y: 5})
	if err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	if outcome.Kind != EventCrash {
		t.Errorf("Expected crash, got %s", outcome.Kind)
	}
	if outcome.To != (Position{X: 4, Y: 5}) {
		t.Errorf("Expected recovery at (4,5), got %v", outcome.To)
	}
	if outcome.Speed != 0 {
		t.Errorf("Expected speed 0 after a crash, got %v", outcome.Speed)
	}

	p, _ := e.Player(0)
	if p.Damage != 1 {
		t.Errorf("Expected 1 damage, got %d", p.Damage)
	}
	if p.Previous == nil || *p.Previous != p.Position {
		t.Errorf("Expected previous to equal position after a crash, got %v", p.Previous)
	}

	c, _ := e.Track().Cell(4, 5)
	if c.Type != Car1 {
		t.Errorf("Expected car 1 at recovery cell, got %s", c.Type)
	}
	c, _ = e.Track().Cell(3, 5)
	if c.Type.IsCar() {
		t.Error("Expected old cell to be vacated")
	}
	if e.ActivePlayer() != 1 {
		t.Errorf("Expected turn to pass, got %d", e.ActivePlayer())
	}
	if outcome.Events[0].Message != DefaultMessages().Crash {
		t.Errorf("Expected crash message, got %q", outcome.Events[0].Message)
	}
}

func TestSubmitMove_CrashEliminates(t *testing.T) {
	e := newTestMatch(t, Settings{Players: 2, DamageMax: 1, Laps: 1})
	place(e, 0, Position{X: 3, Y: 5}, pos(1, 5))
	retarget(e)

	outcome, err := e.SubmitMove(Position{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	p, _ := e.Player(0)
	if !p.Eliminated {
		t.Fatal("Expected player to be eliminated")
	}
	if p.Position != (Position{X: 3, Y: 5}) {
		t.Errorf("Expected eliminated car to stay put, got %v", p.Position)
	}
	if e.Track().Count(Car1) != 0 {
		t.Error("Expected car 1 to be removed from the board")
	}

	found := false
	for _, ev := range outcome.Events {
		if ev.Type == EventEliminated {
			found = true
		}
	}
	if !found {
		t.Error("Expected an elimination event")
	}
	if e.ActivePlayer() != 1 || e.State() != InGame {
		t.Errorf("Expected player 2 to continue, got active %d state %s", e.ActivePlayer(), e.State())
	}
}

func TestSubmitMove_SevereCrashTarget(t *testing.T) {
	e := newTestMatch(t, DefaultSettings())
	place(e, 0, Position{X: 4, Y: 5}, pos(3, 5))
	retarget(e)

	outcome, err := e.SubmitMove(Position{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	if outcome.Kind != EventSevereCrash {
		t.Errorf("Expected severe crash, got %s", outcome.Kind)
	}
	p, _ := e.Player(0)
	if p.Damage != 2 {
		t.Errorf("Expected 2 damage, got %d", p.Damage)
	}
	if p.Position != (Position{X: 4, Y: 5}) || p.Speed != 0 {
		t.Errorf("Expected car to stay at (4,5) with speed 0, got %v speed %v", p.Position, p.Speed)
	}
}

func TestSubmitMove_CheckpointProgress(t *testing.T) {
	e := newTestMatch(t, Settings{Players: 1, DamageMax: 3, Laps: 1})
	place(e, 0, Position{X: 32, Y: 22}, pos(32, 24))
	retarget(e)

	outcome, err := e.SubmitMove(Position{X: 32, Y: 20})
	if err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	p, _ := e.Player(0)
	if p.Checkpoint != 1 {
		t.Errorf("Expected checkpoint 1, got %d", p.Checkpoint)
	}
	if outcome.Events[1].Type != EventCheckpoint {
		t.Errorf("Expected checkpoint event, got %+v", outcome.Events)
	}
}

func TestSubmitMove_WrongWay(t *testing.T) {
	e := newTestMatch(t, Settings{Players: 1, DamageMax: 3, Laps: 1})
	place(e, 0, Position{X: 5, Y: 22}, pos(5, 24))
	retarget(e)

	if _, err := e.SubmitMove(Position{X: 5, Y: 20}); err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	p, _ := e.Player(0)
	if p.Checkpoint != 2 {
		t.Errorf("Expected wrong way to record checkpoint 2, got %d", p.Checkpoint)
	}
	if e.Message() != DefaultMessages().WrongWay {
		t.Errorf("Expected wrong way message, got %q", e.Message())
	}
}
