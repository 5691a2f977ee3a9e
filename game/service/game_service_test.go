package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/graphracers/game/config"
	"github.com/wricardo/mcp-training/graphracers/game/engine"
	"github.com/wricardo/mcp-training/graphracers/game/service"
	"github.com/wricardo/mcp-training/graphracers/game/session"
)

func newTestService(t *testing.T, opts ...service.Option) (service.GameService, *session.Manager) {
	t.Helper()
	tracks, err := config.NewManager("../../configs", "")
	if err != nil {
		t.Fatalf("Failed to create track catalog: %v", err)
	}
	sessions := session.NewManager()
	svc, err := service.NewGameService(sessions, tracks, opts...)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return svc, sessions
}

func TestMatchOptions_Settings(t *testing.T) {
	tests := []struct {
		opts service.MatchOptions
		want engine.Settings
	}{
		{service.MatchOptions{}, engine.DefaultSettings()},
		{service.MatchOptions{Players: 4}, engine.Settings{Players: 4, DamageMax: 3, Laps: 1}},
		{service.MatchOptions{DamageMax: 5, Laps: 3}, engine.Settings{Players: 2, DamageMax: 5, Laps: 3}},
	}
	for _, tt := range tests {
		if got := tt.opts.Settings(); got != tt.want {
			t.Errorf("%+v: expected %+v, got %+v", tt.opts, tt.want, got)
		}
	}
}

func TestGameService_CreateMatch(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name      string
		opts      service.MatchOptions
		wantTrack string
		wantErr   error
	}{
		{name: "default track", opts: service.MatchOptions{}, wantTrack: "river_wild"},
		{name: "specific track", opts: service.MatchOptions{Track: "lucky_s", Players: 4, Laps: 2}, wantTrack: "lucky_s"},
		{name: "unknown track", opts: service.MatchOptions{Track: "nonexistent"}, wantErr: config.ErrConfigNotFound},
		{name: "too many players", opts: service.MatchOptions{Players: 5}, wantErr: engine.ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.CreateMatch(ctx, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateMatch failed: %v", err)
			}
			if info.TrackID != tt.wantTrack {
				t.Errorf("Expected track %s, got %s", tt.wantTrack, info.TrackID)
			}
			if info.GameState == nil || info.GameState.State != engine.InGame {
				t.Error("Expected a running match")
			}
			if info.Settings != tt.opts.Settings() {
				t.Errorf("Expected settings %+v, got %+v", tt.opts.Settings(), info.Settings)
			}
		})
	}
}

func TestGameService_UnknownTrackListsAvailable(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateMatch(context.Background(), service.MatchOptions{Track: "monaco"})
	if err == nil {
		t.Fatal("Expected error")
	}
	want := "track 'monaco' (available tracks: [ampersandy captain_hook donut_hole lucky_s river_wild])"
	if got := err.Error(); len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("Unexpected error text %q", got)
	}
}

func TestGameService_SubmitMove(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, service.WithClock(func() time.Time { return clock }))

	info, err := svc.CreateMatch(ctx, service.MatchOptions{})
	if err != nil {
		t.Fatalf("Failed to create match: %v", err)
	}

	t.Run("illegal move", func(t *testing.T) {
		_, err := svc.SubmitMove(ctx, info.ID, engine.Position{X: 2, Y: 2})
		if !errors.Is(err, engine.ErrIllegalMove) {
			t.Errorf("Expected ErrIllegalMove, got %v", err)
		}
		var moveErr *engine.IllegalMoveError
		if !errors.As(err, &moveErr) {
			t.Errorf("Expected *IllegalMoveError, got %T", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.SubmitMove(ctx, "zzzz", engine.Position{X: 24, Y: 35})
		if !errors.Is(err, session.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("legal move", func(t *testing.T) {
		result, err := svc.SubmitMove(ctx, info.ID, engine.Position{X: 24, Y: 35})
		if err != nil {
			t.Fatalf("SubmitMove failed: %v", err)
		}
		if !result.Success || result.Kind != engine.EventMove {
			t.Errorf("Expected successful move, got %+v", result)
		}
		if result.Player != 0 || result.To != (engine.Position{X: 24, Y: 35}) || result.Speed != 1 {
			t.Errorf("Unexpected outcome %+v", result)
		}
		if result.GameState.ActivePlayer != 1 {
			t.Errorf("Expected player 2 to be active, got %d", result.GameState.ActivePlayer)
		}
		if len(result.Events) == 0 {
			t.Fatal("Expected events")
		}
		for _, ev := range result.Events {
			if _, err := uuid.Parse(ev.ID); err != nil {
				t.Errorf("Expected UUID event ID, got %q", ev.ID)
			}
			if !ev.Timestamp.Equal(clock) {
				t.Errorf("Expected timestamp %v, got %v", clock, ev.Timestamp)
			}
		}
		if result.Events[0].Type != engine.EventMove {
			t.Errorf("Expected move event first, got %s", result.Events[0].Type)
		}
	})
}

func TestGameService_Restart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, _ := svc.CreateMatch(ctx, service.MatchOptions{Players: 3, DamageMax: 4})
	if _, err := svc.SubmitMove(ctx, info.ID, engine.Position{X: 24, Y: 35}); err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}

	state, err := svc.Restart(ctx, info.ID)
	if err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	if state.State != engine.InGame || state.ActivePlayer != 0 || state.Turn != 1 {
		t.Errorf("Expected a fresh match, got state %s player %d turn %d", state.State, state.ActivePlayer, state.Turn)
	}
	if state.Settings.Players != 3 || state.Settings.DamageMax != 4 {
		t.Errorf("Expected settings to be kept, got %+v", state.Settings)
	}
	if state.Players[0].Position != (engine.Position{X: 23, Y: 35}) {
		t.Errorf("Expected player 1 back on the grid, got %+v", state.Players[0].Position)
	}

	history, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{})
	if history.TotalMoves != 0 {
		t.Errorf("Expected history to be cleared, got %d", history.TotalMoves)
	}

	if _, err := svc.Restart(ctx, "zzzz"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameService_StateAndTargets(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info, _ := svc.CreateMatch(ctx, service.MatchOptions{Track: "donut_hole"})

	state, err := svc.GetState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.TrackName != "Donut Hole" || len(state.Grid) != engine.Rows {
		t.Errorf("Unexpected state %s with %d rows", state.TrackName, len(state.Grid))
	}

	targets, err := svc.GetTargets(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetTargets failed: %v", err)
	}
	if len(targets) != len(state.Targets) || len(targets) == 0 {
		t.Errorf("Expected %d targets, got %d", len(state.Targets), len(targets))
	}
	for _, c := range targets {
		if !c.Type.IsTarget() {
			t.Errorf("Expected target cell, got %s at (%d,%d)", c.Type, c.X, c.Y)
		}
	}

	if _, err := svc.GetState(ctx, "zzzz"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if _, err := svc.GetTargets(ctx, "zzzz"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

// playMoves makes n slow moves, always taking the painted target closest to
// the active car
func playMoves(t *testing.T, svc service.GameService, id string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		state, err := svc.GetState(ctx, id)
		if err != nil {
			t.Fatalf("Move %d: %v", i, err)
		}
		cur := state.Players[state.ActivePlayer].Position

		var pick *engine.Cell
		best := 0
		for j, c := range state.Targets {
			if c.Type != engine.Target {
				continue
			}
			d := (c.X-cur.X)*(c.X-cur.X) + (c.Y-cur.Y)*(c.Y-cur.Y)
			if pick == nil || d < best {
				pick, best = &state.Targets[j], d
			}
		}
		if pick == nil {
			t.Fatalf("Move %d: no open targets", i)
		}
		if _, err := svc.SubmitMove(ctx, id, engine.Position{X: pick.X, Y: pick.Y}); err != nil {
			t.Fatalf("Move %d failed: %v", i, err)
		}
	}
}

func TestGameService_GetMoveHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info, _ := svc.CreateMatch(ctx, service.MatchOptions{Players: 2, DamageMax: 9})
	playMoves(t, svc, info.ID, 5)

	tests := []struct {
		name      string
		opts      service.HistoryOptions
		wantMoves []int
		wantPages int
		hasNext   bool
		hasPrev   bool
	}{
		{"defaults are newest first", service.HistoryOptions{}, []int{5, 4, 3, 2, 1}, 1, false, false},
		{"ascending", service.HistoryOptions{Order: "asc"}, []int{1, 2, 3, 4, 5}, 1, false, false},
		{"first page", service.HistoryOptions{Limit: 2, Order: "asc"}, []int{1, 2}, 3, true, false},
		{"last page", service.HistoryOptions{Page: 3, Limit: 2, Order: "asc"}, []int{5}, 3, false, true},
		{"descending middle page", service.HistoryOptions{Page: 2, Limit: 2}, []int{3, 2}, 3, true, true},
		{"past the end", service.HistoryOptions{Page: 9, Limit: 2}, []int{}, 3, false, true},
		{"limit is capped", service.HistoryOptions{Limit: 1000}, []int{5, 4, 3, 2, 1}, 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetMoveHistory(ctx, info.ID, tt.opts)
			if err != nil {
				t.Fatalf("GetMoveHistory failed: %v", err)
			}
			if resp.TotalMoves != 5 {
				t.Errorf("Expected 5 moves, got %d", resp.TotalMoves)
			}
			got := make([]int, 0, len(resp.Moves))
			for _, m := range resp.Moves {
				got = append(got, m.MoveNumber)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.wantMoves) {
				t.Errorf("Expected moves %v, got %v", tt.wantMoves, got)
			}
			if resp.TotalPages != tt.wantPages || resp.HasNext != tt.hasNext || resp.HasPrevious != tt.hasPrev {
				t.Errorf("Unexpected paging %+v", resp)
			}
		})
	}

	resp, _ := svc.GetMoveHistory(ctx, info.ID, service.HistoryOptions{Limit: 1000})
	if resp.PageSize != 100 {
		t.Errorf("Expected page size capped at 100, got %d", resp.PageSize)
	}
}

func TestGameService_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService(t)

	a, _ := svc.CreateMatch(ctx, service.MatchOptions{})
	b, _ := svc.CreateMatch(ctx, service.MatchOptions{Track: "ampersandy"})

	list, err := svc.ListSessions(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("Expected 2 sessions, got %d (%v)", len(list), err)
	}

	got, err := svc.GetSession(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.TrackName != "Ampersandy" {
		t.Errorf("Expected Ampersandy, got %s", got.TrackName)
	}

	if err := svc.DeleteSession(ctx, a.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if sessions.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", sessions.Count())
	}
	if _, err := svc.GetSession(ctx, a.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if err := svc.DeleteSession(ctx, a.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestGameService_Tracks(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tracks, err := svc.ListTracks(ctx)
	if err != nil || len(tracks) != 5 {
		t.Fatalf("Expected 5 tracks, got %d (%v)", len(tracks), err)
	}

	track, err := svc.GetTrack(ctx, "captain_hook")
	if err != nil {
		t.Fatalf("GetTrack failed: %v", err)
	}
	if track.Checkpoints != 3 {
		t.Errorf("Expected 3 checkpoints, got %d", track.Checkpoints)
	}

	if _, err := svc.GetTrack(ctx, "monaco"); !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestGameService_SaveTrack(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	data, err := os.ReadFile("../../configs/donut_hole.json")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "donut_hole.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	tracks, err := config.NewManager(dir, "donut_hole")
	if err != nil {
		t.Fatalf("Failed to create track catalog: %v", err)
	}
	svc, err := service.NewGameService(session.NewManager(), tracks)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	source := tracks.GetDefault()

	custom := *source
	custom.Name = "Custom Donut"
	if err := svc.SaveTrack(ctx, "custom", &custom); err != nil {
		t.Fatalf("SaveTrack failed: %v", err)
	}
	info, err := svc.CreateMatch(ctx, service.MatchOptions{Track: "custom"})
	if err != nil {
		t.Fatalf("CreateMatch on saved track failed: %v", err)
	}
	if info.TrackName != "Custom Donut" {
		t.Errorf("Expected Custom Donut, got %s", info.TrackName)
	}

	bad := custom
	bad.Checkpoints = 0
	bad.Layout = nil
	if err := svc.SaveTrack(ctx, "bad", &bad); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestGameService_MatchIDChangesOnRestart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	info, err := svc.CreateMatch(ctx, service.MatchOptions{})
	if err != nil {
		t.Fatalf("CreateMatch failed: %v", err)
	}
	if _, err := uuid.Parse(info.MatchID); err != nil {
		t.Fatalf("Expected a UUID match ID, got %q", info.MatchID)
	}

	if _, err := svc.Restart(ctx, info.ID); err != nil {
		t.Fatalf("Restart failed: %v", err)
	}
	after, _ := svc.GetSession(ctx, info.ID)
	if after.MatchID == info.MatchID || after.MatchID == "" {
		t.Errorf("Expected a new match ID after restart, got %q", after.MatchID)
	}
	if after.ID != info.ID {
		t.Errorf("Expected the session ID to stay %s, got %s", info.ID, after.ID)
	}
}

func TestGameService_ConcurrentMoves(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	info, _ := svc.CreateMatch(ctx, service.MatchOptions{Players: 4, DamageMax: 9})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			targets, err := svc.GetTargets(ctx, info.ID)
			if err != nil || len(targets) == 0 {
				return
			}
			// Racing submissions: losers see an illegal move, never a corrupt board
			svc.SubmitMove(ctx, info.ID, engine.Position{X: targets[0].X, Y: targets[0].Y})
			svc.GetState(ctx, info.ID)
		}()
	}
	wg.Wait()

	state, err := svc.GetState(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	cars := 0
	for _, row := range state.Grid {
		for _, ch := range row {
			if ch >= '1' && ch <= '4' {
				cars++
			}
		}
	}
	if cars != 4 {
		t.Errorf("Expected 4 cars on the board, got %d", cars)
	}
}
