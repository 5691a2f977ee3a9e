package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateTrackConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		track, err := ValidateTrackConfig(createTestConfig())
		if err != nil {
			t.Fatalf("Expected valid config, got %v", err)
		}
		if track.Checkpoints() != 2 {
			t.Errorf("Expected 2 checkpoints, got %d", track.Checkpoints())
		}
	})

	tests := []struct {
		name      string
		mutate    func(*TrackConfig)
		wantTrack bool
		contains  string
	}{
		{
			name:     "missing name",
			mutate:   func(c *TrackConfig) { c.Name = "" },
			contains: "name is required",
		},
		{
			name:      "short layout",
			mutate:    func(c *TrackConfig) { c.Layout = c.Layout[:20] },
			wantTrack: true,
			contains:  "rows = 20",
		},
		{
			name:      "too many checkpoints",
			mutate:    func(c *TrackConfig) { c.Checkpoints = 5 },
			wantTrack: true,
			contains:  "checkpoints = 5",
		},
		{
			name:     "checkpoint missing from layout",
			mutate:   func(c *TrackConfig) { c.Checkpoints = 3 },
			contains: "no cells for checkpoint 3",
		},
		{
			name:     "label off the grid",
			mutate:   func(c *TrackConfig) { c.Labels = []Label{{X: 2, Y: 2, Text: "ok"}, {X: 40, Y: 2, Text: "bad"}} },
			contains: "label 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := createTestConfig()
			tt.mutate(config)

			_, err := ValidateTrackConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %q", tt.contains, err.Error())
			}
			if got := errors.Is(err, ErrInvalidTrack); got != tt.wantTrack {
				t.Errorf("errors.Is(ErrInvalidTrack) = %v, want %v", got, tt.wantTrack)
			}
		})
	}

	if _, err := ValidateTrackConfig(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		settings Settings
		valid    bool
	}{
		{DefaultSettings(), true},
		{Settings{Players: 1, DamageMax: 1, Laps: 1}, true},
		{Settings{Players: 4, DamageMax: 9, Laps: 9}, true},
		{Settings{Players: 0, DamageMax: 3, Laps: 1}, false},
		{Settings{Players: 5, DamageMax: 3, Laps: 1}, false},
		{Settings{Players: 2, DamageMax: 10, Laps: 1}, false},
		{Settings{Players: 2, DamageMax: 3, Laps: -1}, false},
	}

	for _, tt := range tests {
		err := ValidateSettings(tt.settings)
		if tt.valid && err != nil {
			t.Errorf("%+v: unexpected error %v", tt.settings, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidSettings) {
			t.Errorf("%+v: expected ErrInvalidSettings, got %v", tt.settings, err)
		}
	}

	d := DefaultSettings()
	if d.Players != 2 || d.DamageMax != 3 || d.Laps != 1 {
		t.Errorf("Unexpected defaults %+v", d)
	}
}

func TestMessagesWithDefaults(t *testing.T) {
	config := createTestConfig()
	config.Messages = Messages{Win: "Checkered flag!"}

	e, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	if e.messages.Win != "Checkered flag!" {
		t.Errorf("Expected override to be kept, got %q", e.messages.Win)
	}
	if e.messages.Crash != DefaultMessages().Crash {
		t.Errorf("Expected default crash message, got %q", e.messages.Crash)
	}
}

func TestLoadTrackConfig_BundledTracks(t *testing.T) {
	tracks := map[string]int{
		"river_wild":   2,
		"donut_hole":   2,
		"ampersandy":   2,
		"captain_hook": 3,
		"lucky_s":      3,
	}

	for name, checkpoints := range tracks {
		t.Run(name, func(t *testing.T) {
			config, err := LoadTrackConfig(filepath.Join("..", "..", "configs", name+".json"))
			if err != nil {
				t.Fatalf("Failed to load %s: %v", name, err)
			}
			if config.Checkpoints != checkpoints {
				t.Errorf("Expected %d checkpoints, got %d", checkpoints, config.Checkpoints)
			}
			if config.Name == "" || len(config.Labels) == 0 {
				t.Errorf("Expected name and labels, got %q with %d labels", config.Name, len(config.Labels))
			}

			e, err := NewMatch(config, Settings{Players: 4, DamageMax: 3, Laps: 1})
			if err != nil {
				t.Fatalf("Failed to start match: %v", err)
			}
			if len(e.Targets()) == 0 {
				t.Error("Expected player 1 to have targets at the start")
			}
		})
	}
}

func TestLoadTrackConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTrackConfig(filepath.Join(dir, "missing.json")); !os.IsNotExist(err) {
		t.Errorf("Expected not exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadTrackConfig(bad)
	if err == nil || !strings.Contains(err.Error(), "failed to parse track file") {
		t.Errorf("Expected parse error, got %v", err)
	}
}

func TestLoadTrackByName_ConfigDir(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("..", "..", "configs", "donut_hole.json"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "practice.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONFIG_DIR", dir)

	config, err := LoadTrackByName("practice")
	if err != nil {
		t.Fatalf("LoadTrackByName failed: %v", err)
	}
	if config.Name != "Donut Hole" {
		t.Errorf("Expected Donut Hole, got %q", config.Name)
	}
}
