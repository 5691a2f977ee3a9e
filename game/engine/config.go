package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMessages returns the stock event texts
func DefaultMessages() Messages {
	return Messages{
		Welcome:          "Welcome, Graph Racers!",
		Start:            "Graph Racers, start your engines!",
		NoLegalMoves:     "No legal moves! Your turn is skipped, you get 1 damage, and you must start at 0 speed.",
		SevereCrash:      "That would be a severe crash! Your turn is skipped, you get 2 damage, and you must start at 0 speed.",
		Crash:            "You crashed! You're back on course, but you get 1 damage and must start your next turn at 0 speed.",
		Eliminated:       "Your car 'sploded! Your game is over.",
		AllEliminated:    "You ALL 'sploded!? This game is over and no one wins. What a shame.",
		Win:              "You win!",
		LapStarted:       "And you're off! Lap 1 has begun.",
		LapCompleted:     "Lap complete!",
		Checkpoint:       "Checkpoint!",
		MissedCheckpoint: "You missed a checkpoint!",
		WrongWay:         "Wrong way!",
		LapVoided:        "You skipped a checkpoint, so that lap doesn't count.",
	}
}

// withDefaults fills every empty message from DefaultMessages
func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.Welcome, d.Welcome)
	fill(&m.Start, d.Start)
	fill(&m.NoLegalMoves, d.NoLegalMoves)
	fill(&m.SevereCrash, d.SevereCrash)
	fill(&m.Crash, d.Crash)
	fill(&m.Eliminated, d.Eliminated)
	fill(&m.AllEliminated, d.AllEliminated)
	fill(&m.Win, d.Win)
	fill(&m.LapStarted, d.LapStarted)
	fill(&m.LapCompleted, d.LapCompleted)
	fill(&m.Checkpoint, d.Checkpoint)
	fill(&m.MissedCheckpoint, d.MissedCheckpoint)
	fill(&m.WrongWay, d.WrongWay)
	fill(&m.LapVoided, d.LapVoided)
	return m
}

// ValidateTrackConfig checks a track definition and returns the parsed track.
// Structural problems come back as *InvalidTrackError.
func ValidateTrackConfig(config *TrackConfig) (*Track, error) {
	if config == nil {
		return nil, fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return nil, fmt.Errorf("config validation: name is required")
	}

	track, err := ParseTrack(config.Layout, config.Checkpoints)
	if err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	for i, l := range config.Labels {
		if !track.InBounds(Position{X: l.X, Y: l.Y}) {
			return nil, fmt.Errorf("config validation: label %d at (%d, %d) is off the grid", i, l.X, l.Y)
		}
	}

	// every checkpoint index a lap needs must exist on the layout
	for idx := 1; idx <= config.Checkpoints; idx++ {
		want := idx
		if len(track.Filter(func(c *Cell) bool { return c.BaseType.CheckpointIndex() == want })) == 0 {
			return nil, fmt.Errorf("config validation: layout has no cells for checkpoint %d", idx)
		}
	}

	return track, nil
}

// ValidateSettings checks per-match options
func ValidateSettings(s Settings) error {
	if s.Players < MinPlayers || s.Players > MaxPlayers {
		return fmt.Errorf("%w: players must be between %d and %d, got %d", ErrInvalidSettings, MinPlayers, MaxPlayers, s.Players)
	}
	if s.DamageMax < MinDamageMax || s.DamageMax > MaxDamageMax {
		return fmt.Errorf("%w: damage_max must be between %d and %d, got %d", ErrInvalidSettings, MinDamageMax, MaxDamageMax, s.DamageMax)
	}
	if s.Laps < MinLaps || s.Laps > MaxLaps {
		return fmt.Errorf("%w: laps must be between %d and %d, got %d", ErrInvalidSettings, MinLaps, MaxLaps, s.Laps)
	}
	return nil
}

// LoadTrackConfig loads a track definition from a JSON file
func LoadTrackConfig(filename string) (*TrackConfig, error) {
	// CONFIG_DIR swaps out the default configs/ directory
	path := filename
	if dir := os.Getenv("CONFIG_DIR"); dir != "" && strings.HasPrefix(filename, "configs/") {
		path = filepath.Join(dir, strings.TrimPrefix(filename, "configs/"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config TrackConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse track file '%s': %w", filename, err)
	}
	if _, err := ValidateTrackConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadTrackByName loads configs/<name>.json
func LoadTrackByName(name string) (*TrackConfig, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	return LoadTrackConfig(filepath.Join("configs", name))
}
