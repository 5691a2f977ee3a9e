// Command analyze prints quick, human-readable statistics about track files:
// drivable surface, checkpoint cells per index, grid slots, the widest and
// narrowest rows of track, and decorative labels.
//
// Usage:
//
//	go run ./cmd/analyze configs/lucky_s.json
//	go run ./cmd/analyze            # every configs/*.json
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wricardo/mcp-training/graphracers/game/engine"
)

// RowWidth is the number of drivable cells in one grid row
type RowWidth struct {
	Row   int
	Cells int
}

// Analysis summarizes one track
type Analysis struct {
	Name        string
	Checkpoints int
	Surface     int
	// CheckpointCells is indexed by checkpoint number, 0 being the start/finish line
	CheckpointCells []int
	Starts          []engine.Position
	Widest          RowWidth
	Narrowest       RowWidth
	Labels          []engine.Label
}

func main() {
	files := os.Args[1:]
	if len(files) == 0 {
		var err error
		if files, err = filepath.Glob(filepath.Join("configs", "*.json")); err != nil || len(files) == 0 {
			fmt.Println("Usage: analyze <track.json>...")
			os.Exit(1)
		}
	}

	failed := false
	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analysis, err := analyzeFile(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			failed = true
			continue
		}
		printAnalysis(os.Stdout, analysis)
	}
	if failed {
		os.Exit(1)
	}
}

func analyzeFile(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var config engine.TrackConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return analyzeTrack(&config)
}

func analyzeTrack(config *engine.TrackConfig) (*Analysis, error) {
	track, err := engine.ValidateTrackConfig(config)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:            config.Name,
		Checkpoints:     config.Checkpoints,
		CheckpointCells: make([]int, config.Checkpoints+1),
		Labels:          config.Labels,
		Narrowest:       RowWidth{Row: -1},
		Widest:          RowWidth{Row: -1},
	}

	widths := make([]int, engine.Rows)
	track.All(func(c *engine.Cell) {
		if !c.BaseType.IsSurface() {
			return
		}
		a.Surface++
		widths[c.Y]++
		if idx := c.BaseType.CheckpointIndex(); idx >= 0 && idx < len(a.CheckpointCells) {
			a.CheckpointCells[idx]++
		}
	})

	for y, w := range widths {
		if w == 0 {
			continue
		}
		if a.Widest.Row < 0 || w > a.Widest.Cells {
			a.Widest = RowWidth{Row: y, Cells: w}
		}
		if a.Narrowest.Row < 0 || w < a.Narrowest.Cells {
			a.Narrowest = RowWidth{Row: y, Cells: w}
		}
	}

	for i := 0; i < engine.MaxPlayers; i++ {
		a.Starts = append(a.Starts, track.Start(i))
	}
	return a, nil
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Grid: %d x %d\n", engine.Cols, engine.Rows)
	fmt.Fprintf(w, "Surface cells: %d (%.1f%%)\n", a.Surface, 100*float64(a.Surface)/float64(engine.Cols*engine.Rows))
	fmt.Fprintf(w, "Start/finish cells: %d\n", a.CheckpointCells[0])
	for i := 1; i < len(a.CheckpointCells); i++ {
		fmt.Fprintf(w, "Checkpoint %d cells: %d\n", i, a.CheckpointCells[i])
	}
	for i, p := range a.Starts {
		fmt.Fprintf(w, "P%d starts at (%d, %d)\n", i+1, p.X, p.Y)
	}
	fmt.Fprintf(w, "Widest row: %d (%d cells)\n", a.Widest.Row, a.Widest.Cells)
	fmt.Fprintf(w, "Narrowest row: %d (%d cells)\n", a.Narrowest.Row, a.Narrowest.Cells)
	if a.Narrowest.Cells < 3 {
		fmt.Fprintf(w, "⚠️  Row %d is only %d cells wide\n", a.Narrowest.Row, a.Narrowest.Cells)
	}

	fmt.Fprintf(w, "Labels: %d\n", len(a.Labels))
	for _, l := range a.Labels {
		fmt.Fprintf(w, "   (%d, %d) %q\n", l.X, l.Y, l.Text)
	}
}
