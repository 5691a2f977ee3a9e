// Command validate checks every track JSON file in a directory (../configs
// by default). For each file it checks:
//   - JSON structure and the engine's track rules (size, markers, checkpoints, labels)
//   - Connectivity: every car, every checkpoint index and the start/finish
//     line share one 8-connected region of drivable surface
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/graphracers/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateTrack loads and validates a single track file
func validateTrack(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.TrackConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if len(config.Layout) == 0 {
		result.fail("Layout is empty")
		return result
	}
	for i, row := range config.Layout {
		if len(row) != engine.Cols {
			result.fail("Row %d has %d cells, expected %d", i+1, len(row), engine.Cols)
		}
	}

	track, err := engine.ValidateTrackConfig(&config)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	connectivity := validateConnectivity(track)
	if !connectivity.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, connectivity.Errors...)

	if result.Valid {
		surface := track.Filter(func(c *engine.Cell) bool { return c.BaseType.IsSurface() })
		line := track.Filter(func(c *engine.Cell) bool { return c.BaseType == engine.StartStop })
		result.info("Name: %s", config.Name)
		result.info("Checkpoints: %d", config.Checkpoints)
		result.info("Surface cells: %d", len(surface))
		result.info("Start/finish cells: %d", len(line))
		result.info("Labels: %d", len(config.Labels))
	}

	return result
}

var neighbours = []engine.Position{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// reachable flood-fills drivable surface from start, 8-directionally
func reachable(track *engine.Track, start engine.Position) map[engine.Position]bool {
	visited := map[engine.Position]bool{start: true}
	queue := []engine.Position{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range neighbours {
			next := current.Add(d)
			if visited[next] {
				continue
			}
			cell, ok := track.At(next)
			if !ok || !cell.BaseType.IsSurface() {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return visited
}

// validateConnectivity checks that the other cars, every checkpoint index and
// the start/finish line can be reached from car 1's grid slot
func validateConnectivity(track *engine.Track) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	visited := reachable(track, track.Start(0))

	for i := 1; i < engine.MaxPlayers; i++ {
		if p := track.Start(i); !visited[p] {
			result.fail("Connectivity failure: car %d at (%d,%d) is cut off from car 1", i+1, p.X, p.Y)
		}
	}

	for idx := 0; idx <= track.Checkpoints(); idx++ {
		want := idx
		cells := track.Filter(func(c *engine.Cell) bool { return c.BaseType.CheckpointIndex() == want })
		hit := 0
		for _, c := range cells {
			if visited[engine.Position{X: c.X, Y: c.Y}] {
				hit++
			}
		}

		name := fmt.Sprintf("checkpoint %d", idx)
		if idx == 0 {
			name = "start/finish line"
		}
		switch {
		case len(cells) == 0:
			result.fail("Connectivity failure: %s has no cells", name)
		case hit == 0:
			result.fail("Connectivity failure: %s is unreachable from the grid", name)
		case hit < len(cells):
			result.info("Connectivity: %s reachable (%d/%d cells)", name, hit, len(cells))
		}
	}

	if result.Valid {
		result.info("Connectivity: all cars, %d checkpoints and the finish share one region (%d cells)", track.Checkpoints(), len(visited))
	}
	return result
}

// main scans a directory (../configs by default) for *.json files and
// validates each one, printing a concise report and exiting with non-zero
// status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding track files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No track files in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateTrack(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All tracks are valid!")
	} else {
		fmt.Println("❌ Some tracks have errors")
		os.Exit(1)
	}
}
