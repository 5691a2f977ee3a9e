// Package config provides the track catalog for Graph Racers.
//
// The config package handles:
//   - Loading track definitions from JSON files
//   - Validating them with the engine before they are handed out
//   - Default track management
//   - Track discovery and listing
//
// Track Format:
//
// Tracks are stored as JSON files in the configs directory. The file name
// without extension is the track ID used when creating a match. Each file
// defines a 40x40 layout (X off track, . track, S start/finish line, q w e
// checkpoints, 1-4 car starts), the number of checkpoints, decorative labels
// and optional message overrides.
//
// Bundled Tracks:
//   - river_wild: the default, two checkpoints
//   - donut_hole: two checkpoints around a central hole
//   - captain_hook: hooked course, three checkpoints
//   - ampersandy: figure-eight, two checkpoints
//   - lucky_s: serpentine S curve, three checkpoints
//
// Usage:
//
//	manager, err := config.NewManager("configs", "river_wild")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	track, err := manager.LoadTrack("donut_hole")
//	tracks, err := manager.ListTracks()
package config
