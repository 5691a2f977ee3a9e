// Package engine provides the rules engine for Graph Racers, a turn-based
// vector racing game on a 40x40 grid.
//
// The engine package implements:
//   - The track model: immutable terrain plus per-cell overlay markers
//   - Trajectory rasterization between cell centers
//   - Candidate generation from the velocity rule and legality painting
//   - Checkpoint and lap tracking along each driven path
//   - Turn rotation, damage, elimination and the end of the match
//
// Core Types:
//
// Track owns the cells and gives O(1) coordinate lookup. GameEngine drives a
// match through the NOGAME, PREGAME, GAME and ENDGAME states and is the only
// thing that mutates the track. TrackConfig is the JSON form of a track.
//
// Usage:
//
//	config, err := engine.LoadTrackByName("river_wild")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	match, err := engine.NewMatch(config, engine.DefaultSettings())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	targets := match.Targets()
//	outcome, err := match.SubmitMove(engine.Position{X: targets[0].X, Y: targets[0].Y})
//
// Game Rules:
//
// A car's velocity is the difference between its last two cells. Each turn it
// may move to any of the nine cells around its current position plus that
// velocity. Moves whose straight path stays on the track are targets; the rest
// are crashes, which cost damage and put the car back on course at zero speed.
// Laps count when the finish line is crossed after every checkpoint in order.
// A player is eliminated when damage reaches the configured limit.
package engine
