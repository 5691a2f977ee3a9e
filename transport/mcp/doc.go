// Package mcp exposes Graph Racers to AI agents over the Model Context
// Protocol.
//
// Client is a thin proxy: each tool call becomes one or two requests against
// the REST API, and the JSON answer is rendered as plain text an agent can
// read, including the grid with a coordinate ruler.
//
// MCP Tools:
//   - create_match: Start a match {track, players, damage_max, laps}
//   - get_state: Snapshot with players, grid and targets
//   - get_targets: Candidate cells with the outcome of each
//   - submit_move: Move the active player to {x, y}
//   - restart_match: Restart with the same settings
//   - move_history: Paginated move history
//   - list_tracks, list_sessions, describe_cell, game_instructions
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: mount the Client itself, it answers single JSON-RPC POSTs
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	apiServer.Handle("/mcp", client, "POST")
package mcp
