// Package api exposes Graph Racers over HTTP/JSON.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a match {track, players, damage_max, laps}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Session info with the current snapshot
//   - DELETE /api/sessions/{id} - Drop a session
//
// Match Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - GET /api/sessions/{id}/targets - Painted candidate cells for the active player
//   - POST /api/sessions/{id}/move - Submit {x, y} for the active player
//   - POST /api/sessions/{id}/restart - Restart with the same track and settings
//   - GET /api/sessions/{id}/history - Paginated move history (?page&limit&order)
//
// Tracks:
//   - GET /api/tracks - Track catalog
//   - POST /api/tracks - Save a track definition (?id=, defaults to the slugged name)
//   - GET /api/tracks/{name} - Track definition
//
// Streaming:
//   - GET /ws?session={id} - WebSocket snapshots, see package websocket
//
// Errors are returned as {"error": "..."}. Unknown sessions and tracks map
// to 404, illegal moves and bad settings to 400, moves against a finished
// match to 409.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8080", server)
package api
