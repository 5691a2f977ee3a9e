// Package websocket pushes Graph Racers match updates to browsers and other
// watchers.
//
// A single Hub goroutine owns the subscriber set. Each connection gets a
// read pump, which only keeps the socket alive, and a write pump that
// forwards queued frames and pings the peer.
//
// Message Protocol:
//
// Every frame is one JSON Message:
//
//	{"session_id": "a3f9", "event": "state_update", "game_state": {...}}
//	{"session_id": "a3f9", "event": "move", "data": {...move result...}}
//
// Clients subscribe with /ws?session=a3f9 and receive the current snapshot
// first, then every update the API publishes for that session. Nothing sent
// by the client is interpreted; moves go through the HTTP API or MCP tools.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID, state)
//	hub.BroadcastToSession(sessionID, state)
package websocket
