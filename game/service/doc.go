// Package service provides the business logic layer for Graph Racers.
//
// The service package implements:
//   - Multi-session match management
//   - Track lookup through a catalog
//   - Move submission with per-session locking
//   - Paginated move history
//   - Match metrics on an OpenTelemetry meter provider (the global one by default)
//
// Core Interfaces:
//
// GameService is the main service interface used by the HTTP API, the
// WebSocket hub and the MCP tools. SessionManager stores sessions and
// TrackCatalog loads track definitions.
//
// Architecture:
//
// The service layer sits between the transports and the engine. Engines are
// not safe for concurrent use, so every engine call goes through
// Session.WithEngine, which holds the session's mutex.
//
// Usage:
//
//	sessions := session.NewManager()
//	tracks, _ := config.NewManager("configs", "river_wild")
//	svc, err := service.NewGameService(sessions, tracks, service.WithLogger(logger))
//
//	info, err := svc.CreateMatch(ctx, service.MatchOptions{Track: "donut_hole", Players: 3})
//	targets, err := svc.GetTargets(ctx, info.ID)
//	result, err := svc.SubmitMove(ctx, info.ID, engine.Position{X: targets[0].X, Y: targets[0].Y})
package service
