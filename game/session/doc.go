// Package session keeps running Graph Racers matches in memory.
//
// Manager stores one service.Session per match. Each session owns its own
// engine, created with engine.NewMatch so it is already in play, and a
// mutex that the service layer takes around every engine call.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated with crypto/rand unless the
// caller supplies one. Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "river_wild", track, engine.DefaultSettings())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	sessions := manager.List()
//
// Cleanup:
//
// CleanupExpiredSessions drops sessions that have not been touched for a
// given duration; the serve command runs it periodically.
package session
