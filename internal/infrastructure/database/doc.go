// Package database is the low-level binding to the embedded SQLite
// engine for Singlite.
//
// It owns exactly one connection to the backing file and exposes three
// primitives on top of it: Run (execute a single statement, committed
// immediately), Query (execute a read-only statement and return all
// rows) and Close (release the connection, idempotent).
//
// Security Considerations:
//   - All statements use parameterised ? placeholders (no SQL injection)
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Failure semantics:
//   - Engine-reported failures (syntax errors, constraint violations,
//     missing tables) surface as *EngineError. They are never retried;
//     embedded engine errors are not transient.
//   - Operations on a closed handle return ErrClosed. A closed handle
//     is never reopened implicitly.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: "data/app.db"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	out, err := db.Run(ctx, "INSERT INTO users (name) VALUES (?)", "eddy")
package database
