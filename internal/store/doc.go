// Package store is the process-wide access layer over the embedded
// SQLite engine.
//
// A Store wraps the single engine connection and provides typed schema
// declaration (CreateTable), parameter-safe row insertion (InsertRow),
// an escape hatch for arbitrary statements (Execute) and row-fetching
// helpers (FetchAll, FetchOne). Every write reports its outcome in the
// uniform Result shape; every read returns rows or a typed error.
//
// Shared returns the one Store instance for the process: the first
// call opens the backing file, every later call returns the same
// instance regardless of the path it was given. Close tears the shared
// connection down for every holder; the closed state is terminal.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Statement execution is
//     serialised with an internal mutex because the engine connection
//     is not safe for concurrent statements.
package store
