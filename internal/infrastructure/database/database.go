package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Database configuration constants.
const (
	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the database file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying database connectivity.
	connectionTimeout = 5 * time.Second
)

// Config contains database configuration options.
// These map to the storage section of config.yaml.
type Config struct {
	// Path is the filesystem path to the SQLite database file.
	// The directory will be created if it doesn't exist.
	Path string

	// WALMode enables Write-Ahead Logging for better concurrent access.
	WALMode bool

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int
}

// Row is a single result row, one value per selected column in
// statement order. TEXT values scan as string, INTEGER as int64,
// BOOLEAN as int64 (SQLite stores booleans as 0/1), NULL as nil.
type Row []any

// Outcome is the result of a successfully executed statement.
type Outcome struct {
	// RowsAffected is the number of rows changed by the statement.
	RowsAffected int64

	// LastInsertID is the rowid of the most recently inserted row.
	LastInsertID int64
}

// DB owns the single connection to the embedded engine's backing file.
//
// The connection pool is capped at one connection, so the engine never
// sees concurrent statement execution. DB additionally guards its own
// bookkeeping (closed flag, last-known counters) with a mutex; callers
// that need whole-operation serialisation layer their own lock on top.
type DB struct {
	db   *sql.DB
	path string

	mu     sync.Mutex
	closed bool

	// Last-known counters, reported when a statement fails so callers
	// see the connection's actual state rather than synthesized zeros.
	lastRows int64
	lastID   int64
}

// Open creates a new database connection with the specified configuration.
//
// It performs the following setup:
//  1. Creates the database directory if it doesn't exist
//  2. Opens the database file (creates if not present)
//  3. Configures WAL mode and busy timeout
//  4. Sets appropriate file permissions (0600)
//  5. Verifies the connection with a ping
//
// Parameters:
//   - cfg: Database configuration
//
// Returns:
//   - *DB: Connected database handle
//   - error: If connection or configuration fails
func Open(cfg Config) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Build connection string with pragmas
	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path,
		cfg.BusyTimeout*msPerSecond,
	)

	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports a single writer; one connection keeps statement
	// execution strictly sequential at the engine level.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db := &DB{
		db:   sqlDB,
		path: cfg.Path,
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Set file permissions (owner read/write only)
	// Ignore error - file might not exist yet on first run, will be set after first write
	_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck // Intentional: first run creates file later

	return db, nil
}

// Run executes one statement with the given positional parameters,
// substituting them for ? placeholders in order.
//
// Each call runs inside its own transaction and commits before
// returning, so every write is individually durable. No multi-statement
// transactions are exposed at this level.
//
// On failure the returned Outcome carries the connection's last-known
// rows-affected and last-insert-id values (possibly stale), never
// synthesized zeros. Callers must treat the Outcome as meaningful only
// when the error is nil.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - stmt: SQL statement with ? placeholders
//   - params: Arguments for placeholders, in placeholder order
//
// Returns:
//   - Outcome: Rows affected and last-inserted rowid
//   - error: ErrClosed after Close, *EngineError on execution failure
func (db *DB) Run(ctx context.Context, stmt string, params ...any) (Outcome, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return db.lastOutcome(), ErrClosed
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return db.lastOutcome(), &EngineError{Stmt: stmt, Err: err}
	}

	res, err := tx.ExecContext(ctx, stmt, params...)
	if err != nil {
		tx.Rollback() //nolint:errcheck // Best effort cleanup on error path
		return db.lastOutcome(), &EngineError{Stmt: stmt, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return db.lastOutcome(), &EngineError{Stmt: stmt, Err: err}
	}

	// RowsAffected and LastInsertId cannot fail on go-sqlite3 once the
	// statement has committed.
	rows, _ := res.RowsAffected() //nolint:errcheck
	id, _ := res.LastInsertId()   //nolint:errcheck

	db.lastRows, db.lastID = rows, id
	return Outcome{RowsAffected: rows, LastInsertID: id}, nil
}

// Query executes a read-only statement and returns all matching rows.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - stmt: SQL query with ? placeholders
//   - params: Arguments for placeholders, in placeholder order
//
// Returns:
//   - []Row: All matching rows, nil when the query matched nothing
//   - error: ErrClosed after Close, *EngineError on execution failure
func (db *DB) Query(ctx context.Context, stmt string, params ...any) ([]Row, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil, ErrClosed
	}

	rows, err := db.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, &EngineError{Stmt: stmt, Err: err}
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor cleanup

	cols, err := rows.Columns()
	if err != nil {
		return nil, &EngineError{Stmt: stmt, Err: err}
	}

	var out []Row
	for rows.Next() {
		values := make(Row, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &EngineError{Stmt: stmt, Err: err}
		}
		// The driver hands TEXT columns back as []byte when scanning
		// into any; normalise to string so rows compare naturally.
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, &EngineError{Stmt: stmt, Err: err}
	}

	return out, nil
}

// HealthCheck verifies the database is accessible and functioning.
// It performs a simple query to ensure the connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}

	var result int
	if err := db.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// Path returns the filesystem path to the database file.
func (db *DB) Path() string {
	return db.path
}

// Close releases the connection. It is idempotent: closing an already
// closed handle returns nil. The closed state is terminal; subsequent
// operations return ErrClosed.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed || db.db == nil {
		return nil
	}
	db.closed = true

	if err := db.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// lastOutcome returns the last-known counters. Callers must hold db.mu.
func (db *DB) lastOutcome() Outcome {
	return Outcome{RowsAffected: db.lastRows, LastInsertID: db.lastID}
}
