package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/singlite/singlite/internal/infrastructure/config"
	"github.com/singlite/singlite/internal/infrastructure/database"
	"github.com/singlite/singlite/internal/infrastructure/logging"
)

// Result is the uniform outcome of a write operation.
//
// OK mirrors the error return: it is true exactly when the operation
// succeeded. On failure RowsAffected and LastInsertID carry the
// connection's last-known values, which may be stale; treat them as
// meaningful only when OK is true.
type Result struct {
	OK           bool
	RowsAffected int64
	LastInsertID int64
}

// Store is the access layer over the single engine connection.
//
// Obtain the process-wide instance with Shared, or construct a private
// one with New (tests do this to avoid touching process state).
type Store struct {
	db  *database.DB
	log *logging.Logger

	// mu serialises statement execution against the shared connection.
	mu sync.Mutex
}

// Process-wide singleton state. First writer wins; Close never clears
// it, so the closed instance keeps being handed out and every
// operation on it fails with database.ErrClosed instead of silently
// reopening the file.
var (
	sharedMu sync.Mutex
	shared   *Store
)

// Shared returns the one Store instance for this process, opening the
// backing file on the first call. An empty path selects the default
// storage path. Path arguments on later calls are ignored: whoever
// constructs first decides where the data lives.
//
// Parameters:
//   - path: Storage file path, used only by the first call; "" for default
//
// Returns:
//   - *Store: The process-wide instance
//   - error: If the first call fails to open the backing file
func Shared(path string) (*Store, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared != nil {
		return shared, nil
	}

	cfg := config.Default().Storage
	if path != "" {
		cfg.Path = path
	}

	s, err := New(cfg, logging.Default().With("component", "store"))
	if err != nil {
		return nil, err
	}

	shared = s
	return shared, nil
}

// New opens a Store on its own connection, independent of the shared
// instance.
//
// Parameters:
//   - cfg: Storage configuration (path, WAL mode, busy timeout)
//   - log: Logger for the read-failure side channel
//
// Returns:
//   - *Store: Open store
//   - error: If the backing file cannot be opened
func New(cfg config.StorageConfig, log *logging.Logger) (*Store, error) {
	db, err := database.Open(database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	log.Info("store opened", "path", db.Path())

	return &Store{db: db, log: log}, nil
}

// CreateTable declares a table from an ordered column schema and
// executes `CREATE TABLE IF NOT EXISTS`.
//
// The call is idempotent: re-declaring an existing table succeeds even
// when the schema differs, because IF NOT EXISTS skips the statement
// entirely. A mismatched re-declaration is therefore silently ignored;
// existing rows are never touched.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - name: Table name (bare identifier)
//   - schema: Ordered column declarations
//
// Returns:
//   - Result: Uniform write outcome
//   - error: Validation failure, database.ErrClosed, or *database.EngineError
func (s *Store) CreateTable(ctx context.Context, name string, schema Schema) (Result, error) {
	if !validIdentifier(name) {
		return Result{}, fmt.Errorf("invalid table name %q", name)
	}
	if err := schema.validate(); err != nil {
		return Result{}, fmt.Errorf("table %s: %w", name, err)
	}

	return s.exec(ctx, buildCreateTable(name, schema))
}

// InsertRow inserts one row. The emitted column list and the positional
// parameter list both follow the order of fields, so the pairing can
// never drift.
//
// Supported value kinds: string, int, int64, bool and nil (SQL NULL).
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - table: Table name (bare identifier)
//   - fields: Ordered column/value pairs
//
// Returns:
//   - Result: Uniform write outcome
//   - error: Validation failure, database.ErrClosed, or *database.EngineError
func (s *Store) InsertRow(ctx context.Context, table string, fields Fields) (Result, error) {
	if !validIdentifier(table) {
		return Result{}, fmt.Errorf("invalid table name %q", table)
	}
	if err := fields.validate(); err != nil {
		return Result{}, fmt.Errorf("table %s: %w", table, err)
	}

	stmt, params := buildInsert(table, fields)
	return s.exec(ctx, stmt, params...)
}

// Execute runs an arbitrary statement (DDL, INSERT, UPDATE, DELETE)
// with caller-supplied placeholders. The placeholder count is checked
// against the parameter count before the statement reaches the engine.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - stmt: SQL statement with ? placeholders
//   - params: Arguments for placeholders, in placeholder order
//
// Returns:
//   - Result: Uniform write outcome
//   - error: *ParameterShapeError, database.ErrClosed, or *database.EngineError
func (s *Store) Execute(ctx context.Context, stmt string, params ...any) (Result, error) {
	if err := checkShape(stmt, params); err != nil {
		return Result{}, err
	}
	return s.exec(ctx, stmt, params...)
}

// FetchAll runs a read statement and returns all matching rows.
//
// A nil error with an empty result means the query genuinely matched
// nothing; failures come back as the error value and are also logged.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - stmt: SQL query with ? placeholders
//   - params: Arguments for placeholders, in placeholder order
//
// Returns:
//   - []database.Row: Matching rows, empty when none matched
//   - error: *ParameterShapeError, database.ErrClosed, or *database.EngineError
func (s *Store) FetchAll(ctx context.Context, stmt string, params ...any) ([]database.Row, error) {
	if err := checkShape(stmt, params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(ctx, stmt, params...)
	if err != nil {
		s.log.Error("query failed", "sql", stmt, "error", err)
		return nil, err
	}
	return rows, nil
}

// FetchOne runs a read statement and returns the first matching row.
//
// A nil row with a nil error is the explicit no-row marker; failures
// come back as the error value and are also logged.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - stmt: SQL query with ? placeholders
//   - params: Arguments for placeholders, in placeholder order
//
// Returns:
//   - database.Row: First matching row, or nil when none matched
//   - error: *ParameterShapeError, database.ErrClosed, or *database.EngineError
func (s *Store) FetchOne(ctx context.Context, stmt string, params ...any) (database.Row, error) {
	rows, err := s.FetchAll(ctx, stmt, params...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Close closes the underlying connection. For the shared instance this
// invalidates the handle for every holder, not just the caller: the
// closed state is terminal and every later operation fails with
// database.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Info("store closed", "path", s.db.Path())
	return s.db.Close()
}

// Path returns the filesystem path of the backing file.
func (s *Store) Path() string {
	return s.db.Path()
}

// exec serialises a write against the connection and folds the engine
// outcome into the uniform Result shape.
func (s *Store) exec(ctx context.Context, stmt string, params ...any) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.db.Run(ctx, stmt, params...)
	res := Result{
		OK:           err == nil,
		RowsAffected: out.RowsAffected,
		LastInsertID: out.LastInsertID,
	}
	if err != nil {
		s.log.Error("statement failed", "sql", stmt, "error", err)
		return res, err
	}
	return res, nil
}

// checkShape validates the placeholder/parameter pairing.
func checkShape(stmt string, params []any) error {
	if n := countPlaceholders(stmt); n != len(params) {
		return &ParameterShapeError{Placeholders: n, Params: len(params)}
	}
	return nil
}
