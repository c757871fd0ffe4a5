package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/singlite/singlite/internal/infrastructure/logging"
	"github.com/singlite/singlite/internal/store"
)

// idSuffixLength is how many characters of the generated UUID are kept
// in row identifiers. Eight hex characters keep IDs short while
// collisions stay unlikely at embedded-database row counts.
const idSuffixLength = 8

// Registry collects table declarations and ensures them on demand.
type Registry struct {
	store *store.Store
	log   *logging.Logger

	mu     sync.Mutex
	tables map[string]store.Schema
	order  []string
}

// New creates an empty Registry over the given store.
func New(st *store.Store, log *logging.Logger) *Registry {
	return &Registry{
		store:  st,
		log:    log,
		tables: make(map[string]store.Schema),
	}
}

// Define records a table declaration. An "id" text column is prepended
// unless the schema already declares one; InsertWithID fills it with a
// generated identifier. Redefining a name replaces the recorded schema
// but keeps its position in the declaration order.
func (r *Registry) Define(name string, schema store.Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !hasColumn(schema, "id") {
		withID := make(store.Schema, 0, len(schema)+1)
		withID = append(withID, store.Column{Name: "id", Type: store.Text})
		withID = append(withID, schema...)
		schema = withID
	}

	if _, exists := r.tables[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tables[name] = schema
}

// Tables returns the defined table names in declaration order.
func (r *Registry) Tables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// EnsureAll declares every defined table against the engine, in
// declaration order. Declarations are idempotent, so EnsureAll can run
// on every startup.
func (r *Registry) EnsureAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range r.order {
		if _, err := r.store.CreateTable(ctx, name, r.tables[name]); err != nil {
			return fmt.Errorf("ensuring table %s: %w", name, err)
		}
		r.log.Debug("table ensured", "table", name)
	}
	return nil
}

// InsertWithID inserts a row into a defined table with a generated
// string identifier in the "id" column, and returns that identifier
// alongside the uniform write result.
func (r *Registry) InsertWithID(ctx context.Context, table string, fields store.Fields) (string, store.Result, error) {
	r.mu.Lock()
	_, defined := r.tables[table]
	r.mu.Unlock()

	if !defined {
		return "", store.Result{}, fmt.Errorf("table %s is not defined", table)
	}
	for _, f := range fields {
		if f.Column == "id" {
			return "", store.Result{}, fmt.Errorf("table %s: id column is generated, not caller-supplied", table)
		}
	}

	id := generateID(table)

	row := make(store.Fields, 0, len(fields)+1)
	row = append(row, store.Field{Column: "id", Value: id})
	row = append(row, fields...)

	res, err := r.store.InsertRow(ctx, table, row)
	if err != nil {
		return "", res, err
	}
	return id, res, nil
}

// generateID builds identifiers like "use-1a2b3c4d" from the table
// name and a fresh UUID.
func generateID(table string) string {
	prefix := table
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return prefix + "-" + uuid.NewString()[:idSuffixLength]
}

// hasColumn reports whether the schema declares the named column.
func hasColumn(schema store.Schema, name string) bool {
	for _, col := range schema {
		if col.Name == name {
			return true
		}
	}
	return false
}
