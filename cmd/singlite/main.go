// Singlite - example program for the process-wide SQLite access layer.
//
// It mirrors the typical embedding application: load configuration,
// obtain the shared store, declare tables, insert a row, read it back
// and shut down cleanly.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/singlite/singlite/internal/infrastructure/config"
	"github.com/singlite/singlite/internal/infrastructure/logging"
	"github.com/singlite/singlite/internal/registry"
	"github.com/singlite/singlite/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	log := logging.Default()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("starting singlite example",
		"version", version,
		"storage_path", cfg.Storage.Path,
	)

	// First construction in the process opens the backing file; every
	// later Shared call anywhere in the application returns this same
	// instance.
	st, err := store.Shared(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening shared store: %w", err)
	}
	defer st.Close() //nolint:errcheck // Shutdown path

	if _, err := st.CreateTable(ctx, "users", store.Schema{
		{Name: "name", Type: store.Text},
		{Name: "age", Type: store.Integer},
		{Name: "is_underage", Type: store.Boolean},
	}); err != nil {
		return fmt.Errorf("declaring users table: %w", err)
	}

	res, err := st.InsertRow(ctx, "users", store.Fields{
		{Column: "name", Value: "eddy"},
		{Column: "age", Value: 25},
		{Column: "is_underage", Value: false},
	})
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	log.Info("user inserted",
		"rows_affected", res.RowsAffected,
		"last_insert_id", res.LastInsertID,
	)

	rows, err := st.FetchAll(ctx, "SELECT name, age, is_underage FROM users WHERE age >= ?", 18)
	if err != nil {
		return fmt.Errorf("fetching users: %w", err)
	}
	for _, row := range rows {
		log.Info("adult user", "name", row[0], "age", row[1])
	}

	// Registry-style use: declared tables with generated row ids.
	reg := registry.New(st, log.With("component", "registry"))
	reg.Define("notes", store.Schema{
		{Name: "body", Type: store.Text},
		{Name: "pinned", Type: store.Boolean},
	})
	if err := reg.EnsureAll(ctx); err != nil {
		return fmt.Errorf("ensuring tables: %w", err)
	}

	id, _, err := reg.InsertWithID(ctx, "notes", store.Fields{
		{Column: "body", Value: "hello from singlite"},
		{Column: "pinned", Value: true},
	})
	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}
	log.Info("note inserted", "id", id)

	return nil
}

// loadConfig loads configuration from the configured path. When no
// explicit path is set and the default file does not exist, built-in
// defaults are used so the example runs without any setup.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("SINGLITE_CONFIG"); path != "" {
		return config.Load(path)
	}

	cfg, err := config.Load(defaultConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}
