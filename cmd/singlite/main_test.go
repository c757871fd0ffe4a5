package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with an invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("SINGLITE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestLoadConfig_DefaultsWhenMissing verifies the example falls back to
// built-in defaults when no config file exists.
func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("SINGLITE_CONFIG", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getting working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("changing directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Storage.Path == "" {
		t.Error("default config should carry a storage path")
	}
}

// TestLoadConfig_ExplicitPath verifies SINGLITE_CONFIG wins.
func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("storage:\n  path: /tmp/explicit.db\n")
	if err := os.WriteFile(path, content, 0600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	t.Setenv("SINGLITE_CONFIG", path)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Storage.Path != "/tmp/explicit.db" {
		t.Errorf("storage.path = %q, want %q", cfg.Storage.Path, "/tmp/explicit.db")
	}
}
