package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefault verifies the built-in defaults are valid on their own.
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Path == "" {
		t.Error("default storage.path should not be empty")
	}
	if !cfg.Storage.WALMode {
		t.Error("default storage.wal_mode should be true")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default logging.level = %q, want %q", cfg.Logging.Level, "info")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate cleanly, got %v", err)
	}
}

// TestLoad verifies YAML loading and layering over defaults.
func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeConfig(t, `
storage:
  path: /tmp/test-singlite.db
  wal_mode: false
  busy_timeout: 10

logging:
  level: debug
  format: text
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if cfg.Storage.Path != "/tmp/test-singlite.db" {
			t.Errorf("storage.path = %q, want %q", cfg.Storage.Path, "/tmp/test-singlite.db")
		}
		if cfg.Storage.WALMode {
			t.Error("storage.wal_mode should be false")
		}
		if cfg.Storage.BusyTimeout != 10 {
			t.Errorf("storage.busy_timeout = %d, want 10", cfg.Storage.BusyTimeout)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("logging.level = %q, want %q", cfg.Logging.Level, "debug")
		}
		// Output is not set in the file, default should survive.
		if cfg.Logging.Output != "stdout" {
			t.Errorf("logging.output = %q, want default %q", cfg.Logging.Output, "stdout")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		if err == nil {
			t.Fatal("Load() should fail for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "storage: [not, a, mapping")
		_, err := Load(path)
		if err == nil {
			t.Fatal("Load() should fail for malformed YAML")
		}
	})

	t.Run("invalid level rejected", func(t *testing.T) {
		path := writeConfig(t, `
logging:
  level: verbose
`)
		_, err := Load(path)
		if err == nil {
			t.Fatal("Load() should fail for unknown logging level")
		}
		if !strings.Contains(err.Error(), "logging.level") {
			t.Errorf("error should mention logging.level, got %v", err)
		}
	})
}

// TestEnvOverrides verifies environment variables win over file values.
func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: /tmp/from-file.db
`)

	t.Setenv("SINGLITE_STORAGE_PATH", "/tmp/from-env.db")
	t.Setenv("SINGLITE_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Path != "/tmp/from-env.db" {
		t.Errorf("storage.path = %q, want env override %q", cfg.Storage.Path, "/tmp/from-env.db")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q, want env override %q", cfg.Logging.Level, "warn")
	}
}

// TestValidate verifies individual validation rules.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "empty storage path",
			mutate:  func(c *Config) { c.Storage.Path = "" },
			wantErr: true,
		},
		{
			name:    "negative busy timeout",
			mutate:  func(c *Config) { c.Storage.BusyTimeout = -1 },
			wantErr: true,
		},
		{
			name:    "empty level allowed",
			mutate:  func(c *Config) { c.Logging.Level = "" },
			wantErr: false,
		},
		{
			name:    "unknown level rejected",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	return path
}
