// Package config loads and validates Singlite configuration.
//
// Configuration is read from a YAML file and can be overridden by
// environment variables (SINGLITE_* prefix). Defaults are applied
// first, then file values, then environment overrides.
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Callers that have no config file (tests, embedded use) can start
// from config.Default() and adjust fields directly.
package config
