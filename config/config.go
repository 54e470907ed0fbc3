// Package config holds pacmon's on-disk UI preferences: refresh interval,
// default sort order, default view mode, and whether to resolve names on
// startup. There is no flow data and no network identity here.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Config holds user-configurable UI defaults.
type Config struct {
	RefreshMillis     int    `json:"refresh_millis"`
	DefaultSort       string `json:"default_sort"`        // "activity" or "cumulative"
	DefaultView       string `json:"default_view"`        // "flows", "corps", "corps_city"
	ResolveNamesAtRun bool   `json:"resolve_names_at_run"`
}

// Default returns a config with sensible defaults.
func Default() Config {
	return Config{
		RefreshMillis:     1000,
		DefaultSort:       "activity",
		DefaultView:       "flows",
		ResolveNamesAtRun: true,
	}
}

// Path returns ~/.config/pacmon/config.json (or XDG_CONFIG_HOME).
// Returns empty string if home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pacmon", "config.json")
}

// Load loads config from disk; returns defaults on error.
func Load() Config {
	cfg := Default()
	p := Path()
	if p == "" {
		return cfg
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("pacmon: warning: config parse error: %v", err)
	}
	return cfg
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
