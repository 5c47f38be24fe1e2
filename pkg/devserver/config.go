// Package devserver serves a live preview of a mounted document tree over
// HTTP: rendered HTML on the index route and document snapshots streamed to
// websocket sessions after every update. It is the harness front-end work
// in this repo is previewed with; it is not a production surface.
package devserver

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds devserver settings.
type Config struct {
	// Addr is the listen address, e.g. ":8473".
	Addr string `yaml:"addr"`
	// Dev enables verbose diagnostics.
	Dev bool `yaml:"dev"`
	// RenderDebounce coalesces rapid document updates before pushing to
	// sessions. Zero pushes immediately.
	RenderDebounce time.Duration `yaml:"render_debounce"`
	// SessionBuffer is the per-session snapshot queue size; a slow session
	// skips intermediate snapshots rather than blocking updates.
	SessionBuffer int `yaml:"session_buffer"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8473",
		SessionBuffer: 8,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	if cfg.SessionBuffer <= 0 {
		cfg.SessionBuffer = DefaultConfig().SessionBuffer
	}
	return cfg, nil
}
