// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for thinkchat.
//
// Supports both TOML and JSON formats, with sensible defaults, environment
// variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.thinkchat/config.toml
//   - ~/.thinkchat/config.json
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"encoding/json"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/thinkchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete thinkchat configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend holds connection settings for the chat server.
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Chat holds turn-submission defaults.
	Chat ChatConfig `toml:"chat" json:"chat"`

	// UI holds appearance settings.
	UI UIConfig `toml:"ui" json:"ui"`

	// Log holds debug logging settings.
	Log LogConfig `toml:"log" json:"log"`
}

// BackendConfig configures the backend HTTP client.
type BackendConfig struct {
	// BaseURL of the chat server (default: http://127.0.0.1:8080)
	BaseURL string `toml:"base_url" json:"base_url"`

	// TimeoutSeconds for unary requests. Turn generation and model pulls
	// are context-governed and ignore this.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`

	// SidebarRefreshSeconds rate-limits session list refetches.
	SidebarRefreshSeconds int `toml:"sidebar_refresh_seconds" json:"sidebar_refresh_seconds"`
}

// ChatConfig configures turn submission defaults.
type ChatConfig struct {
	// DefaultModel used when no model has been selected yet.
	DefaultModel string `toml:"default_model" json:"default_model"`

	// Incognito starts sessions without server persistence.
	Incognito bool `toml:"incognito" json:"incognito"`

	// SearchCommand is the token prepended when search mode is armed.
	SearchCommand string `toml:"search_command" json:"search_command"`
}

// UIConfig configures appearance.
type UIConfig struct {
	// Theme name ("dark", "light", "auto").
	Theme string `toml:"theme" json:"theme"`

	// SidebarCollapsed starts the TUI with the session list hidden.
	SidebarCollapsed bool `toml:"sidebar_collapsed" json:"sidebar_collapsed"`

	// MarkdownWidth is the wrap width for rendered assistant output.
	MarkdownWidth int `toml:"markdown_width" json:"markdown_width"`
}

// LogConfig configures the debug log file.
type LogConfig struct {
	// Enabled turns on debug logging to File.
	Enabled bool `toml:"enabled" json:"enabled"`

	// File path for the debug log (default: ~/.thinkchat/debug.log).
	File string `toml:"file" json:"file"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// CurrentVersion is the config schema version.
const CurrentVersion = "1"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Backend: BackendConfig{
			BaseURL:               "http://127.0.0.1:8080",
			TimeoutSeconds:        30,
			SidebarRefreshSeconds: 2,
		},
		Chat: ChatConfig{
			DefaultModel:  "llama3.2:3b",
			Incognito:     false,
			SearchCommand: "/search",
		},
		UI: UIConfig{
			Theme:            "auto",
			SidebarCollapsed: false,
			MarkdownWidth:    100,
		},
		Log: LogConfig{
			Enabled: false,
		},
	}
}

// fillDefaults replaces zero values with defaults after a partial file load.
func fillDefaults(cfg *Config) {
	def := Default()
	if cfg.Version == "" {
		cfg.Version = def.Version
	}
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = def.Backend.BaseURL
	}
	if cfg.Backend.TimeoutSeconds == 0 {
		cfg.Backend.TimeoutSeconds = def.Backend.TimeoutSeconds
	}
	if cfg.Backend.SidebarRefreshSeconds == 0 {
		cfg.Backend.SidebarRefreshSeconds = def.Backend.SidebarRefreshSeconds
	}
	if cfg.Chat.DefaultModel == "" {
		cfg.Chat.DefaultModel = def.Chat.DefaultModel
	}
	if cfg.Chat.SearchCommand == "" {
		cfg.Chat.SearchCommand = def.Chat.SearchCommand
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = def.UI.Theme
	}
	if cfg.UI.MarkdownWidth == 0 {
		cfg.UI.MarkdownWidth = def.UI.MarkdownWidth
	}
	if cfg.Log.File == "" {
		if dir, err := ConfigDir(); err == nil {
			cfg.Log.File = filepath.Join(dir, "debug.log")
		}
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.thinkchat, creating nothing.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".thinkchat"), nil
}

// ConfigPathTOML returns the TOML config file path.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the JSON config file path.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the configuration, trying TOML then JSON, falling back to
// defaults. Environment overrides apply in every case.
func Load() (*Config, error) {
	cfg := Default()

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finishLoad(cfg)
		}
	}

	return finishLoad(cfg)
}

// LoadFromPath loads configuration from an explicit file, picking the
// format from the extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return finishLoad(cfg)
}

func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

// Save writes the configuration to the TOML path.
// SECURITY: config files are created 0600, owner read/write only.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with a header comment.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# thinkchat configuration file")
	fmt.Fprintln(file, "# Generated by thinkchat - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: atomic write with fsync prevents data loss on crash.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateErrors aggregates all validation failures.
type ValidateErrors []string

func (e ValidateErrors) Error() string {
	return "config validation failed: " + strings.Join(e, "; ")
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if _, err := url.Parse(c.Backend.BaseURL); err != nil || c.Backend.BaseURL == "" {
		errs = append(errs, fmt.Sprintf("backend.base_url %q is not a valid URL", c.Backend.BaseURL))
	}
	if c.Backend.TimeoutSeconds < 0 {
		errs = append(errs, "backend.timeout_seconds must not be negative")
	}
	if !strings.HasPrefix(c.Chat.SearchCommand, "/") {
		errs = append(errs, fmt.Sprintf("chat.search_command %q must start with '/'", c.Chat.SearchCommand))
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, fmt.Sprintf("ui.theme %q must be one of dark, light, auto", c.UI.Theme))
	}
	if c.UI.MarkdownWidth < 20 {
		errs = append(errs, "ui.markdown_width must be at least 20")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Timeout returns the unary request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// SidebarRefresh returns the sidebar refresh interval as a duration.
func (c *Config) SidebarRefresh() time.Duration {
	return time.Duration(c.Backend.SidebarRefreshSeconds) * time.Second
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - THINKCHAT_BACKEND_URL: overrides backend.base_url
//   - THINKCHAT_MODEL: overrides chat.default_model
//   - THINKCHAT_INCOGNITO: "1" or "true" starts in incognito mode
//   - THINKCHAT_THEME: overrides ui.theme
//   - THINKCHAT_DEBUG: "1" or "true" enables the debug log
func (c *Config) ApplyEnvOverrides() {
	if base := os.Getenv("THINKCHAT_BACKEND_URL"); base != "" {
		c.Backend.BaseURL = base
	}
	if m := os.Getenv("THINKCHAT_MODEL"); m != "" {
		c.Chat.DefaultModel = m
	}
	if v := os.Getenv("THINKCHAT_INCOGNITO"); v != "" {
		c.Chat.Incognito = v == "1" || strings.EqualFold(v, "true")
	}
	if theme := os.Getenv("THINKCHAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if v := os.Getenv("THINKCHAT_DEBUG"); v != "" {
		c.Log.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
	globalOnce   sync.Once
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults; callers that care about the error use
// Load directly.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
			cfg.ApplyEnvOverrides()
			fillDefaults(cfg)
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide configuration, used by the file
// watcher on hot reload.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the singleton so tests can reload.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
	globalOnce = sync.Once{}
}
