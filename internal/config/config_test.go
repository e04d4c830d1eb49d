// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://127.0.0.1:8080", cfg.Backend.BaseURL)
	assert.Equal(t, "/search", cfg.Chat.SearchCommand)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestValidateCatchesBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Backend.BaseURL = "" }},
		{"negative timeout", func(c *Config) { c.Backend.TimeoutSeconds = -1 }},
		{"search command without slash", func(c *Config) { c.Chat.SearchCommand = "search" }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"tiny markdown width", func(c *Config) { c.UI.MarkdownWidth = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoadTOMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Chat.DefaultModel = "mistral:7b"
	cfg.UI.SidebarCollapsed = true
	require.NoError(t, SaveTOML(cfg, path))

	// 0600: backend URLs may embed credentials.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral:7b", loaded.Chat.DefaultModel)
	assert.True(t, loaded.UI.SidebarCollapsed)
}

func TestLoadJSONFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"chat":{"default_model":"phi3"}}`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "phi3", cfg.Chat.DefaultModel)
	// Unset fields take defaults.
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Backend.BaseURL)
	assert.Equal(t, "/search", cfg.Chat.SearchCommand)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("THINKCHAT_BACKEND_URL", "http://10.0.0.5:9000")
	t.Setenv("THINKCHAT_MODEL", "qwen2.5:14b")
	t.Setenv("THINKCHAT_INCOGNITO", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "http://10.0.0.5:9000", cfg.Backend.BaseURL)
	assert.Equal(t, "qwen2.5:14b", cfg.Chat.DefaultModel)
	assert.True(t, cfg.Chat.Incognito)
}

func TestGlobalSingleton(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	first := Global()
	second := Global()
	assert.Same(t, first, second)

	replacement := Default()
	SetGlobal(replacement)
	assert.Same(t, replacement, Global())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch())

	updated := Default()
	updated.Chat.DefaultModel = "gemma2:9b"
	require.NoError(t, SaveTOML(updated, path))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "gemma2:9b", cfg.Chat.DefaultModel)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload config")
	}
}
