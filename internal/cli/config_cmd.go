// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration commands.
//
// Command: config
// Subcommands: show, set, path
package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/thinkchat-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		return showConfig()
	case "set":
		return setConfig(parser.Positional(0), parser.Positional(1))
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q", parser.Subcommand())
	}
}

func showConfig() error {
	cfg := config.Global()

	fmt.Println(headerStyle.Render("Backend"))
	fmt.Printf("  base_url:                %s\n", cfg.Backend.BaseURL)
	fmt.Printf("  timeout_seconds:         %d\n", cfg.Backend.TimeoutSeconds)
	fmt.Printf("  sidebar_refresh_seconds: %d\n", cfg.Backend.SidebarRefreshSeconds)

	fmt.Println(headerStyle.Render("Chat"))
	fmt.Printf("  default_model:  %s\n", cfg.Chat.DefaultModel)
	fmt.Printf("  incognito:      %t\n", cfg.Chat.Incognito)
	fmt.Printf("  search_command: %s\n", cfg.Chat.SearchCommand)

	fmt.Println(headerStyle.Render("UI"))
	fmt.Printf("  theme:             %s\n", cfg.UI.Theme)
	fmt.Printf("  sidebar_collapsed: %t\n", cfg.UI.SidebarCollapsed)
	fmt.Printf("  markdown_width:    %d\n", cfg.UI.MarkdownWidth)
	return nil
}

// setConfig updates one known key and writes the config back out.
func setConfig(key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: thinkchat config set <key> <value>")
	}

	cfg := config.Global()

	switch key {
	case "backend.base_url":
		cfg.Backend.BaseURL = value
	case "backend.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s needs an integer, got %q", key, value)
		}
		cfg.Backend.TimeoutSeconds = n
	case "chat.default_model":
		cfg.Chat.DefaultModel = value
	case "chat.incognito":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s needs true or false, got %q", key, value)
		}
		cfg.Chat.Incognito = b
	case "chat.search_command":
		cfg.Chat.SearchCommand = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.markdown_width":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s needs an integer, got %q", key, value)
		}
		cfg.UI.MarkdownWidth = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return err
	}
	fmt.Println(okStyle.Render(key + " = " + value))
	return nil
}
