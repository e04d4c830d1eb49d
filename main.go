// thinkchat - a terminal client for an Ollama-backed chat server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/cli"
	"github.com/jeranaias/thinkchat-tui/internal/config"
	"github.com/jeranaias/thinkchat-tui/internal/storage"
	"github.com/jeranaias/thinkchat-tui/internal/ui/chat"
	"github.com/jeranaias/thinkchat-tui/internal/util"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdSessions:
		err = cli.HandleSessions(args)
	case cli.CmdModels:
		err = cli.HandleModels(args)
	case cli.CmdPrompts:
		err = cli.HandlePrompts(args)
	case cli.CmdCloud:
		err = cli.HandleCloud(args)
	case cli.CmdSecrets:
		err = cli.HandleSecrets(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdExport:
		err = cli.HandleExport(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp(args)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runTUI(args cli.Args) error {
	cfg := config.Global()
	if args.Model != "" {
		cfg.Chat.DefaultModel = args.Model
	}
	if args.Incognito {
		cfg.Chat.Incognito = true
	}

	if cfg.Log.Enabled && cfg.Log.File != "" {
		if err := util.InitDebugLog(cfg.Log.File); err != nil {
			fmt.Fprintf(os.Stderr, "warning: debug log unavailable: %v\n", err)
		} else {
			defer util.CloseDebugLog()
		}
	}

	client := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:                cfg.Backend.BaseURL,
		Timeout:                cfg.Timeout(),
		SidebarRefreshInterval: cfg.SidebarRefresh(),
	})

	// UI state survives restarts; a broken state database is not fatal.
	var store *storage.StateStore
	if path, err := storage.DefaultPath(); err == nil {
		if s, err := storage.Open(path); err == nil {
			store = s
			defer s.Close()
		}
	}

	// Config edits are picked up live while the TUI runs.
	if tomlPath, err := config.ConfigPathTOML(); err == nil {
		if watcher, err := config.NewWatcher(tomlPath, nil); err == nil {
			if err := watcher.Watch(); err == nil {
				defer watcher.Close()
			}
		}
	}

	p := tea.NewProgram(
		chat.New(cfg, client, store),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
