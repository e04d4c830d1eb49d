// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models_cmd.go - Local model management commands.
//
// Command: models
// Subcommands: list, pull, toggle, delete, delete-all
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
)

// HandleModels dispatches the models subcommands.
func HandleModels(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := config.Global()
	client := clientFromConfig(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	switch parser.Subcommand() {
	case "", "list":
		return listModels(ctx, client, args.JSON || parser.BoolFlag("json"))
	case "pull":
		// Pulls run without a deadline; multi-gigabyte downloads take
		// as long as they take.
		return pullModel(context.Background(), client, parser.Positional(0))
	case "toggle":
		return toggleModel(ctx, client, parser.Positional(0))
	case "delete":
		return deleteModel(ctx, client, parser.Positional(0), parser.BoolFlag("confirm"))
	case "delete-all":
		if !parser.BoolFlag("confirm") {
			return fmt.Errorf("deleting all models is permanent, re-run with --confirm")
		}
		if err := client.DeleteAllModels(ctx); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("all local models deleted"))
		return nil
	default:
		return fmt.Errorf("unknown models subcommand %q", parser.Subcommand())
	}
}

func listModels(ctx context.Context, client *api.Client, asJSON bool) error {
	local, err := client.Models(ctx)
	if err != nil {
		return err
	}
	cloud, cloudErr := client.CloudModels(ctx)

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"local": local,
			"cloud": cloud,
		})
	}

	fmt.Println(headerStyle.Render("Local models"))
	if len(local) == 0 {
		fmt.Println(infoStyle.Render("  none installed"))
	}
	for _, m := range local {
		marker := " "
		if m.Active {
			marker = okStyle.Render("●")
		}
		fmt.Printf("  %s %-32s %s\n", marker, m.Name, humanSize(m.Size))
	}

	if cloudErr == nil && len(cloud) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("Cloud models"))
		for _, m := range cloud {
			marker := " "
			if m.Active {
				marker = okStyle.Render("●")
			}
			fmt.Printf("  %s %-32s %s\n", marker, m.DisplayName(), m.Service)
		}
	}
	return nil
}

// pullModel streams NDJSON progress from the backend and renders a
// single updating line per layer.
func pullModel(ctx context.Context, client *api.Client, name string) error {
	if name == "" {
		return fmt.Errorf("usage: thinkchat models pull <name>")
	}

	stream, err := client.PullModel(ctx, name)
	if err != nil {
		return err
	}
	defer stream.Close()

	lastStatus := ""
	for {
		progress, err := stream.Next()
		if err != nil {
			break
		}
		if progress.Error != "" {
			fmt.Println()
			return fmt.Errorf("pull failed: %s", progress.Error)
		}
		if progress.Done() {
			fmt.Println()
			fmt.Println(okStyle.Render("pulled " + name))
			return nil
		}

		if pct := progress.Percent(); pct >= 0 {
			fmt.Printf("\r%-24s %5.1f%%  %s", progress.Status, pct, shortDigest(progress.Digest))
		} else if progress.Status != lastStatus {
			fmt.Printf("\r%-60s", progress.Status)
		}
		lastStatus = progress.Status
	}

	fmt.Println()
	return fmt.Errorf("pull stream ended before completion")
}

func toggleModel(ctx context.Context, client *api.Client, name string) error {
	if name == "" {
		return fmt.Errorf("usage: thinkchat models toggle <name>")
	}
	local, err := client.Models(ctx)
	if err != nil {
		return err
	}
	for _, m := range local {
		if m.Name == name {
			if err := client.ToggleLocalModel(ctx, name, !m.Active); err != nil {
				return err
			}
			if m.Active {
				fmt.Println(okStyle.Render("deactivated " + name))
			} else {
				fmt.Println(okStyle.Render("activated " + name))
			}
			return nil
		}
	}
	return fmt.Errorf("no local model named %s", name)
}

func deleteModel(ctx context.Context, client *api.Client, name string, confirmed bool) error {
	if name == "" {
		return fmt.Errorf("usage: thinkchat models delete <name> --confirm")
	}
	if !confirmed {
		return fmt.Errorf("deleting a model is permanent, re-run with --confirm")
	}
	if err := client.DeleteModel(ctx, name); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("deleted " + name))
	return nil
}

func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func shortDigest(digest string) string {
	digest = strings.TrimPrefix(digest, "sha256:")
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
