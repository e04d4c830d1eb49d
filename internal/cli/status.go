// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend health and usage reporting.
//
// Command: status
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
)

// HandleStatus reports backend reachability and usage stats.
func HandleStatus(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := config.Global()
	client := clientFromConfig(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	reachable := client.CheckReachable(ctx) == nil

	var stats *api.UsageStats
	if reachable {
		r := api.UsageRange(parser.FlagOr("range", string(api.UsageAll)))
		stats, _ = client.UsageStats(ctx, r)
	}

	if args.JSON || parser.BoolFlag("json") {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"backend":   cfg.Backend.BaseURL,
			"reachable": reachable,
			"usage":     stats,
		})
	}

	fmt.Println(headerStyle.Render("Backend"))
	fmt.Printf("  url: %s\n", cfg.Backend.BaseURL)
	if reachable {
		fmt.Println("  status: " + okStyle.Render("reachable"))
	} else {
		fmt.Println("  status: " + errStyle.Render("unreachable"))
		return nil
	}

	if stats != nil {
		fmt.Println()
		fmt.Println(headerStyle.Render("Usage (" + stats.Range + ")"))
		fmt.Printf("  turns:             %d\n", stats.TotalTurns)
		fmt.Printf("  total tokens:      %d\n", stats.TotalTokens)
		fmt.Printf("  prompt tokens:     %d\n", stats.PromptTokens)
		fmt.Printf("  completion tokens: %d\n", stats.CompletionTokens)
		for name, tokens := range stats.ByModel {
			fmt.Printf("    %-28s %d\n", name, tokens)
		}
	}
	return nil
}
