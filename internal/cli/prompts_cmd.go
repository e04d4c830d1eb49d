// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompts_cmd.go - Saved prompt management commands.
//
// Command: prompts
// Subcommands: list, add, update, delete
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
)

// HandlePrompts dispatches the prompts subcommands.
func HandlePrompts(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := config.Global()
	client := clientFromConfig(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	switch parser.Subcommand() {
	case "", "list":
		return listPrompts(ctx, client, args.JSON || parser.BoolFlag("json"))
	case "add":
		return addPrompt(ctx, client, parser)
	case "update":
		return updatePrompt(ctx, client, parser)
	case "delete":
		id, err := promptID(parser.Positional(0))
		if err != nil {
			return err
		}
		if err := client.DeletePrompt(ctx, id); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("deleted"))
		return nil
	default:
		return fmt.Errorf("unknown prompts subcommand %q", parser.Subcommand())
	}
}

func listPrompts(ctx context.Context, client *api.Client, asJSON bool) error {
	prompts, err := client.Prompts(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(prompts)
	}
	if len(prompts) == 0 {
		fmt.Println(infoStyle.Render("no saved prompts"))
		return nil
	}
	for _, p := range prompts {
		fmt.Printf("%d  %s  (%s)\n", p.ID, headerStyle.Render(p.Title), p.Type)
		fmt.Println(infoStyle.Render("  " + previewLine(p.Content, 100)))
	}
	return nil
}

func addPrompt(ctx context.Context, client *api.Client, parser *ArgParser) error {
	p := api.Prompt{
		Title:   parser.Flag("title"),
		Type:    parser.FlagOr("type", "user"),
		Content: parser.Flag("content"),
	}
	if p.Title == "" || p.Content == "" {
		return fmt.Errorf("usage: thinkchat prompts add --title T --content C [--type user|system]")
	}
	id, err := client.CreatePrompt(ctx, p)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("created %d", id)))
	return nil
}

func updatePrompt(ctx context.Context, client *api.Client, parser *ArgParser) error {
	id, err := promptID(parser.Positional(0))
	if err != nil {
		return err
	}

	prompts, err := client.Prompts(ctx)
	if err != nil {
		return err
	}
	var current *api.Prompt
	for i := range prompts {
		if prompts[i].ID == id {
			current = &prompts[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("no prompt with id %d", id)
	}

	updated := *current
	if v := parser.Flag("title"); v != "" {
		updated.Title = v
	}
	if v := parser.Flag("type"); v != "" {
		updated.Type = v
	}
	if v := parser.Flag("content"); v != "" {
		updated.Content = v
	}
	if err := client.UpdatePrompt(ctx, updated); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("updated"))
	return nil
}

func promptID(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("a numeric prompt id is required")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid prompt id %q", s)
	}
	return id, nil
}

func previewLine(s string, limit int) string {
	for i, r := range s {
		if r == '\n' {
			s = s[:i]
			break
		}
	}
	if len(s) > limit {
		return s[:limit] + "…"
	}
	return s
}
