// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - Session management commands.
//
// Command: sessions
// Subcommands: list, show, rename, delete, delete-all, export
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
	"github.com/jeranaias/thinkchat-tui/internal/content"
	"github.com/jeranaias/thinkchat-tui/internal/export"
	"github.com/jeranaias/thinkchat-tui/internal/model"
	"github.com/jeranaias/thinkchat-tui/internal/session"
)

// HandleExport is the top-level alias for "sessions export".
func HandleExport(args Args) error {
	args.Raw = append([]string{"export"}, args.Raw...)
	return HandleSessions(args)
}

// HandleSessions dispatches the sessions subcommands.
func HandleSessions(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := config.Global()
	client := clientFromConfig(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	switch parser.Subcommand() {
	case "", "list":
		return listSessions(ctx, client, args.JSON || parser.BoolFlag("json"))
	case "show":
		return showSession(ctx, client, parser.Positional(0))
	case "rename":
		rest := parser.Rest()
		title := ""
		if len(rest) > 1 {
			title = strings.Join(rest[1:], " ")
		}
		return renameSession(ctx, client, parser.Positional(0), title)
	case "delete":
		return deleteSession(ctx, client, parser.Positional(0), parser.BoolFlag("confirm"))
	case "delete-all":
		return deleteAllSessions(ctx, client, parser.BoolFlag("confirm"))
	case "export":
		return exportSession(ctx, client, parser)
	default:
		return fmt.Errorf("unknown sessions subcommand %q", parser.Subcommand())
	}
}

// listSessions prints the saved sessions grouped by age, the same
// buckets the TUI sidebar uses.
func listSessions(ctx context.Context, client *api.Client, asJSON bool) error {
	sessions, err := client.Sessions(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println(infoStyle.Render("no saved sessions"))
		return nil
	}

	for _, bucket := range session.GroupSessions(sessions, time.Now()) {
		fmt.Println(headerStyle.Render(bucket.Label))
		for _, s := range bucket.Sessions {
			fmt.Printf("  %s  %s\n", s.SessionID, s.Summary)
		}
		fmt.Println()
	}
	return nil
}

func showSession(ctx context.Context, client *api.Client, id string) error {
	if id == "" {
		return fmt.Errorf("usage: thinkchat sessions show <id>")
	}
	msgs, err := client.SessionHistory(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		switch m.Role {
		case model.RoleUser:
			fmt.Println(promptStyle.Render("you: ") + content.ParseUser(m.Content).Question)
		case model.RoleAssistant:
			fmt.Println(headerStyle.Render("assistant:"))
			fmt.Print(renderMarkdown(content.ParseAssistant(m.Content).Main))
		case model.RoleSystem:
			fmt.Println(infoStyle.Render("[" + m.Preview(120) + "]"))
		}
		fmt.Println()
	}
	return nil
}

func renameSession(ctx context.Context, client *api.Client, id, title string) error {
	if id == "" || strings.TrimSpace(title) == "" {
		return fmt.Errorf("usage: thinkchat sessions rename <id> <title>")
	}
	if err := client.RenameSession(ctx, id, strings.TrimSpace(title)); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("renamed"))
	return nil
}

func deleteSession(ctx context.Context, client *api.Client, id string, confirmed bool) error {
	if id == "" {
		return fmt.Errorf("usage: thinkchat sessions delete <id> --confirm")
	}
	if !confirmed {
		return fmt.Errorf("deleting a session is permanent, re-run with --confirm")
	}
	if err := client.DeleteSession(ctx, id); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("deleted " + id))
	return nil
}

func deleteAllSessions(ctx context.Context, client *api.Client, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("deleting all sessions is permanent, re-run with --confirm")
	}
	if err := client.DeleteAllSessions(ctx); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("all sessions deleted"))
	return nil
}

func exportSession(ctx context.Context, client *api.Client, parser *ArgParser) error {
	id := parser.Positional(0)
	if id == "" {
		return fmt.Errorf("usage: thinkchat sessions export <id> [--format md|txt|json] [--output FILE]")
	}

	msgs, err := client.SessionHistory(ctx, id)
	if err != nil {
		return err
	}

	title := ""
	if sessions, err := client.Sessions(ctx); err == nil {
		for _, s := range sessions {
			if s.SessionID == id {
				title = s.Summary
				break
			}
		}
	}

	t := &export.Transcript{
		SessionID: id,
		Title:     title,
		Messages:  msgs,
	}

	format := parser.FlagOr("format", "md")
	opts := export.DefaultOptions()
	opts.IncludeThoughts = parser.BoolFlag("thoughts")

	path := parser.Flag("output")
	if path == "" {
		path = export.DefaultFilename(t, format)
	}
	if err := export.WriteFile(path, t, format, opts); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("exported to " + path))
	return nil
}
