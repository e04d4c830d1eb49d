// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cloud_cmd.go - Cloud model configuration commands.
//
// Command: cloud
// Subcommands: list, add, update, delete, toggle
//
// API keys are prompted for interactively rather than passed on the
// command line, so they never land in shell history.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
)

// HandleCloud dispatches the cloud model subcommands.
func HandleCloud(args Args) error {
	parser := NewArgParser(args.Raw)
	cfg := config.Global()
	client := clientFromConfig(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	switch parser.Subcommand() {
	case "", "list":
		return listCloudModels(ctx, client, args.JSON || parser.BoolFlag("json"))
	case "add":
		return addCloudModel(ctx, client, parser)
	case "update":
		return updateCloudModel(ctx, client, parser)
	case "delete":
		id, err := cloudModelID(parser.Positional(0))
		if err != nil {
			return err
		}
		if !parser.BoolFlag("confirm") {
			return fmt.Errorf("deleting a cloud config is permanent, re-run with --confirm")
		}
		if err := client.DeleteCloudModel(ctx, id); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("deleted"))
		return nil
	case "toggle":
		return toggleCloudModel(ctx, client, parser.Positional(0))
	default:
		return fmt.Errorf("unknown cloud subcommand %q", parser.Subcommand())
	}
}

func listCloudModels(ctx context.Context, client *api.Client, asJSON bool) error {
	models, err := client.CloudModels(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(models)
	}
	if len(models) == 0 {
		fmt.Println(infoStyle.Render("no cloud models configured"))
		return nil
	}
	for _, m := range models {
		marker := " "
		if m.Active {
			marker = okStyle.Render("●")
		}
		fmt.Printf("%s %d  %-28s %-12s key %s\n", marker, m.ID, m.DisplayName(), m.Service, m.APIKeyPartial)
	}
	return nil
}

func addCloudModel(ctx context.Context, client *api.Client, parser *ArgParser) error {
	m := api.CloudModel{
		Service:   parser.Flag("service"),
		BaseURL:   parser.Flag("base-url"),
		ModelName: parser.Flag("model"),
	}
	if m.Service == "" || m.ModelName == "" {
		return fmt.Errorf("usage: thinkchat cloud add --service S --model M [--base-url URL]")
	}

	key, err := readPassphrase("API key for " + m.Service + ": ")
	if err != nil {
		return err
	}
	m.APIKey = strings.TrimSpace(string(key))
	if m.APIKey == "" {
		return fmt.Errorf("an API key is required")
	}

	id, err := client.CreateCloudModel(ctx, m)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("created %d, select it with %s", id, api.CloudModelPrefix+strconv.Itoa(id))))
	return nil
}

func updateCloudModel(ctx context.Context, client *api.Client, parser *ArgParser) error {
	id, err := cloudModelID(parser.Positional(0))
	if err != nil {
		return err
	}
	current, err := client.CloudModel(ctx, id)
	if err != nil {
		return err
	}

	updated := *current
	updated.APIKey = ""
	if v := parser.Flag("service"); v != "" {
		updated.Service = v
	}
	if v := parser.Flag("base-url"); v != "" {
		updated.BaseURL = v
	}
	if v := parser.Flag("model"); v != "" {
		updated.ModelName = v
	}
	if parser.BoolFlag("rotate-key") {
		key, err := readPassphrase("new API key: ")
		if err != nil {
			return err
		}
		// Left empty, the server keeps the existing key.
		updated.APIKey = strings.TrimSpace(string(key))
	}

	if err := client.UpdateCloudModel(ctx, updated); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("updated"))
	return nil
}

func toggleCloudModel(ctx context.Context, client *api.Client, rawID string) error {
	id, err := cloudModelID(rawID)
	if err != nil {
		return err
	}
	current, err := client.CloudModel(ctx, id)
	if err != nil {
		return err
	}
	if err := client.ToggleCloudModel(ctx, id, !current.Active); err != nil {
		return err
	}
	if current.Active {
		fmt.Println(okStyle.Render("deactivated"))
	} else {
		fmt.Println(okStyle.Render("activated"))
	}
	return nil
}

func cloudModelID(s string) (int, error) {
	s = strings.TrimPrefix(s, api.CloudModelPrefix)
	if s == "" {
		return 0, fmt.Errorf("a numeric cloud model id is required")
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cloud model id %q", s)
	}
	return id, nil
}
