// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// Command: ask
// Short:   Ask a single question and print the answer
//
// Examples:
//   thinkchat ask "how do goroutines work"
//   thinkchat ask --search "latest go release"
//   thinkchat ask -f notes.txt "summarize this"
//   thinkchat ask -m qwen2.5:7b "translate to french: hello"
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
	"github.com/jeranaias/thinkchat-tui/internal/content"
)

// markdownRenderer is the shared glamour renderer for CLI output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(TerminalWidth(), 100)),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

func renderMarkdown(text string) string {
	if markdownRenderer == nil || !IsStdoutTTY() {
		return text
	}
	out, err := markdownRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// clientFromConfig builds the API client from the loaded config plus
// any --model style overrides.
func clientFromConfig(cfg *config.Config) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:                cfg.Backend.BaseURL,
		Timeout:                cfg.Timeout(),
		SidebarRefreshInterval: cfg.SidebarRefresh(),
	})
}

// HandleAsk runs one turn against the backend and prints the answer.
func HandleAsk(args Args) error {
	question := strings.TrimSpace(args.Query)
	if question == "" {
		return fmt.Errorf("usage: thinkchat ask \"question\"")
	}

	cfg := config.Global()
	client := clientFromConfig(cfg)

	modelName := cfg.Chat.DefaultModel
	if args.Model != "" {
		modelName = args.Model
	}

	outgoing := question
	if args.Subcommand == "search" {
		outgoing = cfg.Chat.SearchCommand + " " + question
	}
	if args.File != "" {
		doc, err := os.ReadFile(args.File)
		if err != nil {
			return fmt.Errorf("read context file: %w", err)
		}
		outgoing = fmt.Sprintf(
			"Based on the content of the document '%s' provided below, please answer the following question.\n\n---\n\nDOCUMENT CONTENT:\n%s\n\n---\n\nQUESTION:\n%s",
			args.File, string(doc), question)
	}

	// One-shot questions never create a server-side session.
	req := &api.GenerateRequest{
		Model:      modelName,
		NewMessage: api.TurnMessage{Role: "user", Content: outgoing},
		Incognito:  true,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !args.Quiet {
		fmt.Fprintln(os.Stderr, infoStyle.Render("thinking..."))
	}

	resp, err := client.Generate(ctx, req)
	if err != nil {
		if api.IsCancelled(err) {
			return nil
		}
		return err
	}

	answer := content.ParseAssistant(resp.Message.Content)
	if !args.Quiet {
		for _, thought := range answer.Thoughts {
			fmt.Println(thoughtStyle.Render(thought))
			fmt.Println()
		}
	}
	fmt.Print(renderMarkdown(answer.Main))

	if !args.Quiet && resp.GenerationTimeSeconds > 0 {
		fmt.Fprintln(os.Stderr, infoStyle.Render(
			fmt.Sprintf("%s · %.1fs · %.1f tok/s", resp.ModelUsed, resp.GenerationTimeSeconds, resp.TokensPerSecond)))
	}
	return nil
}
