// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL chat command.
//
// Command: chat
// Short:   Converse with the backend from a plain terminal
//
// Interactive commands:
//   /help               Show available commands
//   /new                Start a fresh conversation
//   /model [name]       Show or switch model
//   /search             Arm web search for the next message
//   /history            Print the local conversation so far
//   /quit               Exit (also Ctrl+D)
//   Ctrl+C              Cancel the in-flight generation
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
	"github.com/jeranaias/thinkchat-tui/internal/content"
	"github.com/jeranaias/thinkchat-tui/internal/model"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// replInput wraps liner with a persisted history file.
type replInput struct {
	line        *liner.State
	historyFile string
}

func newREPLInput() *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &replInput{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	if f, err := os.Open(in.historyFile); err == nil {
		in.line.ReadHistory(f)
		f.Close()
	}
	return in
}

func (in *replInput) read(prompt string) (string, error) {
	text, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		in.line.AppendHistory(text)
	}
	return text, nil
}

func (in *replInput) close() {
	if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		in.line.WriteHistory(f)
		f.Close()
	}
	in.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// HandleChat runs the interactive REPL loop.
func HandleChat(args Args) error {
	cfg := config.Global()
	client := clientFromConfig(cfg)

	modelName := cfg.Chat.DefaultModel
	if args.Model != "" {
		modelName = args.Model
	}
	incognito := args.Incognito || cfg.Chat.Incognito

	conv := model.NewConversation()
	searchArmed := false

	input := newREPLInput()
	defer input.close()

	if !args.Quiet {
		fmt.Println(headerStyle.Render("thinkchat interactive"))
		fmt.Println(infoStyle.Render("model: " + modelName + "  ·  /help for commands"))
		if incognito {
			fmt.Println(warnStyle.Render("incognito: this conversation is not saved server-side"))
		}
		fmt.Println()
	}

	for {
		text, err := input.read(promptStyle.Render("❯ "))
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		switch {
		case text == "/quit" || text == "/q" || text == "/exit":
			return nil
		case text == "/help" || text == "/h":
			printREPLHelp()
			continue
		case text == "/new":
			conv.Clear()
			fmt.Println(okStyle.Render("started a fresh conversation"))
			continue
		case text == "/search":
			searchArmed = !searchArmed
			if searchArmed {
				fmt.Println(okStyle.Render("web search armed for the next message"))
			} else {
				fmt.Println(infoStyle.Render("web search disarmed"))
			}
			continue
		case text == "/model":
			fmt.Println(infoStyle.Render("model: " + modelName))
			continue
		case strings.HasPrefix(text, "/model "):
			modelName = strings.TrimSpace(strings.TrimPrefix(text, "/model "))
			fmt.Println(okStyle.Render("model: " + modelName))
			continue
		case text == "/history":
			printHistory(conv)
			continue
		case strings.HasPrefix(text, "/"):
			fmt.Println(warnStyle.Render("unknown command, /help lists them"))
			continue
		}

		outgoing := text
		if searchArmed {
			outgoing = cfg.Chat.SearchCommand + " " + text
			searchArmed = false
		}

		if err := runREPLTurn(client, conv, modelName, outgoing, incognito, args.Quiet); err != nil {
			fmt.Println(errStyle.Render("❌ Error: " + err.Error()))
		}
	}
}

// runREPLTurn sends one turn and, on success, appends the pair to the
// local history. Ctrl+C cancels just the generation, not the REPL.
func runREPLTurn(client *api.Client, conv *model.Conversation, modelName, outgoing string, incognito, quiet bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := &api.GenerateRequest{
		Messages:   api.HistoryFromMessages(conv.Messages()),
		Model:      modelName,
		NewMessage: api.TurnMessage{Role: "user", Content: outgoing},
		Incognito:  incognito,
	}

	resp, err := client.Generate(ctx, req)
	if err != nil {
		if api.IsCancelled(err) || api.IsServerCancelled(err) {
			fmt.Println(infoStyle.Render("(cancelled)"))
			return nil
		}
		return err
	}

	answer := content.ParseAssistant(resp.Message.Content)
	if !quiet {
		for _, thought := range answer.Thoughts {
			fmt.Println(thoughtStyle.Render(thought))
			fmt.Println()
		}
	}
	fmt.Print(renderMarkdown(answer.Main))
	if !quiet && resp.GenerationTimeSeconds > 0 {
		fmt.Println(infoStyle.Render(
			fmt.Sprintf("%s · %.1fs · %.1f tok/s", resp.ModelUsed, resp.GenerationTimeSeconds, resp.TokensPerSecond)))
	}
	fmt.Println()

	saved := resp.UserMessageContent
	if saved == "" {
		saved = outgoing
	}
	conv.AppendPair(model.NewUserMessage(saved), model.NewAssistantMessage(resp.Message.Content))
	return nil
}

func printHistory(conv *model.Conversation) {
	msgs := conv.Messages()
	if len(msgs) == 0 {
		fmt.Println(infoStyle.Render("no messages yet"))
		return
	}
	for _, m := range msgs {
		switch m.Role {
		case model.RoleUser:
			fmt.Println(promptStyle.Render("you: ") + content.ParseUser(m.Content).Question)
		case model.RoleAssistant:
			fmt.Println(headerStyle.Render("assistant: ") + m.Preview(200))
		}
	}
}

func printREPLHelp() {
	fmt.Println(`Commands:
  /new            Start a fresh conversation
  /model [name]   Show or switch model
  /search         Arm web search for the next message
  /history        Print the conversation so far
  /quit           Exit`)
}
