// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for thinkchat.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdModels
	CmdPrompts
	CmdCloud
	CmdSecrets
	CmdConfig
	CmdStatus
	CmdExport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet     bool
	JSON      bool
	Model     string
	Incognito bool

	// Command-specific
	Query      string
	File       string
	Subcommand string

	// Raw args remaining after global flag parsing
	Raw []string
}

const usageText = `thinkchat - terminal client for an Ollama-backed chat server

Usage:
  thinkchat                      Start the TUI (default)
  thinkchat ask "question"       Ask a single question
    -f, --file PATH              Attach a text file as context
    --search                     Augment with web search
  thinkchat chat                 Interactive REPL chat
  thinkchat sessions [subcommand]
    list                         List saved sessions, grouped by age
    show <id>                    Print a session transcript
    rename <id> <title>          Rename a session
    delete <id> --confirm        Delete a session
    delete-all --confirm         Delete every session
    export <id> [--format md|txt|json] [--output FILE]
  thinkchat models [subcommand]
    list                         List local and cloud models
    pull <name>                  Pull a model, with progress
    toggle <name>                Enable or disable a local model
    delete <name> --confirm      Delete a local model
  thinkchat prompts [subcommand] Manage saved prompts
  thinkchat cloud [subcommand]   Manage cloud model configs
  thinkchat secrets [subcommand] Local encrypted secret vault
  thinkchat config [show|set|path]
  thinkchat status               Backend health and usage stats
  thinkchat version              Show version

Global flags:
  -m, --model NAME    Use a specific model
  --incognito         Do not persist the conversation server-side
  -q, --quiet         Minimal output
  --json              Machine-readable output where supported
`

// Parse reads os.Args and returns the command plus parsed arguments.
func Parse() (Command, Args) {
	raw := os.Args[1:]
	remaining, args := parseGlobalFlags(raw)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		args.Subcommand = remaining[0]
	}

	switch cmd {
	case "tui":
		return CmdTUI, args
	case "ask":
		parseAskArgs(&args, remaining)
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "session", "sessions":
		return CmdSessions, args
	case "model", "models":
		return CmdModels, args
	case "prompt", "prompts":
		return CmdPrompts, args
	case "cloud":
		return CmdCloud, args
	case "secret", "secrets", "vault":
		return CmdSecrets, args
	case "config":
		return CmdConfig, args
	case "status", "s":
		return CmdStatus, args
	case "export":
		return CmdExport, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

func parseGlobalFlags(raw []string) ([]string, Args) {
	var args Args
	var remaining []string

	i := 0
	for i < len(raw) {
		switch raw[i] {
		case "-q", "--quiet":
			args.Quiet = true
		case "--json":
			args.JSON = true
		case "--incognito":
			args.Incognito = true
		case "-m", "--model":
			if i+1 < len(raw) {
				i++
				args.Model = raw[i]
			}
		default:
			remaining = append(remaining, raw[i])
		}
		i++
	}
	return remaining, args
}

func parseAskArgs(args *Args, remaining []string) {
	var queryParts []string
	i := 0
	for i < len(remaining) {
		switch remaining[i] {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "--search":
			args.Subcommand = "search"
		default:
			queryParts = append(queryParts, remaining[i])
		}
		i++
	}
	args.Query = strings.Join(queryParts, " ")
}

// HandleHelp prints usage.
func HandleHelp(Args) {
	fmt.Print(usageText)
}

// HandleVersion prints build information.
func HandleVersion(args Args) {
	if args.Quiet {
		fmt.Println(Version)
		return
	}
	fmt.Printf("thinkchat %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
