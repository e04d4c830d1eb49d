// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Unified subcommand argument parsing.
//
// Every subcommand handler shares one parser so flags behave the same
// everywhere: --flag value, --flag=value, -f value, and bare boolean
// flags like --confirm.
package cli

import "strings"

// ArgParser splits raw arguments into a subcommand, flags, and
// positional arguments.
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

func NewArgParser(raw []string) *ArgParser {
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]
		if !strings.HasPrefix(arg, "-") {
			p.positional = append(p.positional, arg)
			i++
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if eq := strings.Index(name, "="); eq >= 0 {
			value := name[eq+1:]
			name = name[:eq]
			if value == "true" || value == "false" {
				p.boolFlags[name] = value == "true"
			} else {
				p.flags[name] = value
			}
			i++
			continue
		}

		// A flag followed by a non-flag token takes it as its value,
		// except for known boolean flags.
		if isBoolFlag(name) || i+1 >= len(raw) || strings.HasPrefix(raw[i+1], "-") {
			p.boolFlags[name] = true
			i++
			continue
		}
		p.flags[name] = raw[i+1]
		i += 2
	}
	return p
}

func isBoolFlag(name string) bool {
	switch name {
	case "confirm", "json", "quiet", "all", "active", "thoughts", "rotate-key":
		return true
	}
	return false
}

// Subcommand returns the first positional argument, or "".
func (p *ArgParser) Subcommand() string {
	if len(p.positional) == 0 {
		return ""
	}
	return p.positional[0]
}

// Positional returns the nth positional argument after the subcommand.
func (p *ArgParser) Positional(n int) string {
	idx := n + 1
	if idx >= len(p.positional) {
		return ""
	}
	return p.positional[idx]
}

// Rest returns all positional arguments after the subcommand.
func (p *ArgParser) Rest() []string {
	if len(p.positional) <= 1 {
		return nil
	}
	return p.positional[1:]
}

func (p *ArgParser) Flag(name string) string {
	return p.flags[name]
}

func (p *ArgParser) FlagOr(name, fallback string) string {
	if v, ok := p.flags[name]; ok {
		return v
	}
	return fallback
}

func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[name]
}
