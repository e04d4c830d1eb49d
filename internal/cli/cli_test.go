// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgParserFlagsAndPositionals(t *testing.T) {
	p := NewArgParser([]string{"export", "sess-1", "--format", "json", "--output=out.json", "--confirm"})

	assert.Equal(t, "export", p.Subcommand())
	assert.Equal(t, "sess-1", p.Positional(0))
	assert.Equal(t, "json", p.Flag("format"))
	assert.Equal(t, "out.json", p.Flag("output"))
	assert.True(t, p.BoolFlag("confirm"))
	assert.False(t, p.BoolFlag("json"))
}

func TestArgParserBooleanDoesNotEatPositional(t *testing.T) {
	// --confirm is a known boolean, so the id after it stays positional.
	p := NewArgParser([]string{"delete", "--confirm", "sess-2"})

	assert.Equal(t, "delete", p.Subcommand())
	assert.True(t, p.BoolFlag("confirm"))
	assert.Equal(t, "sess-2", p.Positional(0))
}

func TestArgParserExplicitBoolValue(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--active=true"})
	assert.False(t, p.BoolFlag("json"))
	assert.True(t, p.BoolFlag("active"))
}

func TestArgParserTrailingFlagIsBoolean(t *testing.T) {
	p := NewArgParser([]string{"list", "--json"})
	assert.True(t, p.BoolFlag("json"))
	assert.Empty(t, p.Flag("json"))
}

func TestArgParserFlagOr(t *testing.T) {
	p := NewArgParser([]string{"export", "--format", "txt"})
	assert.Equal(t, "txt", p.FlagOr("format", "md"))
	assert.Equal(t, "md", p.FlagOr("missing", "md"))
}

func TestArgParserRest(t *testing.T) {
	p := NewArgParser([]string{"rename", "sess-3", "My", "new", "title"})
	assert.Equal(t, []string{"sess-3", "My", "new", "title"}, p.Rest())
	assert.Nil(t, NewArgParser([]string{"list"}).Rest())
}

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"-m", "qwen2.5:7b", "ask", "--incognito", "hello", "-q"})

	assert.Equal(t, "qwen2.5:7b", args.Model)
	assert.True(t, args.Incognito)
	assert.True(t, args.Quiet)
	assert.Equal(t, []string{"ask", "hello"}, remaining)
}

func TestParseAskArgs(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"--search", "what", "is", "new", "-f", "notes.txt"})

	assert.Equal(t, "what is new", args.Query)
	assert.Equal(t, "notes.txt", args.File)
	assert.Equal(t, "search", args.Subcommand)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.0 KB", humanSize(1024))
	assert.Equal(t, "4.7 GB", humanSize(5_046_586_572))
}

func TestShortDigest(t *testing.T) {
	assert.Equal(t, "abcdef123456", shortDigest("sha256:abcdef1234567890"))
	assert.Equal(t, "abc", shortDigest("abc"))
}

func TestPreviewLineTruncates(t *testing.T) {
	assert.Equal(t, "first", previewLine("first\nsecond", 100))
	long := "aaaaaaaaaaaaaaaaaaaa"
	assert.Equal(t, "aaaaaaaaaa…", previewLine(long, 10))
}
