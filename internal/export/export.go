// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversation transcripts to files in various
// formats.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/thinkchat-tui/internal/model"
	"github.com/jeranaias/thinkchat-tui/internal/util"
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Transcript is the exportable view of one session.
type Transcript struct {
	SessionID   string
	Title       string
	LastUpdated time.Time
	Messages    []*model.Message
}

// Exporter converts a transcript to one output format.
type Exporter interface {
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string
}

// Options configures export behavior shared by all formats.
type Options struct {
	// IncludeMetadata includes a header with session id, model, and
	// export timestamp.
	IncludeMetadata bool

	// IncludeThoughts keeps the model's extracted thinking blocks in
	// the output instead of dropping them.
	IncludeThoughts bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() *Options {
	return &Options{IncludeMetadata: true}
}

// =============================================================================
// FORMAT SELECTION
// =============================================================================

// ForFormat returns the exporter for a format name ("md", "markdown",
// "txt", "text", "json").
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "md", "markdown", "":
		return NewMarkdownExporter(opts), nil
	case "txt", "text":
		return NewTextExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (md, txt, json)", format)
	}
}

// WriteFile exports a transcript to the given path atomically.
func WriteFile(path string, t *Transcript, format string, opts *Options) error {
	exp, err := ForFormat(format, opts)
	if err != nil {
		return err
	}
	data, err := exp.Export(t)
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, data, 0644)
}

// DefaultFilename suggests a filename for a transcript.
func DefaultFilename(t *Transcript, format string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		}
		return -1
	}, t.Title)
	if name == "" {
		name = t.SessionID
	}
	exp, err := ForFormat(format, nil)
	if err != nil {
		return name + ".md"
	}
	return name + exp.FileExtension()
}
