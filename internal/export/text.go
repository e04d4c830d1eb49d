// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/thinkchat-tui/internal/content"
	"github.com/jeranaias/thinkchat-tui/internal/model"
)

// =============================================================================
// PLAIN TEXT EXPORTER
// =============================================================================

// TextExporter writes a transcript as plain text.
type TextExporter struct {
	options *Options
}

func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

func (e *TextExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil || len(t.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString(t.Title + "\n")
		sb.WriteString(strings.Repeat("=", len(t.Title)) + "\n")
		sb.WriteString("Session: " + t.SessionID + "\n")
		sb.WriteString("Exported: " + time.Now().Format(time.RFC1123) + "\n\n")
	}

	for _, m := range t.Messages {
		switch m.Role {
		case model.RoleUser:
			sb.WriteString("You:\n")
			sb.WriteString(content.ParseUser(m.Content).Question)
		case model.RoleAssistant:
			sb.WriteString("Assistant:\n")
			sb.WriteString(content.ParseAssistant(m.Content).Main)
		case model.RoleSystem:
			sb.WriteString("[" + m.Preview(200) + "]")
		}
		sb.WriteString("\n\n")
	}

	return []byte(sb.String()), nil
}

func (e *TextExporter) FileExtension() string { return ".txt" }
