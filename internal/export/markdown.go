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
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes a transcript as a Markdown document.
type MarkdownExporter struct {
	options *Options
}

func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil || len(t.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	var sb strings.Builder

	title := t.Title
	if title == "" {
		title = "Conversation"
	}
	sb.WriteString("# " + title + "\n\n")

	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("- **Session**: %s\n", t.SessionID))
		if !t.LastUpdated.IsZero() {
			sb.WriteString(fmt.Sprintf("- **Last updated**: %s\n", t.LastUpdated.Format(time.RFC1123)))
		}
		sb.WriteString(fmt.Sprintf("- **Exported**: %s\n\n", time.Now().Format(time.RFC1123)))
		sb.WriteString("---\n\n")
	}

	for _, m := range t.Messages {
		switch m.Role {
		case model.RoleUser:
			sb.WriteString("## 👤 You\n\n")
			sb.WriteString(content.ParseUser(m.Content).Question)
			sb.WriteString("\n\n")
		case model.RoleAssistant:
			sb.WriteString("## 🤖 Assistant")
			if m.ModelUsed != "" {
				sb.WriteString(" (" + m.ModelUsed + ")")
			}
			sb.WriteString("\n\n")
			answer := content.ParseAssistant(m.Content)
			if e.options.IncludeThoughts {
				for _, thought := range answer.Thoughts {
					sb.WriteString("> " + strings.ReplaceAll(thought, "\n", "\n> ") + "\n\n")
				}
			}
			sb.WriteString(answer.Main)
			sb.WriteString("\n\n")
		case model.RoleSystem:
			sb.WriteString("> *" + m.Preview(200) + "*\n\n")
		}
	}

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) FileExtension() string { return ".md" }
