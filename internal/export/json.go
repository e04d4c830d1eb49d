// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/thinkchat-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes a transcript as a JSON document for machine
// consumption. Raw message content is preserved untouched.
type JSONExporter struct {
	options *Options
}

func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonTranscript struct {
	SessionID   string           `json:"session_id"`
	Title       string           `json:"title"`
	LastUpdated *time.Time       `json:"last_updated,omitempty"`
	ExportedAt  time.Time        `json:"exported_at"`
	Messages    []*model.Message `json:"messages"`
}

func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil || len(t.Messages) == 0 {
		return nil, fmt.Errorf("transcript has no messages")
	}

	doc := jsonTranscript{
		SessionID:  t.SessionID,
		Title:      t.Title,
		ExportedAt: time.Now(),
		Messages:   t.Messages,
	}
	if !t.LastUpdated.IsZero() {
		doc.LastUpdated = &t.LastUpdated
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (e *JSONExporter) FileExtension() string { return ".json" }
