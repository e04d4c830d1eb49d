// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// PULL PROGRESS STREAM
// =============================================================================

// PullProgress is one line of the model-pull NDJSON stream, relayed
// unchanged from the inference server.
type PullProgress struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Total     int64  `json:"total,omitempty"`
	Completed int64  `json:"completed,omitempty"`

	// Error is set when the backend injects a failure line mid-stream.
	Error string `json:"error,omitempty"`
}

// Percent returns download completion in [0,100], or -1 when the line
// carries no byte counts (status-only lines like "verifying sha256").
func (p *PullProgress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Completed) / float64(p.Total) * 100
}

// Done reports whether this line ends the pull.
func (p *PullProgress) Done() bool {
	return p.Status == "success"
}

// PullReader reads newline-delimited JSON progress lines from a model
// pull response body. Malformed lines are skipped rather than failing the
// whole download.
type PullReader struct {
	body   io.ReadCloser
	reader *bufio.Reader
}

// NewPullReader wraps a response body in a progress reader.
func NewPullReader(body io.ReadCloser) *PullReader {
	return &PullReader{
		body:   body,
		reader: bufio.NewReader(body),
	}
}

// Next returns the next progress line. io.EOF signals a cleanly finished
// stream; an Error field on the returned line signals a mid-stream failure.
func (r *PullReader) Next() (*PullProgress, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(line) != "" {
				// Final line without trailing newline.
				if p := parsePullLine(line); p != nil {
					return p, nil
				}
			}
			return nil, err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if p := parsePullLine(line); p != nil {
			return p, nil
		}
		// Skip malformed lines and keep reading.
	}
}

// Close releases the underlying response body.
func (r *PullReader) Close() error {
	return r.body.Close()
}

func parsePullLine(line string) *PullProgress {
	var p PullProgress
	if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &p); err != nil {
		return nil
	}
	return &p
}
