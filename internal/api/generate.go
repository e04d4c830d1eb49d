// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/jeranaias/thinkchat-tui/internal/model"
)

// =============================================================================
// TURN GENERATION
// =============================================================================

// TurnMessage is the wire form of one history entry in a /generate request.
type TurnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is the body of POST /generate. Sent exactly once per
// turn; never retried.
type GenerateRequest struct {
	Messages       []TurnMessage `json:"messages"`
	Model          string        `json:"model"`
	NewMessage     TurnMessage   `json:"newMessage"`
	Incognito      bool          `json:"incognito"`
	IsRegeneration bool          `json:"is_regeneration"`
}

// GenerateResponse is the success envelope of POST /generate.
type GenerateResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`

	// UserMessageContent echoes the user message the server actually saved.
	// It differs from the submitted text when the server wrapped it with
	// search results or file context.
	UserMessageContent string `json:"user_message_content"`

	Usage                 *model.Usage `json:"usage"`
	GenerationTimeSeconds float64      `json:"generation_time_seconds"`
	TokensPerSecond       float64      `json:"tokens_per_second"`
	ModelUsed             string       `json:"model_used"`
	SessionID             string       `json:"session_id"`
}

// HistoryFromMessages converts stored history to the wire form.
func HistoryFromMessages(msgs []*model.Message) []TurnMessage {
	out := make([]TurnMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, TurnMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// Generate runs one turn. The call has no client timeout; generation can
// take minutes and is cancelled only through ctx. A 204 response is the
// server-side cancel sentinel and returns ErrServerCancelled.
func (c *Client) Generate(ctx context.Context, genReq *GenerateRequest) (*GenerateResponse, error) {
	data, err := json.Marshal(genReq)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/generate", bytes.NewReader(data))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.longClient.Do(req)
	if err != nil {
		return nil, c.wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, ErrServerCancelled
	}
	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if out.Message.Content == "" {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "empty assistant message in response"}
	}
	return &out, nil
}
