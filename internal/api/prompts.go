// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
)

// =============================================================================
// PROMPT TEMPLATE ENDPOINTS
// =============================================================================

// Prompt is a saved prompt template.
type Prompt struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

type promptCreateResponse struct {
	Success bool `json:"success"`
	ID      int  `json:"id"`
}

// Prompts lists all saved prompt templates, newest first.
func (c *Client) Prompts(ctx context.Context) ([]Prompt, error) {
	var out []Prompt
	if err := c.doJSON(ctx, http.MethodGet, "/api/prompts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreatePrompt saves a new prompt template and returns its server ID.
func (c *Client) CreatePrompt(ctx context.Context, p Prompt) (int, error) {
	if p.Title == "" || p.Type == "" || p.Content == "" {
		return 0, &ClientError{Type: ErrTypeBadRequest, Message: "prompt title, type, and content are required"}
	}

	var out promptCreateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/prompts/create", p, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdatePrompt replaces an existing prompt template.
func (c *Client) UpdatePrompt(ctx context.Context, p Prompt) error {
	if p.Title == "" || p.Type == "" || p.Content == "" {
		return &ClientError{Type: ErrTypeBadRequest, Message: "prompt title, type, and content are required"}
	}
	path := fmt.Sprintf("/api/prompts/update/%d", p.ID)
	return c.doJSON(ctx, http.MethodPost, path, p, nil)
}

// DeletePrompt removes a prompt template.
func (c *Client) DeletePrompt(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/prompts/delete/%d", id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}
