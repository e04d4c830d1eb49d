// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// =============================================================================
// LOCAL MODEL ENDPOINTS
// =============================================================================

// LocalModel is one entry of GET /api/models: an installed Ollama model
// plus the backend's active flag.
type LocalModel struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
	ModifiedAt time.Time `json:"modified_at"`
	Active     bool      `json:"active"`
}

type modelsEnvelope struct {
	Models []LocalModel `json:"models"`
}

// Models lists installed local models.
func (c *Client) Models(ctx context.Context) ([]LocalModel, error) {
	var out modelsEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/api/models", nil, &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

// DeleteModel removes an installed model by name.
func (c *Client) DeleteModel(ctx context.Context, name string) error {
	body := map[string]string{"name": name}
	return c.doJSON(ctx, http.MethodPost, "/api/models/delete", body, nil)
}

// DeleteAllModels removes every installed model.
func (c *Client) DeleteAllModels(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/models/delete/all", nil, nil)
}

// ToggleLocalModel sets a local model's active flag.
func (c *Client) ToggleLocalModel(ctx context.Context, name string, active bool) error {
	body := map[string]any{"name": name, "active": active}
	return c.doJSON(ctx, http.MethodPost, "/api/local_models/toggle_active", body, nil)
}

// =============================================================================
// MODEL PULL (NDJSON STREAM)
// =============================================================================

// PullModel starts a model download and returns a PullReader over the
// backend's NDJSON progress stream. The stream has no client timeout;
// cancel through ctx. Callers must Close the reader.
func (c *Client) PullModel(ctx context.Context, name string) (*PullReader, error) {
	if name == "" {
		return nil, &ClientError{Type: ErrTypeBadRequest, Message: "model name is required"}
	}

	data, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/models/pull", bytes.NewReader(data))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.longClient.Do(req)
	if err != nil {
		return nil, c.wrapTransportError(err)
	}

	if err := c.checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return NewPullReader(resp.Body), nil
}
