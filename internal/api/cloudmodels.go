// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// =============================================================================
// CLOUD MODEL ENDPOINTS
// =============================================================================

// CloudModelPrefix marks a model value as a configured cloud model; the
// remainder is the configuration's server ID.
const CloudModelPrefix = "cloud::"

// CloudModel is a configured cloud model credential. The list endpoint
// redacts the key to APIKeyPartial; the detail endpoint returns APIKey.
type CloudModel struct {
	ID            int    `json:"id"`
	Service       string `json:"service"`
	BaseURL       string `json:"base_url"`
	ModelName     string `json:"model_name"`
	APIKey        string `json:"api_key,omitempty"`
	APIKeyPartial string `json:"api_key_partial,omitempty"`
	Active        bool   `json:"active"`
}

// Value returns the model selector value ("cloud::<id>") for this entry.
func (m CloudModel) Value() string {
	return CloudModelPrefix + strconv.Itoa(m.ID)
}

// DisplayName returns the "service / model" label used in pickers.
func (m CloudModel) DisplayName() string {
	return m.Service + " / " + m.ModelName
}

// IsCloudModelValue reports whether a model selector refers to a cloud
// model configuration.
func IsCloudModelValue(v string) bool {
	return strings.HasPrefix(v, CloudModelPrefix)
}

// CloudModels lists all configured cloud models with redacted keys.
func (c *Client) CloudModels(ctx context.Context) ([]CloudModel, error) {
	var out []CloudModel
	if err := c.doJSON(ctx, http.MethodGet, "/api/cloud_models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CloudModel fetches one configuration with the full API key, used to
// prefill the edit form.
func (c *Client) CloudModel(ctx context.Context, id int) (*CloudModel, error) {
	var out CloudModel
	path := fmt.Sprintf("/api/cloud_models/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCloudModel saves a new configuration and returns its server ID.
func (c *Client) CreateCloudModel(ctx context.Context, m CloudModel) (int, error) {
	if m.Service == "" || m.BaseURL == "" || m.APIKey == "" || m.ModelName == "" {
		return 0, &ClientError{Type: ErrTypeBadRequest, Message: "service, base URL, API key, and model name are required"}
	}

	var out struct {
		Success bool `json:"success"`
		ID      int  `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/cloud_models/create", m, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateCloudModel updates the provided fields. An empty APIKey means
// "keep the existing key" and is omitted from the request.
func (c *Client) UpdateCloudModel(ctx context.Context, m CloudModel) error {
	body := map[string]string{}
	if m.Service != "" {
		body["service"] = m.Service
	}
	if m.BaseURL != "" {
		body["base_url"] = m.BaseURL
	}
	if m.ModelName != "" {
		body["model_name"] = m.ModelName
	}
	if m.APIKey != "" {
		body["api_key"] = m.APIKey
	}
	if len(body) == 0 {
		return &ClientError{Type: ErrTypeBadRequest, Message: "no fields to update"}
	}

	path := fmt.Sprintf("/api/cloud_models/update/%d", m.ID)
	return c.doJSON(ctx, http.MethodPost, path, body, nil)
}

// DeleteCloudModel removes a configuration.
func (c *Client) DeleteCloudModel(ctx context.Context, id int) error {
	path := fmt.Sprintf("/api/cloud_models/delete/%d", id)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// ToggleCloudModel sets a configuration's active flag.
func (c *Client) ToggleCloudModel(ctx context.Context, id int, active bool) error {
	body := map[string]bool{"active": active}
	path := fmt.Sprintf("/api/cloud_models/toggle_active/%d", id)
	return c.doJSON(ctx, http.MethodPost, path, body, nil)
}
