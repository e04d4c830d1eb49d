// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
)

// =============================================================================
// USAGE ENDPOINT
// =============================================================================

// UsageRange selects the window for GET /api/usage.
type UsageRange string

const (
	UsageDay   UsageRange = "day"
	UsageWeek  UsageRange = "week"
	UsageMonth UsageRange = "month"
	UsageAll   UsageRange = "all"
)

// UsageStats is the aggregate token/turn accounting for a range.
type UsageStats struct {
	Range            string         `json:"range"`
	TotalTurns       int            `json:"total_turns"`
	TotalTokens      int            `json:"total_tokens"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	ByModel          map[string]int `json:"by_model,omitempty"`
}

// UsageStats fetches aggregate usage for the given range.
func (c *Client) UsageStats(ctx context.Context, r UsageRange) (*UsageStats, error) {
	if r == "" {
		r = UsageAll
	}
	path := "/api/usage?range=" + url.QueryEscape(string(r))

	var out UsageStats
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
