// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/jeranaias/thinkchat-tui/internal/model"
)

// =============================================================================
// SESSION ENDPOINTS
// =============================================================================

// SessionSummary is one entry of GET /api/sessions, newest first.
type SessionSummary struct {
	SessionID   string    `json:"session_id"`
	Summary     string    `json:"summary"`
	LastUpdated time.Time `json:"last_updated"`
}

// Sessions fetches the sidebar session list. Calls are rate limited; when
// the limiter rejects, the previous list is still valid and the caller
// simply skips the refresh.
func (c *Client) Sessions(ctx context.Context) ([]SessionSummary, error) {
	if !c.refreshLimiter.Allow() {
		return nil, ErrRefreshThrottled
	}

	var out []SessionSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ErrRefreshThrottled means the session list was refetched too recently.
var ErrRefreshThrottled = &ClientError{Type: ErrTypeBadRequest, Message: "session refresh throttled"}

// SessionHistory fetches the full message history for a session, oldest
// first, ready to Replace the history store wholesale.
func (c *Client) SessionHistory(ctx context.Context, sessionID string) ([]*model.Message, error) {
	var wire []TurnMessage
	path := "/api/session/" + url.PathEscape(sessionID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	msgs := make([]*model.Message, 0, len(wire))
	for _, w := range wire {
		msgs = append(msgs, model.NewMessage(model.Role(w.Role), w.Content))
	}
	return msgs, nil
}

// RenameSession commits an inline sidebar rename.
func (c *Client) RenameSession(ctx context.Context, sessionID, title string) error {
	body := map[string]string{"session_id": sessionID, "title": title}
	return c.doJSON(ctx, http.MethodPost, "/api/session/rename", body, nil)
}

// DeleteSession removes a session and all its messages.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	path := "/delete_thread/" + url.PathEscape(sessionID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// DeleteAllSessions removes every stored session.
func (c *Client) DeleteAllSessions(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/delete_all_threads", nil, nil)
}

// ResetThread tells the server to rotate its session id so the next turn
// starts a fresh thread.
func (c *Client) ResetThread(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/reset_thread", nil, nil)
}
