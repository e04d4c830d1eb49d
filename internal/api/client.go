// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the thinkchat backend: the
// /generate turn endpoint, session management, uploads, prompt and
// cloud-model CRUD, and local model management including the NDJSON pull
// stream.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type so errors.Is works on wrapped copies.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeBackendDown
	ErrTypeTimeout
	ErrTypeCancelled
	ErrTypeServerCancelled
	ErrTypeNotFound
	ErrTypeBadRequest
	ErrTypeServer
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrBackendDown = &ClientError{Type: ErrTypeBackendDown, Message: "backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	// ErrCancelled is a client-side abort (user pressed stop).
	ErrCancelled = &ClientError{Type: ErrTypeCancelled, Message: "request cancelled"}
	// ErrServerCancelled is the 204 sentinel: the server noticed the client
	// had already disconnected and saved nothing. Swallowed silently.
	ErrServerCancelled = &ClientError{Type: ErrTypeServerCancelled, Message: "generation cancelled server-side"}
	ErrNotFound        = &ClientError{Type: ErrTypeNotFound, Message: "not found"}
)

// IsCancelled reports whether err is a client-side abort.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// IsServerCancelled reports whether err is the server-side cancel sentinel.
func IsServerCancelled(err error) bool {
	return errors.Is(err, ErrServerCancelled)
}

// IsBackendDown reports whether err means the backend could not be reached.
func IsBackendDown(err error) bool {
	return errors.Is(err, ErrBackendDown)
}

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// errorEnvelope is the backend's JSON error body: {"error": "..."}.
type errorEnvelope struct {
	Error string `json:"error"`
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8080).
	// Explicit IPv4 avoids IPv6 resolution issues on Windows.
	BaseURL string

	// Timeout for unary requests (default: 30s). Turn generation and the
	// model pull stream are exempt; those are governed by context only.
	Timeout time.Duration

	// SidebarRefreshInterval rate-limits session list refetches
	// (default: 1 per 2s with burst 3).
	SidebarRefreshInterval time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:                "http://127.0.0.1:8080",
		Timeout:                30 * time.Second,
		SidebarRefreshInterval: 2 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the thinkchat backend.
// It is safe for concurrent use.
type Client struct {
	config *ClientConfig

	// httpClient serves unary calls and enforces the configured timeout.
	httpClient *http.Client

	// longClient serves generation and pull streams. No client timeout;
	// cancellation comes from the request context.
	longClient *http.Client

	// refreshLimiter throttles sidebar refetches so a burst of completed
	// turns does not hammer /api/sessions.
	refreshLimiter *rate.Limiter
}

// NewClient creates a backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8080"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.SidebarRefreshInterval == 0 {
		config.SidebarRefreshInterval = 2 * time.Second
	}

	return &Client{
		config:         config,
		httpClient:     &http.Client{Timeout: config.Timeout},
		longClient:     &http.Client{},
		refreshLimiter: rate.NewLimiter(rate.Every(config.SidebarRefreshInterval), 3),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH
// =============================================================================

// CheckReachable verifies the backend answers at all. Used on startup for
// the status line; any HTTP response counts as reachable.
func (c *Client) CheckReachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.wrapTransportError(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out (which may be nil). Non-2xx statuses are mapped to
// typed errors carrying the backend's error message when present.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.wrapTransportError(err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// checkStatus maps non-2xx responses to typed errors. 204 is not an error
// here; callers that treat it as a sentinel check the status themselves.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	serverMsg := ""
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		var envelope errorEnvelope
		if json.Unmarshal(data, &envelope) == nil {
			serverMsg = envelope.Error
		}
	}

	var errType ErrorType
	switch {
	case resp.StatusCode == http.StatusNotFound:
		errType = ErrTypeNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		errType = ErrTypeBadRequest
	case resp.StatusCode == http.StatusServiceUnavailable:
		errType = ErrTypeBackendDown
	default:
		errType = ErrTypeServer
	}

	msg := serverMsg
	if msg == "" {
		msg = fmt.Sprintf("server returned %s", resp.Status)
	}
	return &ClientError{Type: errType, Message: msg}
}

// wrapTransportError classifies a transport-level failure.
func (c *Client) wrapTransportError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return &ClientError{Type: ErrTypeCancelled, Message: "request cancelled", Cause: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	default:
		return &ClientError{Type: ErrTypeBackendDown, Message: "backend is not reachable", Cause: err}
	}
}
