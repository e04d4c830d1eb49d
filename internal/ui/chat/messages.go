// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/model"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================
// Every asynchronous completion carries the turn or request it belongs to,
// so stale continuations can be dropped instead of mutating current state.

// TurnResultMsg delivers the outcome of one /generate call.
type TurnResultMsg struct {
	// TurnID matches the slot entry this result belongs to. A result whose
	// ID no longer matches the active slot is ignored.
	TurnID string

	Resp *api.GenerateResponse
	Err  error
}

// SessionsMsg delivers a sidebar refresh.
type SessionsMsg struct {
	Sessions []api.SessionSummary
	Err      error
}

// SessionLoadedMsg delivers a full session history for wholesale replace.
type SessionLoadedMsg struct {
	SessionID string
	Messages  []*model.Message
	Err       error
}

// RenameResultMsg reports an inline sidebar rename. On failure the
// optimistic title is reverted to Previous.
type RenameResultMsg struct {
	SessionID string
	Title     string
	Previous  string
	Err       error
}

// DeleteResultMsg reports a sidebar session delete.
type DeleteResultMsg struct {
	SessionID string
	Err       error
}

// ResetResultMsg reports a thread reset round trip.
type ResetResultMsg struct {
	Err error
}

// UploadResultMsg reports a file upload.
type UploadResultMsg struct {
	Filename string
	Message  string
	Err      error
}

// ModelsMsg delivers the model pickers' contents.
type ModelsMsg struct {
	Local []api.LocalModel
	Cloud []api.CloudModel
	Err   error
}

// PromptsMsg delivers the prompt template picker's contents.
type PromptsMsg struct {
	Prompts []api.Prompt
	Err     error
}

// BackendStatusMsg reports the startup reachability probe.
type BackendStatusMsg struct {
	Reachable bool
	Err       error
}

// CopiedMsg confirms a clipboard copy; the indicator reverts on CopyTickMsg.
type CopiedMsg struct {
	EntryID string
}

// CopyTickMsg reverts the "copied" indicator after a fixed delay.
type CopyTickMsg struct{}

// ErrorMsg carries a user-visible error with optional suggestions.
type ErrorMsg struct {
	Title       string
	Message     string
	Suggestions []string
}

// NewErrorMsg creates a basic error message.
func NewErrorMsg(title, message string) ErrorMsg {
	return ErrorMsg{Title: title, Message: message}
}
