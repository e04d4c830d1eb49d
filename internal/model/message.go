// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and the
// conversation history store.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jeranaias/thinkchat-tui/internal/util"
)

// =============================================================================
// ROLE
// =============================================================================

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one the backend understands.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// =============================================================================
// USAGE
// =============================================================================

// Usage carries token accounting returned by the backend for one turn.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// =============================================================================
// MESSAGE
// =============================================================================

// Message is a single turn entry. Content is the raw string as the backend
// stores it; wrapped formats (search context, file context, think blocks)
// are decoded by the content package at render time, never mutated here.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	// Generation metadata, set only on assistant messages.
	ModelUsed             string  `json:"model_used,omitempty"`
	GenerationTimeSeconds float64 `json:"generation_time_seconds,omitempty"`
	TokensPerSecond       float64 `json:"tokens_per_second,omitempty"`
	Usage                 *Usage  `json:"usage,omitempty"`
}

// NewMessage creates a message with a fresh ID and timestamp.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// Preview returns a single-line preview of the content, truncated to
// maxRunes characters.
func (m *Message) Preview(maxRunes int) string {
	return util.Summarize(m.Content, maxRunes)
}

// IsEmpty reports whether the content is empty or whitespace only.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// generateID creates a unique message ID ("msg_" + 16 hex chars).
func generateID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
