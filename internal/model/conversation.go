// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"sync"
	"time"
)

// ErrNoPair is returned by TruncateLastPair when the history does not end
// with a user/assistant pair.
var ErrNoPair = errors.New("history does not end with a user/assistant pair")

// =============================================================================
// CONVERSATION (HISTORY STORE)
// =============================================================================

// Conversation is the ordered history store for one chat thread.
//
// The store only ever changes in whole user/assistant pairs: AppendPair adds
// exactly two entries, TruncateLastPair removes exactly two, and Replace
// swaps the entire sequence when a session is loaded. A lone user or
// assistant entry is never observable, which is what keeps the optimistic
// view entries and the authoritative history from drifting apart.
type Conversation struct {
	mu sync.RWMutex

	SessionID string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time

	messages []*Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendPair atomically appends a confirmed user message and its assistant
// response. This is the only way entries are added after a successful turn.
func (c *Conversation) AppendPair(user, assistant *Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, user, assistant)
	c.UpdatedAt = time.Now()
	if c.Title == "" {
		c.Title = user.Preview(50)
	}
}

// TruncateLastPair removes the final user/assistant pair, used by edit and
// regenerate before resubmitting. Returns the removed pair.
func (c *Conversation) TruncateLastPair() (user, assistant *Message, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.messages)
	if n < 2 {
		return nil, nil, ErrNoPair
	}
	user, assistant = c.messages[n-2], c.messages[n-1]
	if user.Role != RoleUser || assistant.Role != RoleAssistant {
		return nil, nil, ErrNoPair
	}

	c.messages = c.messages[:n-2]
	c.UpdatedAt = time.Now()
	return user, assistant, nil
}

// Replace swaps the entire history, used when loading a session from the
// sidebar. The previous contents are discarded.
func (c *Conversation) Replace(sessionID string, messages []*Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SessionID = sessionID
	c.messages = messages
	c.Title = ""
	for _, m := range messages {
		if m.Role == RoleUser {
			c.Title = m.Preview(50)
			break
		}
	}
	c.UpdatedAt = time.Now()
}

// Clear empties the store, used on reset and incognito toggle.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SessionID = ""
	c.messages = nil
	c.Title = ""
	c.UpdatedAt = time.Now()
}

// Messages returns a copy of the ordered history (front = oldest).
func (c *Conversation) Messages() []*Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of stored messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// LastPair returns the final user/assistant pair without removing it, or
// ErrNoPair if the history does not end with one.
func (c *Conversation) LastPair() (user, assistant *Message, err error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.messages)
	if n < 2 {
		return nil, nil, ErrNoPair
	}
	user, assistant = c.messages[n-2], c.messages[n-1]
	if user.Role != RoleUser || assistant.Role != RoleAssistant {
		return nil, nil, ErrNoPair
	}
	return user, assistant, nil
}
