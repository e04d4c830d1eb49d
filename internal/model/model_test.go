// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	assert.Equal(t, RoleUser, msg.Role)
	assert.Equal(t, "hello", msg.Content)
	assert.Contains(t, msg.ID, "msg_")
	assert.False(t, msg.Timestamp.IsZero())
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewUserMessage("x").ID
		assert.False(t, seen[id], "duplicate ID: %s", id)
		seen[id] = true
	}
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage("first line\nsecond line that goes on for quite a while here")
	preview := msg.Preview(30)

	assert.NotContains(t, preview, "\n")
	assert.LessOrEqual(t, len([]rune(preview)), 30)
}

func TestAppendPairGrowsByTwo(t *testing.T) {
	conv := NewConversation()

	for i := 0; i < 3; i++ {
		before := conv.Len()
		conv.AppendPair(NewUserMessage("q"), NewAssistantMessage("a"))
		assert.Equal(t, before+2, conv.Len())
	}
}

func TestAppendPairSetsTitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	conv.AppendPair(NewUserMessage("what is the capital of France"), NewAssistantMessage("Paris"))
	conv.AppendPair(NewUserMessage("and Germany"), NewAssistantMessage("Berlin"))

	assert.Equal(t, "what is the capital of France", conv.Title)
}

func TestTruncateLastPair(t *testing.T) {
	conv := NewConversation()
	conv.AppendPair(NewUserMessage("q1"), NewAssistantMessage("a1"))
	conv.AppendPair(NewUserMessage("q2"), NewAssistantMessage("a2"))

	user, assistant, err := conv.TruncateLastPair()
	require.NoError(t, err)
	assert.Equal(t, "q2", user.Content)
	assert.Equal(t, "a2", assistant.Content)
	assert.Equal(t, 2, conv.Len())

	// Edit-then-resubmit nets out to the same length.
	conv.AppendPair(NewUserMessage("q2 edited"), NewAssistantMessage("a2'"))
	assert.Equal(t, 4, conv.Len())
}

func TestTruncateLastPairEmpty(t *testing.T) {
	conv := NewConversation()
	_, _, err := conv.TruncateLastPair()
	assert.ErrorIs(t, err, ErrNoPair)
}

func TestTruncateLastPairRejectsBrokenTail(t *testing.T) {
	conv := NewConversation()
	conv.Replace("sess", []*Message{
		NewAssistantMessage("a"),
		NewUserMessage("u"),
	})

	_, _, err := conv.TruncateLastPair()
	assert.ErrorIs(t, err, ErrNoPair)
	assert.Equal(t, 2, conv.Len())
}

func TestReplace(t *testing.T) {
	conv := NewConversation()
	conv.AppendPair(NewUserMessage("old"), NewAssistantMessage("old"))

	conv.Replace("sess-123", []*Message{
		NewUserMessage("loaded question"),
		NewAssistantMessage("loaded answer"),
	})

	assert.Equal(t, "sess-123", conv.SessionID)
	assert.Equal(t, 2, conv.Len())
	assert.Equal(t, "loaded question", conv.Title)
}

func TestClear(t *testing.T) {
	conv := NewConversation()
	conv.SessionID = "sess"
	conv.AppendPair(NewUserMessage("q"), NewAssistantMessage("a"))

	conv.Clear()

	assert.Equal(t, 0, conv.Len())
	assert.Empty(t, conv.SessionID)
	assert.Empty(t, conv.Title)
}

func TestMessagesReturnsCopy(t *testing.T) {
	conv := NewConversation()
	conv.AppendPair(NewUserMessage("q"), NewAssistantMessage("a"))

	msgs := conv.Messages()
	msgs[0] = nil
	assert.NotNil(t, conv.Messages()[0])
}
