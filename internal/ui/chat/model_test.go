// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	return New(cfg, api.NewClient(), nil)
}

// submitText drives one submit and returns the updated model.
func submitText(t *testing.T, m Model, text string) (Model, bool) {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.submit()
	return next.(Model), cmd != nil
}

func successResponse(content, sessionID string) *api.GenerateResponse {
	var resp api.GenerateResponse
	resp.Message.Role = "assistant"
	resp.Message.Content = content
	resp.SessionID = sessionID
	resp.ModelUsed = "llama3.2:3b"
	return &resp
}

func TestSubmitAddsOptimisticEntries(t *testing.T) {
	m := newTestModel(t)

	m, started := submitText(t, m, "hello")
	require.True(t, started)

	require.Equal(t, 2, m.entries.len())
	assert.Equal(t, EntryUser, m.entries.entries[0].Kind)
	assert.Equal(t, EntryPending, m.entries.entries[1].Kind)
	assert.Equal(t, 0, m.conv.Len(), "history must not grow before completion")
	assert.NotEmpty(t, m.slot.active())
	assert.Empty(t, m.input.Value())
}

func TestSubmitWhileInFlightIsNoOp(t *testing.T) {
	m := newTestModel(t)

	m, started := submitText(t, m, "first")
	require.True(t, started)

	m, started = submitText(t, m, "second")
	assert.False(t, started)
	assert.Equal(t, 2, m.entries.len(), "second submit must not add entries")
}

func TestEmptySubmitIsNoOp(t *testing.T) {
	m := newTestModel(t)

	m, started := submitText(t, m, "   ")
	assert.False(t, started)
	assert.Equal(t, 0, m.entries.len())
	assert.Empty(t, m.slot.active())
}

func TestTurnSuccessAppendsPair(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "what is go")
	turnID := m.slot.active()
	placeholderID := m.entries.entries[1].ID

	resp := successResponse("a language", "sess-1")
	next, _ := m.Update(TurnResultMsg{TurnID: turnID, Resp: resp})
	m = next.(Model)

	require.Equal(t, 2, m.conv.Len(), "history grows by exactly one pair")
	user, asst, err := m.conv.LastPair()
	require.NoError(t, err)
	assert.Equal(t, "what is go", user.Content)
	assert.Equal(t, "a language", asst.Content)

	require.Equal(t, 2, m.entries.len())
	got := m.entries.entries[1]
	assert.Equal(t, EntryAssistant, got.Kind)
	assert.Equal(t, placeholderID, got.ID, "placeholder keeps its identity")
	assert.Empty(t, m.slot.active(), "slot released after completion")
}

func TestUserMessageEchoReplacesOptimisticText(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "/search who won")
	turnID := m.slot.active()

	resp := successResponse("they did", "sess-1")
	resp.UserMessageContent = "Based on the following web search results, please answer the user's question.\n\n--- SEARCH RESULTS ---\nresults here\n\n--- USER QUESTION ---\nwho won"
	next, _ := m.Update(TurnResultMsg{TurnID: turnID, Resp: resp})
	m = next.(Model)

	user, _, err := m.conv.LastPair()
	require.NoError(t, err)
	assert.Equal(t, resp.UserMessageContent, user.Content, "history stores the server-side canonical form")
	assert.Equal(t, "who won", m.entries.entries[0].User.Question, "view shows the extracted question")
}

func TestCancelRollsBackBothEntries(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "never mind")
	turnID := m.slot.active()

	next, _ := m.cancelTurn()
	m = next.(Model)

	next, _ = m.Update(TurnResultMsg{TurnID: turnID, Err: api.ErrCancelled})
	m = next.(Model)

	assert.Equal(t, 0, m.entries.len(), "both optimistic entries removed")
	assert.Equal(t, 0, m.conv.Len(), "history untouched by a cancelled turn")
	assert.Nil(t, m.lastError)
	assert.Empty(t, m.slot.active())
}

func TestServerCancelledIsSilent(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "stop me")
	turnID := m.slot.active()

	next, _ := m.Update(TurnResultMsg{TurnID: turnID, Err: api.ErrServerCancelled})
	m = next.(Model)

	assert.Equal(t, 0, m.entries.len())
	assert.Equal(t, 0, m.conv.Len())
	assert.Nil(t, m.lastError, "a 204 completion shows no error")
}

func TestFailureShowsErrorEntry(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "break please")
	turnID := m.slot.active()

	next, _ := m.Update(TurnResultMsg{TurnID: turnID, Err: errors.New("model exploded")})
	m = next.(Model)

	require.Equal(t, 2, m.entries.len())
	assert.Equal(t, EntryUser, m.entries.entries[0].Kind)
	assert.Equal(t, EntryError, m.entries.entries[1].Kind)
	assert.Contains(t, m.entries.entries[1].Raw, "model exploded")
	assert.Equal(t, 0, m.conv.Len(), "failed turns never reach history")
}

func TestStaleCompletionIsDropped(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "live turn")

	next, _ := m.Update(TurnResultMsg{TurnID: "some-old-turn", Resp: successResponse("ghost", "s")})
	m = next.(Model)

	assert.Equal(t, 0, m.conv.Len(), "stale completion must not touch history")
	assert.Equal(t, EntryPending, m.entries.entries[1].Kind, "placeholder stays pending")
	assert.NotEmpty(t, m.slot.active(), "live turn still in flight")
}

func TestSearchArmingConsumedBySubmit(t *testing.T) {
	m := newTestModel(t)
	m.searchArmed = true

	m, _ = submitText(t, m, "capital of France")

	assert.Equal(t, "/search capital of France", m.entries.entries[0].Raw)
	assert.False(t, m.searchArmed, "arming is consumed by one submit")

	// Settle the turn, then submit again: no prefix this time.
	turnID := m.slot.active()
	next, _ := m.Update(TurnResultMsg{TurnID: turnID, Resp: successResponse("Paris", "s1")})
	m = next.(Model)

	m, _ = submitText(t, m, "and Spain")
	assert.Equal(t, "and Spain", m.entries.entries[2].Raw)
}

func TestSessionReflectedOncePerSession(t *testing.T) {
	m := newTestModel(t)

	m, _ = submitText(t, m, "one")
	next, cmd := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("a", "sess-9")})
	m = next.(Model)
	assert.NotNil(t, cmd, "first reflection triggers a sidebar refresh")
	assert.Equal(t, "sess-9", m.sess.SessionID())

	m, _ = submitText(t, m, "two")
	next, cmd = m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("b", "sess-9")})
	m = next.(Model)
	assert.Nil(t, cmd, "same session id reflects only once")
}

func TestIncognitoNeverAdoptsSession(t *testing.T) {
	m := newTestModel(t)
	m.sess.SetIncognito(true)

	m, _ = submitText(t, m, "secret")
	next, cmd := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("ok", "sess-x")})
	m = next.(Model)

	assert.Empty(t, m.sess.SessionID())
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.conv.Len(), "incognito turns still render and store locally")
}

func TestEditTruncatesPairAndRefillsInput(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "speling mistake")
	next, _ := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("huh", "s1")})
	m = next.(Model)
	require.Equal(t, 2, m.conv.Len())

	next, _ = m.editLast()
	m = next.(Model)

	assert.Equal(t, 0, m.conv.Len(), "edit removes the whole pair")
	assert.Equal(t, 0, m.entries.len())
	assert.Equal(t, "speling mistake", m.input.Value())
	assert.True(t, m.regenArmed, "the resubmit is flagged as a regeneration")
}

func TestRegenerateResubmitsSameQuestion(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "try again")
	next, _ := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("meh", "s1")})
	m = next.(Model)

	next, cmd := m.regenerate()
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.Equal(t, 0, m.conv.Len(), "pair truncated before the retry")
	require.Equal(t, 2, m.entries.len())
	assert.Equal(t, "try again", m.entries.entries[0].Raw)
	assert.False(t, m.regenArmed, "flag consumed when the request is built")
}

func TestEditDuringFlightIsNoOp(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "busy")

	next, _ := m.editLast()
	m = next.(Model)

	assert.Equal(t, 2, m.entries.len())
	assert.NotEmpty(t, m.slot.active())
}

func TestSlashModelSwitchesSelection(t *testing.T) {
	m := newTestModel(t)

	m, started := submitText(t, m, "/model qwen2.5:7b")
	assert.False(t, started, "slash commands do not start turns")
	assert.Equal(t, "qwen2.5:7b", m.selectedModel)
	assert.Equal(t, 0, m.entries.len())
}

func TestDeleteCurrentSessionOrphansThread(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "hello")
	next, _ := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("hi", "sess-del")})
	m = next.(Model)
	require.Equal(t, "sess-del", m.sess.SessionID())

	next, _ = m.Update(DeleteResultMsg{SessionID: "sess-del"})
	m = next.(Model)

	// The open thread survives the deletion of its sidebar entry. Only
	// the session binding is dropped.
	assert.Equal(t, 2, m.conv.Len())
	assert.Equal(t, 2, m.entries.len())
	assert.Empty(t, m.sess.SessionID())
}

func TestDeleteOtherSessionLeavesThreadBound(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "hello")
	next, _ := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("hi", "sess-keep")})
	m = next.(Model)

	next, _ = m.Update(DeleteResultMsg{SessionID: "sess-other"})
	m = next.(Model)

	assert.Equal(t, "sess-keep", m.sess.SessionID())
	assert.Equal(t, 2, m.conv.Len())
}

func TestIncognitoToggleStartsFreshThread(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "hello")
	next, _ := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("hi", "sess-1")})
	m = next.(Model)
	require.Equal(t, 2, m.conv.Len())
	m.setSearchArmed(true)

	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = next.(Model)

	assert.True(t, m.sess.Incognito())
	assert.Equal(t, 0, m.conv.Len(), "history does not cross the incognito boundary")
	assert.Equal(t, 0, m.entries.len())
	assert.Empty(t, m.sess.SessionID())
	assert.False(t, m.searchArmed, "search arming does not survive the toggle")
	assert.NotNil(t, cmd, "the server-side thread is reset too")

	// Toggling back out clears again, in both directions.
	m, _ = submitText(t, m, "secret")
	next, _ = m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("shh", "")})
	m = next.(Model)
	require.Equal(t, 2, m.conv.Len())

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = next.(Model)
	assert.False(t, m.sess.Incognito())
	assert.Equal(t, 0, m.conv.Len())
	assert.Equal(t, 0, m.entries.len())
}
