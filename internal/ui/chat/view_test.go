// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchEcho = "Based on the following web search results, please answer the user's question.\n\n--- SEARCH RESULTS ---\nresults here\n\n--- USER QUESTION ---\nwho won"

// settleSearchTurn runs one search-augmented turn to completion.
func settleSearchTurn(t *testing.T) Model {
	t.Helper()
	m := newTestModel(t)
	m, _ = submitText(t, m, "/search who won")

	resp := successResponse("they did", "sess-1")
	resp.UserMessageContent = searchEcho
	next, _ := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: resp})
	return next.(Model)
}

func TestSearchContextRendersOnResponse(t *testing.T) {
	m := settleSearchTurn(t)
	require.Equal(t, 2, m.entries.len())
	user, asst := m.entries.entries[0], m.entries.entries[1]

	userOut := m.renderUserEntry(user, 80)
	assert.NotContains(t, userOut, "Web search context", "question bubble carries no search block")
	assert.Contains(t, userOut, "who won")

	asstOut := m.renderAssistantEntry(asst, user, 80)
	assert.Contains(t, asstOut, "▸ Web search context")
	assert.NotContains(t, asstOut, "results here", "collapsed by default")
}

func TestSearchContextDisclosureToggle(t *testing.T) {
	m := settleSearchTurn(t)
	user, asst := m.entries.entries[0], m.entries.entries[1]

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)
	require.True(t, asst.SearchOpen)

	out := m.renderAssistantEntry(asst, user, 80)
	assert.Contains(t, out, "▾ Web search context")
	assert.Contains(t, out, "results here")

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)
	assert.False(t, asst.SearchOpen)
}

func TestSearchContextSkipsPlainTurns(t *testing.T) {
	m := newTestModel(t)
	m, _ = submitText(t, m, "plain question")
	next, _ := m.Update(TurnResultMsg{TurnID: m.slot.active(), Resp: successResponse("plain answer", "s1")})
	m = next.(Model)

	assert.Nil(t, m.lastSearchAugmentedReply())

	out := m.renderAssistantEntry(m.entries.entries[1], m.entries.entries[0], 80)
	assert.NotContains(t, out, "Web search context")
}
