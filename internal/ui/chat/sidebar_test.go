// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/thinkchat-tui/internal/api"
)

func sidebarFixture() sidebar {
	s := newSidebar(false)
	now := time.Now()
	s.setSessions([]api.SessionSummary{
		{SessionID: "a", Summary: "today's chat", LastUpdated: now.Add(-time.Hour)},
		{SessionID: "b", Summary: "older chat", LastUpdated: now.Add(-3 * 24 * time.Hour)},
	})
	return s
}

func TestSidebarRowsHaveHeaders(t *testing.T) {
	s := sidebarFixture()

	require.NotEmpty(t, s.rows)
	assert.True(t, s.rows[0].header, "first row is a bucket header")

	var items int
	for _, row := range s.rows {
		if !row.header {
			items++
		}
	}
	assert.Equal(t, 2, items)
}

func TestSidebarCursorSkipsHeaders(t *testing.T) {
	s := sidebarFixture()
	s.focused = true
	s.cursor = s.firstItem()

	require.NotNil(t, s.selectedRow())
	assert.False(t, s.selectedRow().header)
	assert.Equal(t, "a", s.selectedRow().session.SessionID)

	s.moveCursor(1)
	assert.False(t, s.selectedRow().header, "cursor lands on items only")
	assert.Equal(t, "b", s.selectedRow().session.SessionID)

	// Moving past the end stays put.
	s.moveCursor(1)
	assert.Equal(t, "b", s.selectedRow().session.SessionID)
}

func TestSidebarCursorFollowsSessionAcrossRefresh(t *testing.T) {
	s := sidebarFixture()
	s.focused = true
	s.cursor = s.firstItem()
	s.moveCursor(1) // sits on "b"

	now := time.Now()
	s.setSessions([]api.SessionSummary{
		{SessionID: "c", Summary: "brand new", LastUpdated: now},
		{SessionID: "a", Summary: "today's chat", LastUpdated: now.Add(-time.Hour)},
		{SessionID: "b", Summary: "older chat", LastUpdated: now.Add(-3 * 24 * time.Hour)},
	})

	require.NotNil(t, s.selectedRow())
	assert.Equal(t, "b", s.selectedRow().session.SessionID, "cursor sticks to the same session")
}

func TestSidebarRenameCommit(t *testing.T) {
	s := sidebarFixture()
	s.focused = true
	s.cursor = s.firstItem()

	require.True(t, s.startRename())
	s.renameInput.SetValue("renamed title")

	id, title, prev, ok := s.commitRename()
	require.True(t, ok)
	assert.Equal(t, "a", id)
	assert.Equal(t, "renamed title", title)
	assert.Equal(t, "today's chat", prev)
	assert.Empty(t, s.renaming)
	assert.Equal(t, "renamed title", s.selectedRow().session.Summary, "title applied optimistically")
}

func TestSidebarRenameEmptyReverts(t *testing.T) {
	s := sidebarFixture()
	s.focused = true
	s.cursor = s.firstItem()

	require.True(t, s.startRename())
	s.renameInput.SetValue("   ")

	_, _, _, ok := s.commitRename()
	assert.False(t, ok)
	assert.Equal(t, "today's chat", s.selectedRow().session.Summary)
}

func TestSidebarRenameCancel(t *testing.T) {
	s := sidebarFixture()
	s.focused = true
	s.cursor = s.firstItem()

	require.True(t, s.startRename())
	s.renameInput.SetValue("abandoned")
	s.cancelRename()

	assert.Empty(t, s.renaming)
	assert.Equal(t, "today's chat", s.selectedRow().session.Summary)
}

func TestSidebarRemoveSession(t *testing.T) {
	s := sidebarFixture()
	s.removeSession("a")

	for _, row := range s.rows {
		assert.NotEqual(t, "a", row.session.SessionID)
	}
}
