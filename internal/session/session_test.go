// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/thinkchat-tui/internal/api"
)

// =============================================================================
// MANAGER
// =============================================================================

func TestReflectTakesIDOnce(t *testing.T) {
	m := NewManager(false)

	assert.True(t, m.Reflect("sess-1"))
	assert.Equal(t, "sess-1", m.SessionID())

	// A second reflect never replaces the held id.
	assert.False(t, m.Reflect("sess-2"))
	assert.Equal(t, "sess-1", m.SessionID())
}

func TestReflectIgnoredInIncognito(t *testing.T) {
	m := NewManager(true)

	assert.False(t, m.Reflect("sess-1"))
	assert.Empty(t, m.SessionID())
	assert.False(t, m.Active())
}

func TestReflectIgnoresEmptyID(t *testing.T) {
	m := NewManager(false)
	assert.False(t, m.Reflect(""))
	assert.False(t, m.Active())
}

func TestReflectCallback(t *testing.T) {
	m := NewManager(false)
	var got string
	m.SetOnReflect(func(id string) { got = id })

	m.Reflect("sess-9")
	assert.Equal(t, "sess-9", got)

	// Callback fires only on the first reflect.
	got = ""
	m.Reflect("sess-10")
	assert.Empty(t, got)
}

func TestResetAllowsNewReflect(t *testing.T) {
	m := NewManager(false)
	m.Reflect("sess-1")
	m.Reset()

	assert.False(t, m.Active())
	assert.True(t, m.Reflect("sess-2"))
	assert.Equal(t, "sess-2", m.SessionID())
}

func TestSetIncognitoDropsHeldID(t *testing.T) {
	m := NewManager(false)
	m.Reflect("sess-1")

	m.SetIncognito(true)
	assert.Empty(t, m.SessionID())
	assert.False(t, m.Reflect("sess-2"))

	m.SetIncognito(false)
	assert.True(t, m.Reflect("sess-3"))
}

func TestAdopt(t *testing.T) {
	m := NewManager(false)
	m.Reflect("sess-1")
	m.Adopt("sess-from-sidebar")
	assert.Equal(t, "sess-from-sidebar", m.SessionID())

	inc := NewManager(true)
	inc.Adopt("sess-x")
	assert.Empty(t, inc.SessionID())
}

// =============================================================================
// BUCKETS
// =============================================================================

func summary(id string, updated time.Time) api.SessionSummary {
	return api.SessionSummary{SessionID: id, Summary: "chat " + id, LastUpdated: updated}
}

func TestGroupSessionsBucketBoundaries(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 0, 0, 0, time.UTC)

	sessions := []api.SessionSummary{
		summary("today", now.Add(-2*time.Hour)),
		summary("yesterday", now.AddDate(0, 0, -1)),
		summary("lastweek", now.AddDate(0, 0, -5)),
		summary("lastmonth", now.AddDate(0, 0, -20)),
		summary("april", time.Date(2025, time.April, 3, 9, 0, 0, 0, time.UTC)),
		summary("january", time.Date(2025, time.January, 20, 9, 0, 0, 0, time.UTC)),
	}

	buckets := GroupSessions(sessions, now)
	require.Len(t, buckets, 6)

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}
	assert.Equal(t, []string{
		"Today", "Yesterday", "Previous 7 Days", "Previous 30 Days",
		"April 2025", "January 2025",
	}, labels)
}

func TestGroupSessionsRecencyWithinBucket(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 0, 0, 0, time.UTC)

	sessions := []api.SessionSummary{
		summary("older", now.Add(-6*time.Hour)),
		summary("newest", now.Add(-1*time.Hour)),
		summary("middle", now.Add(-3*time.Hour)),
	}

	buckets := GroupSessions(sessions, now)
	require.Len(t, buckets, 1)
	require.Len(t, buckets[0].Sessions, 3)
	assert.Equal(t, "newest", buckets[0].Sessions[0].SessionID)
	assert.Equal(t, "middle", buckets[0].Sessions[1].SessionID)
	assert.Equal(t, "older", buckets[0].Sessions[2].SessionID)
}

func TestGroupSessionsEmptyBucketsOmitted(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 0, 0, 0, time.UTC)
	buckets := GroupSessions([]api.SessionSummary{summary("only", now)}, now)

	require.Len(t, buckets, 1)
	assert.Equal(t, "Today", buckets[0].Label)
}

func TestGroupSessionsEmptyInput(t *testing.T) {
	assert.Empty(t, GroupSessions(nil, time.Now()))
}
