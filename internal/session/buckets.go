// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sort"
	"time"

	"github.com/jeranaias/thinkchat-tui/internal/api"
)

// =============================================================================
// SIDEBAR TIME BUCKETS
// =============================================================================

// Bucket labels in display order. Month buckets follow these, newest
// month first.
const (
	BucketToday      = "Today"
	BucketYesterday  = "Yesterday"
	BucketPrevWeek   = "Previous 7 Days"
	BucketPrevMonth  = "Previous 30 Days"
)

// Bucket is one sidebar group: a label and its sessions, newest first.
type Bucket struct {
	Label    string
	Sessions []api.SessionSummary
}

// GroupSessions arranges session summaries into display buckets relative
// to now: Today, Yesterday, Previous 7 Days, Previous 30 Days, then one
// bucket per older calendar month ("January 2025"), newest month first.
// Sessions inside each bucket are ordered by recency.
func GroupSessions(sessions []api.SessionSummary, now time.Time) []Bucket {
	sorted := make([]api.SessionSummary, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUpdated.After(sorted[j].LastUpdated)
	})

	startToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startYesterday := startToday.AddDate(0, 0, -1)
	startWeek := startToday.AddDate(0, 0, -7)
	startMonth := startToday.AddDate(0, 0, -30)

	byLabel := make(map[string]*Bucket)
	var order []string

	add := func(label string, s api.SessionSummary) {
		b, ok := byLabel[label]
		if !ok {
			b = &Bucket{Label: label}
			byLabel[label] = b
			order = append(order, label)
		}
		b.Sessions = append(b.Sessions, s)
	}

	for _, s := range sorted {
		ts := s.LastUpdated.In(now.Location())
		switch {
		case !ts.Before(startToday):
			add(BucketToday, s)
		case !ts.Before(startYesterday):
			add(BucketYesterday, s)
		case !ts.Before(startWeek):
			add(BucketPrevWeek, s)
		case !ts.Before(startMonth):
			add(BucketPrevMonth, s)
		default:
			add(ts.Format("January 2006"), s)
		}
	}

	// The fixed buckets come first; month buckets follow in the order they
	// were first seen, which is newest first because the input is sorted.
	fixed := []string{BucketToday, BucketYesterday, BucketPrevWeek, BucketPrevMonth}
	var out []Bucket
	for _, label := range fixed {
		if b, ok := byLabel[label]; ok {
			out = append(out, *b)
		}
	}
	for _, label := range order {
		if isFixedLabel(label) {
			continue
		}
		out = append(out, *byLabel[label])
	}
	return out
}

func isFixedLabel(label string) bool {
	switch label {
	case BucketToday, BucketYesterday, BucketPrevWeek, BucketPrevMonth:
		return true
	}
	return false
}
