// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/session"
)

// =============================================================================
// SESSION SIDEBAR
// =============================================================================

// sidebar holds the time-bucketed session list plus its interaction
// state: cursor position, an in-progress inline rename, and a pending
// delete confirmation.
type sidebar struct {
	collapsed bool
	focused   bool

	sessions []api.SessionSummary
	buckets  []session.Bucket
	rows     []sidebarRow
	cursor   int

	// renaming holds the session id under inline rename; empty otherwise.
	renaming    string
	renameInput textinput.Model
	// renamePrev is the title to revert to on Escape, empty input, or
	// server failure.
	renamePrev string

	// confirmDelete holds the session id awaiting delete confirmation.
	confirmDelete string
}

// sidebarRow is one rendered line: a bucket header or a session item.
type sidebarRow struct {
	header  bool
	label   string
	session api.SessionSummary
}

func newSidebar(collapsed bool) sidebar {
	ti := textinput.New()
	ti.CharLimit = 80
	ti.Prompt = ""
	return sidebar{
		collapsed:   collapsed,
		renameInput: ti,
	}
}

// setSessions rebuilds the bucketed rows from a fresh fetch, keeping the
// cursor on the same session when it still exists.
func (s *sidebar) setSessions(sessions []api.SessionSummary) {
	var selected string
	if r := s.selectedRow(); r != nil {
		selected = r.session.SessionID
	}

	s.sessions = sessions
	s.buckets = session.GroupSessions(sessions, time.Now())
	s.rows = s.rows[:0]
	for _, b := range s.buckets {
		s.rows = append(s.rows, sidebarRow{header: true, label: b.Label})
		for _, sess := range b.Sessions {
			s.rows = append(s.rows, sidebarRow{session: sess})
		}
	}

	s.cursor = s.firstItem()
	if selected != "" {
		for i, r := range s.rows {
			if !r.header && r.session.SessionID == selected {
				s.cursor = i
				break
			}
		}
	}
}

// applyTitle optimistically renames a session in place, before or after
// the server confirms.
func (s *sidebar) applyTitle(sessionID, title string) {
	for i := range s.rows {
		if !s.rows[i].header && s.rows[i].session.SessionID == sessionID {
			s.rows[i].session.Summary = title
		}
	}
	for i := range s.sessions {
		if s.sessions[i].SessionID == sessionID {
			s.sessions[i].Summary = title
		}
	}
}

// removeSession drops a deleted session from the rows without waiting for
// the next refetch.
func (s *sidebar) removeSession(sessionID string) {
	kept := s.sessions[:0]
	for _, sess := range s.sessions {
		if sess.SessionID != sessionID {
			kept = append(kept, sess)
		}
	}
	s.setSessions(kept)
}

func (s *sidebar) firstItem() int {
	for i, r := range s.rows {
		if !r.header {
			return i
		}
	}
	return 0
}

func (s *sidebar) selectedRow() *sidebarRow {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].header {
		return nil
	}
	return &s.rows[s.cursor]
}

func (s *sidebar) moveCursor(delta int) {
	if len(s.rows) == 0 {
		return
	}
	i := s.cursor
	for {
		i += delta
		if i < 0 || i >= len(s.rows) {
			return
		}
		if !s.rows[i].header {
			s.cursor = i
			return
		}
	}
}

// startRename begins inline editing of the selected session title.
func (s *sidebar) startRename() bool {
	row := s.selectedRow()
	if row == nil {
		return false
	}
	s.renaming = row.session.SessionID
	s.renamePrev = row.session.Summary
	s.renameInput.SetValue(row.session.Summary)
	s.renameInput.CursorEnd()
	s.renameInput.Focus()
	return true
}

// commitRename ends editing. Returns the new title, or ok=false when the
// edit reverts (empty input).
func (s *sidebar) commitRename() (sessionID, title, prev string, ok bool) {
	sessionID = s.renaming
	title = strings.TrimSpace(s.renameInput.Value())
	prev = s.renamePrev
	s.renaming = ""
	s.renameInput.Blur()

	if sessionID == "" {
		return "", "", "", false
	}
	if title == "" || title == prev {
		// Empty commit reverts, matching the Escape path.
		s.applyTitle(sessionID, prev)
		return "", "", "", false
	}
	s.applyTitle(sessionID, title)
	return sessionID, title, prev, true
}

// cancelRename reverts the edit.
func (s *sidebar) cancelRename() {
	if s.renaming != "" {
		s.applyTitle(s.renaming, s.renamePrev)
	}
	s.renaming = ""
	s.renameInput.Blur()
}
