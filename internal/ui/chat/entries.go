// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/jeranaias/thinkchat-tui/internal/content"
	"github.com/jeranaias/thinkchat-tui/internal/model"
)

// =============================================================================
// VIEW ENTRIES
// =============================================================================
// The view list is distinct from the history store. Optimistic user
// entries, the pending placeholder, error entries, and notices exist only
// here; the store changes in whole pairs after the server confirms.

// EntryKind distinguishes view entry types.
type EntryKind int

const (
	// EntryUser is a user question (optimistic until the turn confirms).
	EntryUser EntryKind = iota
	// EntryAssistant is a confirmed assistant response.
	EntryAssistant
	// EntryPending is the placeholder shown while a turn is in flight.
	// Replaced in place, same identity, when the response arrives.
	EntryPending
	// EntryError is a visible turn failure.
	EntryError
	// EntryNotice is an informational line (upload confirmations, greetings).
	EntryNotice
)

// Entry is one row of the chat view.
type Entry struct {
	ID   string
	Kind EntryKind

	// Raw is the full content string as sent or received.
	Raw string

	// User holds the decoded wrapper for user entries.
	User content.UserContent

	// Assistant holds the decoded think blocks for assistant entries.
	Assistant content.AssistantContent

	// Meta from the turn envelope, shown under assistant entries.
	ModelUsed             string
	GenerationTimeSeconds float64
	TokensPerSecond       float64

	// Disclosure state for collapsible blocks.
	ThoughtsOpen bool
	SearchOpen   bool

	// Copied flags the transient "copied!" indicator.
	Copied bool
}

func newEntryID() string {
	b := make([]byte, 6)
	rand.Read(b)
	return "ent_" + hex.EncodeToString(b)
}

// newUserEntry decodes and wraps a user message for display.
func newUserEntry(raw string) *Entry {
	return &Entry{
		ID:   newEntryID(),
		Kind: EntryUser,
		Raw:  raw,
		User: content.ParseUser(raw),
	}
}

// newAssistantEntry decodes and wraps an assistant message for display.
func newAssistantEntry(raw string) *Entry {
	return &Entry{
		ID:        newEntryID(),
		Kind:      EntryAssistant,
		Raw:       raw,
		Assistant: content.ParseAssistant(raw),
	}
}

func newPendingEntry() *Entry {
	return &Entry{ID: newEntryID(), Kind: EntryPending}
}

func newErrorEntry(text string) *Entry {
	return &Entry{ID: newEntryID(), Kind: EntryError, Raw: text}
}

func newNoticeEntry(text string) *Entry {
	return &Entry{ID: newEntryID(), Kind: EntryNotice, Raw: text}
}

// CopyText returns what copying this entry places on the clipboard: the
// extracted question for user entries, the raw content otherwise.
func (e *Entry) CopyText() string {
	if e.Kind == EntryUser {
		return e.User.Question
	}
	return e.Raw
}

// =============================================================================
// ENTRY LIST
// =============================================================================

// entryList is the ordered chat view.
type entryList struct {
	entries []*Entry
}

func (l *entryList) append(e *Entry) {
	l.entries = append(l.entries, e)
}

// removeByID removes an entry wherever it sits. Returns true if found.
func (l *entryList) removeByID(id string) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// byID returns the entry with the given ID, or nil.
func (l *entryList) byID(id string) *Entry {
	for _, e := range l.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// replaceInPlace turns the identified pending entry into a confirmed
// assistant entry without changing its position or identity, preserving
// scroll anchoring.
func (l *entryList) replaceInPlace(id, raw string) *Entry {
	e := l.byID(id)
	if e == nil {
		return nil
	}
	e.Kind = EntryAssistant
	e.Raw = raw
	e.Assistant = content.ParseAssistant(raw)
	return e
}

// removeLastPairEntries removes the trailing user+assistant entries,
// skipping notices, used by edit and regenerate.
func (l *entryList) removeLastPair() (user, assistant *Entry) {
	var userIdx, asstIdx = -1, -1
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if asstIdx == -1 && e.Kind == EntryAssistant {
			asstIdx = i
			continue
		}
		if asstIdx != -1 && e.Kind == EntryUser {
			userIdx = i
			break
		}
	}
	if userIdx == -1 || asstIdx == -1 {
		return nil, nil
	}
	user, assistant = l.entries[userIdx], l.entries[asstIdx]
	l.entries = append(l.entries[:asstIdx], l.entries[asstIdx+1:]...)
	l.entries = append(l.entries[:userIdx], l.entries[userIdx+1:]...)
	return user, assistant
}

// reset clears the view.
func (l *entryList) reset() {
	l.entries = nil
}

// loadFromHistory rebuilds the view from a replaced history store,
// re-running extraction on every message.
func (l *entryList) loadFromHistory(msgs []*model.Message) {
	l.entries = nil
	for _, m := range msgs {
		switch m.Role {
		case model.RoleUser:
			l.append(newUserEntry(m.Content))
		case model.RoleAssistant:
			e := newAssistantEntry(m.Content)
			e.ModelUsed = m.ModelUsed
			e.GenerationTimeSeconds = m.GenerationTimeSeconds
			e.TokensPerSecond = m.TokensPerSecond
			l.append(e)
		case model.RoleSystem:
			// File-context rows stored server-side; shown as a notice.
			l.append(newNoticeEntry(m.Preview(120)))
		}
	}
}

func (l *entryList) len() int {
	return len(l.entries)
}
