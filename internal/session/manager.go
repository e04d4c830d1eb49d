// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the active server-side session and groups past
// sessions for the sidebar.
package session

import (
	"sync"
	"time"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager holds the active session id and the incognito flag.
//
// The server assigns session ids; the client only reflects them. Reflect is
// idempotent per session: once an id is held, later responses carrying the
// same or a different id do not replace it until Reset. In incognito mode
// no id is ever held.
type Manager struct {
	mu        sync.RWMutex
	sessionID string
	incognito bool
	startedAt time.Time

	// onReflect fires when an id is first taken, so the UI can show it.
	onReflect func(sessionID string)
}

// NewManager creates a manager with no active session.
func NewManager(incognito bool) *Manager {
	return &Manager{
		incognito: incognito,
		startedAt: time.Now(),
	}
}

// SetOnReflect registers a callback for when a session id is first taken.
func (m *Manager) SetOnReflect(fn func(sessionID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReflect = fn
}

// Reflect takes a server-assigned session id. Returns true if the id was
// taken; false when one is already held, the id is empty, or incognito is
// active.
func (m *Manager) Reflect(sessionID string) bool {
	m.mu.Lock()
	if sessionID == "" || m.incognito || m.sessionID != "" {
		m.mu.Unlock()
		return false
	}
	m.sessionID = sessionID
	fn := m.onReflect
	m.mu.Unlock()

	if fn != nil {
		fn(sessionID)
	}
	return true
}

// Adopt force-sets the session id, used when loading a session from the
// sidebar. Ignored in incognito mode.
func (m *Manager) Adopt(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incognito {
		return
	}
	m.sessionID = sessionID
}

// SessionID returns the held session id, or "".
func (m *Manager) SessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// Active reports whether a session id is held.
func (m *Manager) Active() bool {
	return m.SessionID() != ""
}

// Incognito reports whether incognito mode is on.
func (m *Manager) Incognito() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.incognito
}

// SetIncognito toggles incognito mode. Turning it on drops any held id.
func (m *Manager) SetIncognito(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incognito = on
	if on {
		m.sessionID = ""
	}
}

// Reset clears the held session id, used on thread reset and when the
// active session is deleted from the sidebar (the open thread is orphaned,
// not cleared).
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionID = ""
	m.startedAt = time.Now()
}
