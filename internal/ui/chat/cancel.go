// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
)

// =============================================================================
// TURN SLOT (SINGLE-FLIGHT + CANCELLATION)
// =============================================================================

// turnSlot is the single shared slot for the in-flight turn. At most one
// turn may be outstanding; begin refuses a second while one is active,
// which is what makes a second submit a silent no-op.
//
// The Model holds a pointer to the slot so the mutex is never copied when
// Bubble Tea passes the model by value.
type turnSlot struct {
	mu     sync.Mutex
	turnID string
	cancel context.CancelFunc
}

// begin claims the slot for a new turn. Returns false if a turn is
// already in flight.
func (s *turnSlot) begin(turnID string, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turnID != "" {
		return false
	}
	s.turnID = turnID
	s.cancel = cancel
	return true
}

// active returns the in-flight turn ID, or "".
func (s *turnSlot) active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turnID
}

// cancelActive signals the in-flight turn's context. The slot stays
// claimed until the completion observes the cancellation and calls finish.
func (s *turnSlot) cancelActive() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// finish releases the slot if turnID is still the active turn. Returns
// false for stale completions, which the caller must drop.
func (s *turnSlot) finish(turnID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turnID != turnID {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.turnID = ""
	return true
}
