// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"io"
	"log"
	"os"
	"sync"
)

// Debug logging goes to a file, never stdout. Stdout belongs to the TUI
// while it is running, so a stray Printf would corrupt the screen.

var (
	debugMu  sync.Mutex
	debugLog *log.Logger
	debugF   io.Closer
)

// InitDebugLog opens (appending) the debug log file. A failed open is
// reported to the caller but leaves logging disabled rather than fatal.
func InitDebugLog(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugF != nil {
		debugF.Close()
	}
	debugF = f
	debugLog = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	return nil
}

// CloseDebugLog flushes and closes the debug log. Safe to call when
// logging was never initialized.
func CloseDebugLog() {
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugF != nil {
		debugF.Close()
		debugF = nil
		debugLog = nil
	}
}

// Debugf writes one line to the debug log. No-op when logging is disabled.
func Debugf(format string, args ...any) {
	debugMu.Lock()
	l := debugLog
	debugMu.Unlock()
	if l != nil {
		l.Printf(format, args...)
	}
}
