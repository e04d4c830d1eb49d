// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the thinkchat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout
	Width  int
	Height int

	// ==========================================================================
	// HEADER / STATUS
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	StatusBar   lipgloss.Style
	StatusError lipgloss.Style
	Incognito   lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemNotice    lipgloss.Style
	ErrorBubble     lipgloss.Style
	PendingBubble   lipgloss.Style
	MessageMeta     lipgloss.Style

	// ==========================================================================
	// COLLAPSIBLE BLOCKS
	// ==========================================================================

	ThoughtHeader lipgloss.Style
	ThoughtBody   lipgloss.Style
	SearchHeader  lipgloss.Style
	SearchBody    lipgloss.Style
	FileNote      lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	SidebarBorder   lipgloss.Style
	SidebarHeader   lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarSelected lipgloss.Style
	SidebarConfirm  lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	SearchArmed    lipgloss.Style
}

// NewTheme builds a theme for the given mode ("dark", "light", "auto").
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()

	isDark := true
	switch mode {
	case "light":
		isDark = false
	case "dark":
		isDark = true
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}

	var (
		accent  = lipgloss.Color("39")  // blue
		user    = lipgloss.Color("75")  // light blue
		subtle  = lipgloss.Color("240") // gray
		danger  = lipgloss.Color("196") // red
		warn    = lipgloss.Color("214") // amber
		thought = lipgloss.Color("135") // purple
		ok      = lipgloss.Color("78")  // green
	)
	if !isDark {
		accent = lipgloss.Color("27")
		user = lipgloss.Color("26")
		subtle = lipgloss.Color("245")
		thought = lipgloss.Color("91")
	}

	t.Header = lipgloss.NewStyle().Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.StatusBar = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)
	t.StatusError = lipgloss.NewStyle().Foreground(danger).Padding(0, 1)
	t.Incognito = lipgloss.NewStyle().Foreground(warn).Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(user).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(user).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(subtle).
		Padding(0, 1)
	t.SystemNotice = lipgloss.NewStyle().Foreground(subtle).Italic(true)
	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(danger).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(danger).
		Padding(0, 1)
	t.PendingBubble = lipgloss.NewStyle().
		Foreground(subtle).
		Italic(true).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(subtle).
		Padding(0, 1)
	t.MessageMeta = lipgloss.NewStyle().Foreground(subtle)

	t.ThoughtHeader = lipgloss.NewStyle().Foreground(thought).Bold(true)
	t.ThoughtBody = lipgloss.NewStyle().Foreground(subtle).PaddingLeft(2)
	t.SearchHeader = lipgloss.NewStyle().Foreground(ok).Bold(true)
	t.SearchBody = lipgloss.NewStyle().Foreground(subtle).PaddingLeft(2)
	t.FileNote = lipgloss.NewStyle().Foreground(warn).Italic(true)

	t.SidebarBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(subtle).
		PaddingRight(1)
	t.SidebarHeader = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.SidebarItem = lipgloss.NewStyle().Foreground(subtle)
	t.SidebarSelected = lipgloss.NewStyle().Bold(true).Foreground(accent)
	t.SidebarConfirm = lipgloss.NewStyle().Foreground(danger).Bold(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(accent).Bold(true)
	t.SearchArmed = lipgloss.NewStyle().Foreground(ok).Bold(true)

	return t
}
