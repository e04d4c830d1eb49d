// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/thinkchat-tui/internal/content"
	"github.com/jeranaias/thinkchat-tui/internal/ui/styles"
	"github.com/jeranaias/thinkchat-tui/internal/util"
)

// =============================================================================
// LAYOUT
// =============================================================================

const (
	sidebarPanelWidth = 32
	headerHeight      = 2
	inputAreaHeight   = 3
)

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := m.renderHeader()
	body := m.renderBody()
	input := m.renderInput()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input)
}

func (m Model) renderBody() string {
	if m.sidebar.collapsed {
		return m.viewport.View()
	}
	panel := m.renderSidebar()
	return lipgloss.JoinHorizontal(lipgloss.Top, panel, m.viewport.View())
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("thinkchat")

	var badges []string
	badges = append(badges, m.theme.MessageMeta.Render(m.selectedModel))
	if m.sess.Incognito() {
		badges = append(badges, m.theme.Incognito.Render("🕶 incognito"))
	}
	if m.searchArmed {
		badges = append(badges, m.theme.SearchArmed.Render("🔍 search"))
	}
	if !m.backendUp {
		badges = append(badges, m.theme.StatusError.Render("backend unreachable"))
	}
	if m.statusMsg != "" {
		badges = append(badges, m.theme.MessageMeta.Render(m.statusMsg))
	}

	line := title + "  " + strings.Join(badges, "  ")
	return m.theme.Header.Width(m.width).Render(line)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshViewport re-renders all entries into the viewport. Called after
// any mutation of the entry list or a resize.
func (m *Model) refreshViewport() {
	width := m.viewport.Width
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for i, e := range m.entries.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		var prev *Entry
		if i > 0 {
			prev = m.entries.entries[i-1]
		}
		b.WriteString(m.renderEntry(e, prev, width))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m Model) renderEntry(e, prev *Entry, width int) string {
	switch e.Kind {
	case EntryUser:
		return m.renderUserEntry(e, width)
	case EntryAssistant:
		return m.renderAssistantEntry(e, prev, width)
	case EntryPending:
		return m.theme.PendingBubble.Render(m.spinner.View() + " thinking...")
	case EntryError:
		return m.theme.ErrorBubble.MaxWidth(width).Render(e.Raw)
	case EntryNotice:
		return m.theme.SystemNotice.MaxWidth(width).Render(e.Raw)
	}
	return ""
}

// renderUserEntry shows the extracted question, with the wrapped search
// or file context available as a collapsible block.
func (m Model) renderUserEntry(e *Entry, width int) string {
	var parts []string

	if e.User.Kind == content.KindFileAugmented {
		parts = append(parts, m.theme.FileNote.Render("📄 "+e.User.Filename))
	}

	parts = append(parts, m.theme.UserBubble.MaxWidth(width).Render(e.User.Question))
	return strings.Join(parts, "\n")
}

// renderAssistantEntry renders a response. The web search context that
// produced it, if any, is attached here as a collapsible block above the
// answer, not on the question bubble.
func (m Model) renderAssistantEntry(e, prev *Entry, width int) string {
	var parts []string

	if results := searchContextFor(prev); results != "" {
		header := "▸ Web search context"
		if e.SearchOpen {
			header = "▾ Web search context"
		}
		parts = append(parts, m.theme.SearchHeader.Render(header))
		if e.SearchOpen {
			parts = append(parts, m.theme.SearchBody.MaxWidth(width).Render(results))
		}
	}

	for _, thought := range e.Assistant.Thoughts {
		header := "▸ Thoughts"
		if e.ThoughtsOpen {
			header = "▾ Thoughts"
		}
		parts = append(parts, m.theme.ThoughtHeader.Render(header))
		if e.ThoughtsOpen {
			parts = append(parts, m.theme.ThoughtBody.MaxWidth(width).Render(styles.HighlightFences(thought)))
		}
	}

	parts = append(parts, m.theme.AssistantBubble.MaxWidth(width).Render(m.renderMarkdown(e.Assistant.Main, width)))

	meta := m.renderEntryMeta(e)
	if meta != "" {
		parts = append(parts, m.theme.MessageMeta.Render(meta))
	}
	return strings.Join(parts, "\n")
}

// searchContextFor returns the search results wrapped into the question
// preceding a response, or "" when the turn was not search-augmented.
func searchContextFor(prev *Entry) string {
	if prev == nil || prev.Kind != EntryUser {
		return ""
	}
	if prev.User.Kind != content.KindSearchAugmented {
		return ""
	}
	return prev.User.SearchResults
}

func (m Model) renderEntryMeta(e *Entry) string {
	var parts []string
	if e.ModelUsed != "" {
		parts = append(parts, e.ModelUsed)
	}
	if e.GenerationTimeSeconds > 0 {
		parts = append(parts, fmt.Sprintf("%.1fs", e.GenerationTimeSeconds))
	}
	if e.TokensPerSecond > 0 {
		parts = append(parts, fmt.Sprintf("%.1f tok/s", e.TokensPerSecond))
	}
	if e.Copied {
		parts = append(parts, "✓ copied")
	}
	return strings.Join(parts, " · ")
}

// renderMarkdown renders assistant output through glamour, falling back
// to the raw text when rendering fails.
func (m Model) renderMarkdown(text string, width int) string {
	wrap := m.cfg.UI.MarkdownWidth
	if wrap > width {
		wrap = width
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m Model) renderSidebar() string {
	innerWidth := sidebarPanelWidth - 4

	var b strings.Builder
	b.WriteString(m.theme.SidebarHeader.Render("Conversations"))
	b.WriteString("\n")

	for i, row := range m.sidebar.rows {
		if row.header {
			b.WriteString("\n")
			b.WriteString(m.theme.SidebarHeader.Render(row.label))
			b.WriteString("\n")
			continue
		}

		if m.sidebar.renaming == row.session.SessionID {
			b.WriteString(m.theme.SidebarSelected.Render("✎ " + m.sidebar.renameInput.View()))
			b.WriteString("\n")
			continue
		}
		if m.sidebar.confirmDelete == row.session.SessionID {
			b.WriteString(m.theme.SidebarConfirm.Render("delete? y/n"))
			b.WriteString("\n")
			continue
		}

		label := util.TruncateRunes(row.label, innerWidth)
		style := m.theme.SidebarItem
		if m.sidebar.focused && i == m.sidebar.cursor {
			style = m.theme.SidebarSelected
		}
		if row.session.SessionID == m.sess.SessionID() {
			label = "• " + util.TruncateRunes(row.label, innerWidth-2)
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}

	height := max(5, m.height-inputAreaHeight-headerHeight)
	return m.theme.SidebarBorder.
		Width(sidebarPanelWidth - 2).
		Height(height - 2).
		Render(b.String())
}

// =============================================================================
// INPUT
// =============================================================================

func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("❯ ")
	if m.searchArmed {
		prompt = m.theme.SearchArmed.Render("🔍 ")
	}

	line := prompt + m.input.View()
	if m.lastError != nil {
		hint := m.lastError.Title + ": " + m.lastError.Message
		if len(m.lastError.Suggestions) > 0 {
			hint += "  (" + m.lastError.Suggestions[0] + ")"
		}
		line += "\n" + m.theme.StatusError.Render(util.TruncateRunes(hint, max(20, m.width-2)))
	}

	return m.theme.InputContainer.Width(m.width - 2).Render(line)
}
