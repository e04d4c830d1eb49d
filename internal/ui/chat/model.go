// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/thinkchat-tui/internal/api"
	"github.com/jeranaias/thinkchat-tui/internal/config"
	"github.com/jeranaias/thinkchat-tui/internal/content"
	"github.com/jeranaias/thinkchat-tui/internal/model"
	"github.com/jeranaias/thinkchat-tui/internal/session"
	"github.com/jeranaias/thinkchat-tui/internal/storage"
	"github.com/jeranaias/thinkchat-tui/internal/ui/styles"
	"github.com/jeranaias/thinkchat-tui/internal/util"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It owns the turn
// lifecycle: at most one generation request is in flight at a time, and
// every completion is checked against the turn id it was issued under so
// a cancelled turn can never mutate a later one.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme

	width  int
	height int

	client *api.Client
	conv   *model.Conversation
	sess   *session.Manager
	store  *storage.StateStore

	// slot is held by pointer so Bubble Tea's model copies share the
	// single-flight state.
	slot    *turnSlot
	entries *entryList

	sidebar sidebar

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Optimistic entry ids for the turn in flight. Cleared when the
	// turn settles.
	pendingUserID string
	placeholderID string

	// searchArmed is consumed by the next submit, armed or not.
	searchArmed bool
	// regenArmed marks the next submit as a regeneration. Set by edit
	// and regenerate, cleared once the request is built.
	regenArmed bool

	selectedModel string
	localModels   []api.LocalModel
	cloudModels   []api.CloudModel
	prompts       []api.Prompt

	backendUp bool
	statusMsg string
	lastError *ErrorMsg
}

// New builds the chat model. The state store is optional; with a nil
// store toggles still work but do not persist across runs.
func New(cfg *config.Config, client *api.Client, store *storage.StateStore) Model {
	theme := styles.NewTheme(cfg.UI.Theme)

	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 0
	ti.Prompt = ""
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	incognito := cfg.Chat.Incognito
	collapsed := cfg.UI.SidebarCollapsed
	selected := cfg.Chat.DefaultModel
	searchArmed := false
	if store != nil {
		incognito = store.GetBool(storage.KeyIncognito, incognito)
		collapsed = store.GetBool(storage.KeySidebarCollapsed, collapsed)
		selected = store.GetString(storage.KeySelectedModel, selected)
		searchArmed = store.GetBool(storage.KeySearchMode, false)
	}

	m := Model{
		cfg:           cfg,
		theme:         theme,
		client:        client,
		conv:          model.NewConversation(),
		sess:          session.NewManager(incognito),
		store:         store,
		slot:          &turnSlot{},
		entries:       &entryList{},
		sidebar:       newSidebar(collapsed),
		viewport:      vp,
		input:         ti,
		spinner:       sp,
		searchArmed:   searchArmed,
		selectedModel: selected,
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		checkBackendCmd(m.client),
		refreshSessionsCmd(m.client),
		fetchModelsCmd(m.client),
		fetchPromptsCmd(m.client),
	)
}

// =============================================================================
// UPDATE
// =============================================================================

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if m.slot.active() != "" {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshViewport()
			return m, cmd
		}
		return m, nil
	case TurnResultMsg:
		return m.handleTurnResult(msg)
	case SessionsMsg:
		return m.handleSessions(msg)
	case SessionLoadedMsg:
		return m.handleSessionLoaded(msg)
	case RenameResultMsg:
		return m.handleRenameResult(msg)
	case DeleteResultMsg:
		return m.handleDeleteResult(msg)
	case ResetResultMsg:
		if msg.Err != nil {
			m.lastError = errFromAPI("Reset failed", msg.Err)
			return m, nil
		}
		m.startFreshThread()
		return m, refreshSessionsCmd(m.client)
	case UploadResultMsg:
		return m.handleUploadResult(msg)
	case ModelsMsg:
		if msg.Err == nil {
			m.localModels = msg.Local
			m.cloudModels = msg.Cloud
		}
		return m, nil
	case PromptsMsg:
		if msg.Err == nil {
			m.prompts = msg.Prompts
		}
		return m, nil
	case BackendStatusMsg:
		m.backendUp = msg.Reachable
		return m, nil
	case CopiedMsg:
		if e := m.entries.byID(msg.EntryID); e != nil {
			e.Copied = true
			m.refreshViewport()
		}
		return m, copyTickCmd()
	case CopyTickMsg:
		for _, e := range m.entries.entries {
			e.Copied = false
		}
		m.refreshViewport()
		return m, nil
	case ErrorMsg:
		m.lastError = &msg
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// submit starts a turn from the input box. A second submit while one is
// in flight is a silent no-op.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if cmdModel, cmd, handled := m.handleSlashCommand(text); handled {
		return cmdModel, cmd
	}

	turnID := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	if !m.slot.begin(turnID, cancel) {
		cancel()
		return m, nil
	}

	// Search arming is consumed by exactly one submit.
	outgoing := text
	if m.searchArmed {
		outgoing = m.cfg.Chat.SearchCommand + " " + text
	}
	regen := m.regenArmed
	m.setSearchArmed(false)
	m.regenArmed = false

	req := &api.GenerateRequest{
		Messages:       api.HistoryFromMessages(m.conv.Messages()),
		Model:          m.selectedModel,
		NewMessage:     api.TurnMessage{Role: "user", Content: outgoing},
		Incognito:      m.sess.Incognito(),
		IsRegeneration: regen,
	}

	userEntry := newUserEntry(outgoing)
	placeholder := newPendingEntry()
	m.entries.append(userEntry)
	m.entries.append(placeholder)
	m.pendingUserID = userEntry.ID
	m.placeholderID = placeholder.ID

	m.input.SetValue("")
	m.lastError = nil
	m.refreshViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		submitTurnCmd(m.client, ctx, turnID, req),
		m.spinner.Tick,
	)
}

// cancelTurn aborts the in-flight generation. The rollback itself runs
// when the cancelled result arrives, keeping one settling path.
func (m Model) cancelTurn() (tea.Model, tea.Cmd) {
	m.slot.cancelActive()
	return m, nil
}

func (m Model) handleTurnResult(msg TurnResultMsg) (tea.Model, tea.Cmd) {
	// A completion from a superseded turn must not touch anything.
	if !m.slot.finish(msg.TurnID) {
		return m, nil
	}

	userID, placeholderID := m.pendingUserID, m.placeholderID
	m.pendingUserID = ""
	m.placeholderID = ""

	if msg.Err != nil {
		if api.IsCancelled(msg.Err) || api.IsServerCancelled(msg.Err) {
			// Nothing was saved server-side. Roll the optimistic
			// entries back and say nothing.
			m.entries.removeByID(placeholderID)
			m.entries.removeByID(userID)
			m.refreshViewport()
			return m, nil
		}
		util.Debugf("turn %s failed: %v", msg.TurnID, msg.Err)
		m.entries.removeByID(placeholderID)
		m.entries.append(newErrorEntry("❌ Error: " + msg.Err.Error()))
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	resp := msg.Resp

	// The server echoes the user message it actually saved, which may
	// have been wrapped with search results or file context. The view
	// re-extracts from that canonical form.
	userContent := resp.UserMessageContent
	if userContent == "" {
		if e := m.entries.byID(userID); e != nil {
			userContent = e.Raw
		}
	}
	if e := m.entries.byID(userID); e != nil {
		e.Raw = userContent
		e.User = content.ParseUser(userContent)
	}

	asst := m.entries.replaceInPlace(placeholderID, resp.Message.Content)
	if asst != nil {
		asst.ModelUsed = resp.ModelUsed
		asst.GenerationTimeSeconds = resp.GenerationTimeSeconds
		asst.TokensPerSecond = resp.TokensPerSecond
	}

	// History grows only here, and only by a whole pair.
	userMsg := model.NewUserMessage(userContent)
	asstMsg := model.NewAssistantMessage(resp.Message.Content)
	asstMsg.ModelUsed = resp.ModelUsed
	asstMsg.GenerationTimeSeconds = resp.GenerationTimeSeconds
	asstMsg.TokensPerSecond = resp.TokensPerSecond
	asstMsg.Usage = resp.Usage
	m.conv.AppendPair(userMsg, asstMsg)

	m.refreshViewport()
	m.viewport.GotoBottom()

	if m.sess.Reflect(resp.SessionID) {
		return m, refreshSessionsCmd(m.client)
	}
	return m, nil
}

// editLast truncates the last exchange and places the question back in
// the input box for editing. The resubmit counts as a regeneration.
func (m Model) editLast() (tea.Model, tea.Cmd) {
	if m.slot.active() != "" {
		return m, nil
	}
	user, _, err := m.conv.TruncateLastPair()
	if err != nil {
		return m, nil
	}
	m.entries.removeLastPair()
	question := content.ParseUser(user.Content).Question
	m.input.SetValue(question)
	m.input.CursorEnd()
	m.regenArmed = true
	m.refreshViewport()
	return m, nil
}

// regenerate retries the last exchange with the same question.
func (m Model) regenerate() (tea.Model, tea.Cmd) {
	if m.slot.active() != "" {
		return m, nil
	}
	user, _, err := m.conv.TruncateLastPair()
	if err != nil {
		return m, nil
	}
	m.entries.removeLastPair()
	m.input.SetValue(content.ParseUser(user.Content).Question)
	m.regenArmed = true
	return m.submit()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m Model) handleSlashCommand(text string) (Model, tea.Cmd, bool) {
	switch {
	case strings.HasPrefix(text, "/upload "):
		path := strings.TrimSpace(strings.TrimPrefix(text, "/upload "))
		if path == "" {
			return m, nil, true
		}
		m.input.SetValue("")
		return m, uploadFileCmd(m.client, path), true
	case strings.HasPrefix(text, "/model "):
		name := strings.TrimSpace(strings.TrimPrefix(text, "/model "))
		if name == "" {
			return m, nil, true
		}
		m.selectedModel = name
		if m.store != nil {
			m.store.Set(storage.KeySelectedModel, name)
		}
		m.input.SetValue("")
		m.statusMsg = "model: " + name
		return m, nil, true
	case text == "/new":
		m.input.SetValue("")
		return m, resetThreadCmd(m.client), true
	case strings.HasPrefix(text, "/prompt "):
		title := strings.TrimSpace(strings.TrimPrefix(text, "/prompt "))
		for _, p := range m.prompts {
			if strings.EqualFold(p.Title, title) {
				m.input.SetValue(p.Content)
				m.input.CursorEnd()
				return m, nil, true
			}
		}
		m.statusMsg = "no prompt named " + title
		m.input.SetValue("")
		return m, nil, true
	}
	return m, nil, false
}

// =============================================================================
// SESSION HANDLING
// =============================================================================

func (m Model) handleSessions(msg SessionsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Throttled refreshes are expected; anything else is quiet too,
		// the sidebar just keeps its previous contents.
		return m, nil
	}
	m.sidebar.setSessions(msg.Sessions)
	return m, nil
}

func (m Model) handleSessionLoaded(msg SessionLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.lastError = errFromAPI("Could not load session", msg.Err)
		return m, nil
	}
	if m.slot.active() != "" {
		m.slot.cancelActive()
	}
	m.conv.Replace(msg.SessionID, msg.Messages)
	m.entries.loadFromHistory(msg.Messages)
	m.sess.Adopt(msg.SessionID)
	m.pendingUserID = ""
	m.placeholderID = ""
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleRenameResult(msg RenameResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Revert the optimistic title.
		m.sidebar.applyTitle(msg.SessionID, msg.Previous)
		m.lastError = errFromAPI("Rename failed", msg.Err)
		return m, nil
	}
	if m.store != nil {
		m.store.CacheTitle(msg.SessionID, msg.Title)
	}
	return m, refreshSessionsCmd(m.client)
}

func (m Model) handleDeleteResult(msg DeleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.lastError = errFromAPI("Delete failed", msg.Err)
		return m, nil
	}
	m.sidebar.removeSession(msg.SessionID)
	if m.store != nil {
		m.store.DropTitle(msg.SessionID)
	}
	if m.sess.SessionID() == msg.SessionID {
		// The open thread is orphaned, not cleared. The messages stay on
		// screen and the next confirmed turn adopts a fresh session id.
		m.sess.Reset()
	}
	return m, refreshSessionsCmd(m.client)
}

func (m Model) handleUploadResult(msg UploadResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.lastError = errFromAPI("Upload failed", msg.Err)
		return m, nil
	}
	m.entries.append(newNoticeEntry("📄 Attached " + msg.Filename))
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

// startFreshThread clears local state for a brand new conversation.
func (m *Model) startFreshThread() {
	if m.slot.active() != "" {
		m.slot.cancelActive()
	}
	m.conv.Clear()
	m.entries.reset()
	m.sess.Reset()
	m.pendingUserID = ""
	m.placeholderID = ""
	m.regenArmed = false
	m.lastError = nil
	m.refreshViewport()
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.slot.active() != "" {
			m.slot.cancelActive()
		}
		return m, tea.Quit
	}

	if m.sidebar.focused {
		return m.handleSidebarKey(msg)
	}

	switch msg.String() {
	case "esc":
		if m.slot.active() != "" {
			return m.cancelTurn()
		}
		m.lastError = nil
		return m, nil
	case "enter":
		return m.submit()
	case "tab":
		if !m.sidebar.collapsed {
			m.sidebar.focused = true
			m.input.Blur()
			if m.sidebar.cursor == 0 {
				m.sidebar.cursor = m.sidebar.firstItem()
			}
		}
		return m, nil
	case "ctrl+b":
		m.sidebar.collapsed = !m.sidebar.collapsed
		if m.sidebar.collapsed {
			m.sidebar.focused = false
			m.input.Focus()
		}
		if m.store != nil {
			m.store.SetBool(storage.KeySidebarCollapsed, m.sidebar.collapsed)
		}
		return m.handleResize(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	case "ctrl+n":
		return m, resetThreadCmd(m.client)
	case "ctrl+g":
		m.sess.SetIncognito(!m.sess.Incognito())
		if m.store != nil {
			m.store.SetBool(storage.KeyIncognito, m.sess.Incognito())
		}
		// Crossing the incognito boundary starts a clean thread in both
		// directions, so no history leaks across it. Search arming does
		// not survive the crossing either.
		m.startFreshThread()
		m.setSearchArmed(false)
		return m, resetThreadCmd(m.client)
	case "ctrl+s":
		m.setSearchArmed(!m.searchArmed)
		return m, nil
	case "ctrl+e":
		return m.editLast()
	case "ctrl+r":
		return m.regenerate()
	case "ctrl+y":
		if e := m.lastAssistantEntry(); e != nil {
			return m, copyToClipboardCmd(e.ID, e.CopyText())
		}
		return m, nil
	case "ctrl+t":
		if e := m.lastAssistantEntry(); e != nil && content.HasThink(e.Raw) {
			e.ThoughtsOpen = !e.ThoughtsOpen
			m.refreshViewport()
		}
		return m, nil
	case "ctrl+o":
		if e := m.lastSearchAugmentedReply(); e != nil {
			e.SearchOpen = !e.SearchOpen
			m.refreshViewport()
		}
		return m, nil
	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Inline rename swallows all keys until committed or cancelled.
	if m.sidebar.renaming != "" {
		switch msg.String() {
		case "enter":
			id, title, prev, ok := m.sidebar.commitRename()
			if !ok {
				return m, nil
			}
			return m, renameSessionCmd(m.client, id, title, prev)
		case "esc":
			m.sidebar.cancelRename()
			return m, nil
		}
		var cmd tea.Cmd
		m.sidebar.renameInput, cmd = m.sidebar.renameInput.Update(msg)
		return m, cmd
	}

	if m.sidebar.confirmDelete != "" {
		switch msg.String() {
		case "y", "enter":
			id := m.sidebar.confirmDelete
			m.sidebar.confirmDelete = ""
			return m, deleteSessionCmd(m.client, id)
		default:
			m.sidebar.confirmDelete = ""
			return m, nil
		}
	}

	switch msg.String() {
	case "tab", "esc":
		m.sidebar.focused = false
		m.input.Focus()
		return m, nil
	case "up", "k":
		m.sidebar.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.sidebar.moveCursor(1)
		return m, nil
	case "enter":
		if row := m.sidebar.selectedRow(); row != nil && !row.header {
			m.sidebar.focused = false
			m.input.Focus()
			return m, loadSessionCmd(m.client, row.session.SessionID)
		}
		return m, nil
	case "r":
		m.sidebar.startRename()
		return m, nil
	case "d":
		if row := m.sidebar.selectedRow(); row != nil && !row.header {
			m.sidebar.confirmDelete = row.session.SessionID
		}
		return m, nil
	case "ctrl+l":
		return m, refreshSessionsCmd(m.client)
	}
	return m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) setSearchArmed(on bool) {
	m.searchArmed = on
	if m.store != nil {
		m.store.SetBool(storage.KeySearchMode, on)
	}
}

func (m Model) lastAssistantEntry() *Entry {
	for i := len(m.entries.entries) - 1; i >= 0; i-- {
		if m.entries.entries[i].Kind == EntryAssistant {
			return m.entries.entries[i]
		}
	}
	return nil
}

// lastSearchAugmentedReply finds the most recent response whose question
// carried web search context, the entry the ctrl+o disclosure acts on.
func (m Model) lastSearchAugmentedReply() *Entry {
	es := m.entries.entries
	for i := len(es) - 1; i > 0; i-- {
		if es[i].Kind != EntryAssistant {
			continue
		}
		if es[i-1].Kind == EntryUser && es[i-1].User.Kind == content.KindSearchAugmented {
			return es[i]
		}
	}
	return nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	sidebarWidth := 0
	if !m.sidebar.collapsed {
		sidebarWidth = sidebarPanelWidth
	}
	m.viewport.Width = max(20, msg.Width-sidebarWidth-2)
	m.viewport.Height = max(5, msg.Height-inputAreaHeight-headerHeight)
	m.input.Width = max(20, msg.Width-sidebarWidth-6)
	m.refreshViewport()
	return m, nil
}

func errFromAPI(title string, err error) *ErrorMsg {
	e := NewErrorMsg(title, err.Error())
	switch {
	case api.IsBackendDown(err):
		e.Suggestions = []string{
			"Check the server is running",
			"Verify backend.base_url in the config",
		}
	case api.IsTimeout(err):
		e.Suggestions = []string{"Try again, or raise backend.timeout_seconds"}
	}
	return &e
}
