// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/thinkchat-tui/internal/api"
)

// =============================================================================
// COMMANDS
// =============================================================================
// Each command wraps one network call and reports back as a typed message.
// Turn generation takes the prepared context so the slot's cancel func
// controls it; everything else gets a fresh bounded context.

const requestTimeout = 30 * time.Second

func submitTurnCmd(client *api.Client, ctx context.Context, turnID string, req *api.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		resp, err := client.Generate(ctx, req)
		return TurnResultMsg{TurnID: turnID, Resp: resp, Err: err}
	}
}

func refreshSessionsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sessions, err := client.Sessions(ctx)
		return SessionsMsg{Sessions: sessions, Err: err}
	}
}

func loadSessionCmd(client *api.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msgs, err := client.SessionHistory(ctx, sessionID)
		return SessionLoadedMsg{SessionID: sessionID, Messages: msgs, Err: err}
	}
}

func renameSessionCmd(client *api.Client, sessionID, title, prev string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.RenameSession(ctx, sessionID, title)
		return RenameResultMsg{SessionID: sessionID, Title: title, Previous: prev, Err: err}
	}
}

func deleteSessionCmd(client *api.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.DeleteSession(ctx, sessionID)
		return DeleteResultMsg{SessionID: sessionID, Err: err}
	}
}

func resetThreadCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ResetResultMsg{Err: client.ResetThread(ctx)}
	}
}

func uploadFileCmd(client *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return UploadResultMsg{Filename: filepath.Base(path), Err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := client.Upload(ctx, filepath.Base(path), f)
		if err != nil {
			return UploadResultMsg{Filename: filepath.Base(path), Err: err}
		}
		return UploadResultMsg{Filename: resp.Filename, Message: resp.Message}
	}
}

func fetchModelsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		local, err := client.Models(ctx)
		if err != nil {
			return ModelsMsg{Err: err}
		}
		cloud, err := client.CloudModels(ctx)
		if err != nil {
			// Cloud configs are optional; local models alone are usable.
			return ModelsMsg{Local: local}
		}
		return ModelsMsg{Local: local, Cloud: cloud}
	}
}

func fetchPromptsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		prompts, err := client.Prompts(ctx)
		return PromptsMsg{Prompts: prompts, Err: err}
	}
}

func checkBackendCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := client.CheckReachable(ctx)
		return BackendStatusMsg{Reachable: err == nil, Err: err}
	}
}

func copyToClipboardCmd(entryID, text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return NewErrorMsg("Clipboard", "could not copy to clipboard: "+err.Error())
		}
		return CopiedMsg{EntryID: entryID}
	}
}

func copyTickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return CopyTickMsg{}
	})
}
