// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aide-tui/internal/channel"
	"github.com/jeranaias/aide-tui/internal/config"
	"github.com/jeranaias/aide-tui/internal/ui/components"
)

// Update routes messages to the active screen and background handlers.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case channelEventMsg:
		return m.handleChannelEvent(msg.event)

	case snapshotMsg:
		m.refresh()
		return m, nil

	case healthTickMsg:
		return m, tea.Batch(checkHealth(m.client), healthTick(m.healthInterval()))

	case healthResultMsg:
		if msg.err != nil {
			m.statusBar.Connectivity = components.ConnectivityOffline
		} else {
			m.statusBar.Connectivity = components.ConnectivityOnline
		}
		return m, nil

	case fallbackReplyMsg:
		return m.handleFallbackReply(msg)

	case modelsMsg:
		m.settingsView = m.settingsView.setModels(msg.models, msg.err)
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.statusMsg = "export failed: " + msg.err.Error()
		} else {
			m.statusMsg = "exported to " + msg.path
		}
		return m, nil

	case spokenMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleResize recomputes the layout boxes.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	sidebar := sidebarWidth(m.width)
	m.viewport.Width = m.width - sidebar - 1
	m.viewport.Height = m.height - 4
	m.messageView.SetWidth(m.viewport.Width)
	m.input.Width = m.width - 6
	m.refresh()
	return m
}

// =============================================================================
// CHANNEL EVENTS
// =============================================================================

// handleChannelEvent applies one inbound event and re-arms the listener.
func (m Model) handleChannelEvent(ev channel.Event) (tea.Model, tea.Cmd) {
	rearm := waitForChannelEvent(m.channel.Events())

	switch ev := ev.(type) {
	case channel.StepEvent:
		m.controller.BufferStep(ev.Step)
		m.refresh()
		return m, rearm

	case channel.ResponseEvent:
		m.controller.AppendAssistantMessage(ev.Content, ev.Steps)
		m.refresh()
		if m.settings.VoiceEnabled && m.speaker != nil {
			return m, tea.Batch(rearm, speak(m.speaker, ev.Content, m.settings))
		}
		return m, rearm

	case channel.ErrorEvent:
		m.controller.AppendErrorMessage(ev.Content)
		m.refresh()
		return m, rearm

	case channel.StateEvent:
		if ev.State == channel.StateOpen {
			m.statusBar.Connectivity = components.ConnectivityOnline
		}
		return m, rearm
	}

	return m, rearm
}

// handleFallbackReply finalizes a turn sent over the HTTP fallback.
func (m Model) handleFallbackReply(msg fallbackReplyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.controller.AppendErrorMessage("Could not reach the assistant: " + msg.err.Error())
		m.refresh()
		return m, nil
	}

	m.controller.AppendAssistantMessage(msg.reply.Content(), msg.reply.Steps)
	m.refresh()
	if m.settings.VoiceEnabled && m.speaker != nil {
		return m, speak(m.speaker, msg.reply.Content(), m.settings)
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes key presses by screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenLogin:
		var done bool
		m.login, done = m.login.update(msg, m.auth)
		if done {
			m.screen = ScreenChat
			m.refresh()
		}
		return m, nil

	case ScreenSettings:
		var done bool
		m.settingsView, done = m.settingsView.update(msg)
		if done {
			return m.applySettings()
		}
		return m, nil

	default:
		return m.handleChatKey(msg)
	}
}

// applySettings commits the settings draft and persists it.
func (m Model) applySettings() (tea.Model, tea.Cmd) {
	draft := m.settingsView.draft
	if err := draft.Validate(); err != nil {
		m.statusMsg = err.Error()
		m.screen = ScreenChat
		return m, nil
	}

	m.settings = draft
	m.cfg.Chat = draft
	if err := saveConfig(m.cfg); err != nil {
		m.statusMsg = "settings not saved: " + err.Error()
	}
	m.screen = ScreenChat
	m.refresh()
	return m, nil
}

// saveConfig persists the configuration to its TOML path.
func saveConfig(cfg *config.Config) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	return config.SaveTOML(cfg, path)
}

// handleChatKey processes keys on the main chat screen.
func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Rename mode reuses the input line for the new title.
	if m.renaming {
		switch msg.String() {
		case "enter":
			title := strings.TrimSpace(m.input.Value())
			if sel := m.sessionList.Selected(); sel != nil && title != "" {
				m.controller.RenameSession(sel.ID, title)
			}
			m.renaming = false
			m.input.Reset()
			m.input.Placeholder = "Type a message..."
			m.refresh()
			return m, nil
		case "esc":
			m.renaming = false
			m.input.Reset()
			m.input.Placeholder = "Type a message..."
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.FocusToggle):
		m.sidebarFocused = !m.sidebarFocused
		if m.sidebarFocused {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Settings):
		m.settingsView = m.settingsView.open(m.settings)
		m.screen = ScreenSettings
		return m, loadModels(m.client)

	case key.Matches(msg, m.keyMap.NewSession):
		m.controller.CreateSession()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Voice):
		m.settings.VoiceEnabled = !m.settings.VoiceEnabled
		if m.settings.VoiceEnabled && m.speaker != nil && !m.speaker.Available() {
			m.statusMsg = "no audio player found; voice output stays silent"
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keyMap.Dictate):
		// The capability is absent on a terminal host; say so right away.
		if err := m.recognizer.Start(context.Background()); err != nil {
			m.statusMsg = err.Error()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Export):
		title := "session"
		for _, meta := range m.snapshot.Sessions {
			if meta.ID == m.snapshot.ActiveID {
				title = meta.Title
			}
		}
		return m, exportSession(title, m.snapshot.Messages)
	}

	if m.sidebarFocused {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

// handleSidebarKey processes keys while the session list has focus.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Up):
		m.sessionList.CursorUp()
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.sessionList.CursorDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		if sel := m.sessionList.Selected(); sel != nil {
			m.controller.SelectSession(sel.ID)
			m.sidebarFocused = false
			m.input.Focus()
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Delete):
		if sel := m.sessionList.Selected(); sel != nil {
			m.controller.DeleteSession(sel.ID)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Pin):
		if sel := m.sessionList.Selected(); sel != nil {
			m.controller.TogglePin(sel.ID)
			m.refresh()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Rename):
		if sel := m.sessionList.Selected(); sel != nil {
			m.renaming = true
			m.sidebarFocused = false
			m.input.Reset()
			m.input.SetValue(sel.Title)
			m.input.Placeholder = "New title..."
			m.input.Focus()
		}
		return m, nil
	}

	return m, nil
}

// handleInputKey processes keys while the message input has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Submit) {
		// Input is disabled while a turn is outstanding.
		if m.snapshot.Busy {
			return m, nil
		}
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			return m, nil
		}
		m.input.Reset()
		m.statusMsg = ""
		m.controller.AppendUserMessage(content)
		m.refresh()
		return m, sendMessage(m.channel, m.client, content, m.settings)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}
