// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// minSidebarWidth keeps the session list readable on narrow terminals.
const minSidebarWidth = 22

// View renders the active screen.
func (m Model) View() string {
	if m.width == 0 {
		return "starting aide..."
	}

	switch m.screen {
	case ScreenLogin:
		return m.login.view(m.width, m.height)
	case ScreenSettings:
		return m.settingsView.view(m.width, m.height)
	default:
		return m.chatView()
	}
}

// chatView composes the main layout: header, sidebar beside the
// conversation, input line, status bar.
func (m Model) chatView() string {
	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	sidebar := m.theme.SessionList.Render(
		m.sessionList.Render(sidebarWidth(m.width), m.viewport.Height),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", m.viewport.View())
	b.WriteString(body)
	b.WriteString("\n")

	b.WriteString(m.inputView())
	b.WriteString("\n")

	b.WriteString(m.statusBar.Render(m.width))
	return b.String()
}

// headerView renders the one-line title bar.
func (m Model) headerView() string {
	title := "aide"
	if m.statusMsg != "" {
		title += "  " + m.statusMsg
	}
	return m.theme.Header.Width(m.width).Render(title)
}

// inputView renders the message input, or the busy notice while a turn is
// outstanding.
func (m Model) inputView() string {
	if m.renaming {
		return m.theme.InputContainer.Render("rename: " + m.input.View())
	}
	if m.snapshot.Busy {
		return m.theme.InputDisabled.Render(m.spinner.View() + " waiting for the assistant...")
	}
	if m.sidebarFocused {
		return m.theme.InputDisabled.Render(m.sessionList.Describe())
	}
	return m.theme.InputContainer.Render(m.input.View())
}

// sidebarWidth sizes the session list against the terminal width.
func sidebarWidth(total int) int {
	w := total / 4
	if w < minSidebarWidth {
		w = minSidebarWidth
	}
	if w > total-20 && total > minSidebarWidth {
		w = minSidebarWidth
	}
	return w
}

// centerBox places content in the middle of the screen.
func centerBox(content string, width, height int) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
