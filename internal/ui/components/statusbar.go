// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/ui/styles"
)

// Connectivity is the backend health indicator state.
type Connectivity int

const (
	ConnectivityUnknown Connectivity = iota
	ConnectivityOnline
	ConnectivityOffline
)

// String returns the indicator label.
func (c Connectivity) String() string {
	switch c {
	case ConnectivityOnline:
		return "online"
	case ConnectivityOffline:
		return "offline"
	default:
		return "checking"
	}
}

// StatusBar renders the bottom status line: connectivity, active user,
// provider/model, operating mode, and the busy indicator.
type StatusBar struct {
	theme *styles.Theme

	Connectivity Connectivity
	User         string
	Settings     model.Settings
	Busy         bool
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// Render draws the status line at the given width.
func (s *StatusBar) Render(width int) string {
	var parts []string

	switch s.Connectivity {
	case ConnectivityOnline:
		parts = append(parts, s.theme.StatusOnline.Render("● "+s.Connectivity.String()))
	case ConnectivityOffline:
		parts = append(parts, s.theme.StatusOffline.Render("○ "+s.Connectivity.String()))
	default:
		parts = append(parts, s.theme.StatusBar.Render("◌ "+s.Connectivity.String()))
	}

	if s.User != "" {
		parts = append(parts, s.theme.StatusBar.Render(s.User))
	}

	parts = append(parts, s.theme.StatusBar.Render(
		s.Settings.Provider.String()+"/"+s.Settings.Model))

	if s.Settings.Mode == model.ModeElevated {
		parts = append(parts, s.theme.StatusMode.Render("ELEVATED"))
	}
	if s.Settings.VoiceEnabled {
		parts = append(parts, s.theme.StatusBar.Render("voice"))
	}
	if s.Busy {
		parts = append(parts, s.theme.StatusBusy.Render("working..."))
	}

	line := strings.Join(parts, s.theme.StatusBar.Render("  "))
	if pad := width - lipgloss.Width(line); pad > 0 {
		line += s.theme.StatusBar.Render(strings.Repeat(" ", pad))
	}
	return line
}
