// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App    lipgloss.Style
	Header lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	SystemLabel    lipgloss.Style
	MessageBody    lipgloss.Style
	Timestamp      lipgloss.Style

	// ==========================================================================
	// AGENT STEP STYLES
	// ==========================================================================

	StepThinking lipgloss.Style
	StepTool     lipgloss.Style
	StepError    lipgloss.Style
	StepMeta     lipgloss.Style

	// ==========================================================================
	// SESSION LIST STYLES
	// ==========================================================================

	SessionList         lipgloss.Style
	SessionItem         lipgloss.Style
	SessionItemSelected lipgloss.Style
	SessionPin          lipgloss.Style
	SessionMeta         lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	InputDisabled  lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	StatusMode    lipgloss.Style
	StatusBusy    lipgloss.Style

	// ==========================================================================
	// FORM STYLES (login, settings)
	// ==========================================================================

	FormBox      lipgloss.Style
	FormTitle    lipgloss.Style
	FormLabel    lipgloss.Style
	FormSelected lipgloss.Style
	FormError    lipgloss.Style
	FormHint     lipgloss.Style
}

// color palettes keyed by role; dark and light variants.
type palette struct {
	accent    lipgloss.Color
	secondary lipgloss.Color
	text      lipgloss.Color
	dim       lipgloss.Color
	good      lipgloss.Color
	warn      lipgloss.Color
	bad       lipgloss.Color
	surface   lipgloss.Color
}

func darkPalette() palette {
	return palette{
		accent:    lipgloss.Color("#7AA2F7"),
		secondary: lipgloss.Color("#BB9AF7"),
		text:      lipgloss.Color("#C0CAF5"),
		dim:       lipgloss.Color("#565F89"),
		good:      lipgloss.Color("#9ECE6A"),
		warn:      lipgloss.Color("#E0AF68"),
		bad:       lipgloss.Color("#F7768E"),
		surface:   lipgloss.Color("#1A1B26"),
	}
}

func lightPalette() palette {
	return palette{
		accent:    lipgloss.Color("#2959AA"),
		secondary: lipgloss.Color("#65359D"),
		text:      lipgloss.Color("#343B58"),
		dim:       lipgloss.Color("#8990B3"),
		good:      lipgloss.Color("#385F0D"),
		warn:      lipgloss.Color("#8F5E15"),
		bad:       lipgloss.Color("#8C4351"),
		surface:   lipgloss.Color("#E6E7ED"),
	}
}

// NewTheme builds a theme for the requested variant: "dark", "light", or
// "auto" (probe the terminal background).
func NewTheme(variant string) *Theme {
	profile := termenv.ColorProfile()

	dark := true
	switch variant {
	case "light":
		dark = false
	case "dark":
		dark = true
	default:
		dark = termenv.HasDarkBackground()
	}

	p := darkPalette()
	if !dark {
		p = lightPalette()
	}

	t := &Theme{
		IsDark:       dark,
		ColorProfile: profile,
	}

	t.App = lipgloss.NewStyle()
	t.Header = lipgloss.NewStyle().Bold(true).Foreground(p.accent)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(p.secondary)
	t.SystemLabel = lipgloss.NewStyle().Bold(true).Foreground(p.warn)
	t.MessageBody = lipgloss.NewStyle().Foreground(p.text)
	t.Timestamp = lipgloss.NewStyle().Foreground(p.dim)

	t.StepThinking = lipgloss.NewStyle().Foreground(p.dim).Italic(true)
	t.StepTool = lipgloss.NewStyle().Foreground(p.warn)
	t.StepError = lipgloss.NewStyle().Foreground(p.bad)
	t.StepMeta = lipgloss.NewStyle().Foreground(p.dim)

	t.SessionList = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(p.dim)
	t.SessionItem = lipgloss.NewStyle().Foreground(p.text)
	t.SessionItemSelected = lipgloss.NewStyle().
		Foreground(p.accent).
		Bold(true)
	t.SessionPin = lipgloss.NewStyle().Foreground(p.warn)
	t.SessionMeta = lipgloss.NewStyle().Foreground(p.dim)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(p.dim)
	t.InputPrompt = lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	t.InputDisabled = lipgloss.NewStyle().Foreground(p.dim)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(p.text).
		Background(p.surface)
	t.StatusOnline = lipgloss.NewStyle().Foreground(p.good).Background(p.surface)
	t.StatusOffline = lipgloss.NewStyle().Foreground(p.bad).Background(p.surface)
	t.StatusMode = lipgloss.NewStyle().Foreground(p.warn).Background(p.surface).Bold(true)
	t.StatusBusy = lipgloss.NewStyle().Foreground(p.secondary).Background(p.surface)

	t.FormBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.accent).
		Padding(1, 2)
	t.FormTitle = lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	t.FormLabel = lipgloss.NewStyle().Foreground(p.text)
	t.FormSelected = lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	t.FormError = lipgloss.NewStyle().Foreground(p.bad)
	t.FormHint = lipgloss.NewStyle().Foreground(p.dim)

	return t
}
