// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aide-tui/internal/api"
	"github.com/jeranaias/aide-tui/internal/auth"
	"github.com/jeranaias/aide-tui/internal/channel"
	"github.com/jeranaias/aide-tui/internal/config"
	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/session"
	"github.com/jeranaias/aide-tui/internal/ui/components"
	"github.com/jeranaias/aide-tui/internal/ui/styles"
	"github.com/jeranaias/aide-tui/internal/voice"
)

// =============================================================================
// SCREENS
// =============================================================================

// Screen identifies which top-level view is active.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenChat
	ScreenSettings
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps carries the collaborators the chat application drives.
type Deps struct {
	Config     *config.Config
	Controller *session.Controller
	Channel    *channel.Manager
	Client     *api.Client
	Auth       *auth.Manager
	Speaker    *voice.Speaker
	Recognizer *voice.Recognizer
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the aide application.
type Model struct {
	screen Screen

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Collaborators
	cfg        *config.Config
	controller *session.Controller
	channel    *channel.Manager
	client     *api.Client
	auth       *auth.Manager
	speaker    *voice.Speaker
	recognizer *voice.Recognizer

	// Current controller projection
	snapshot session.Snapshot

	// Live settings snapshot sent with every message
	settings model.Settings

	// UI components
	sessionList *components.SessionList
	messageView *components.MessageView
	statusBar   *components.StatusBar
	viewport    viewport.Model
	input       textinput.Model
	spinner     spinner.Model

	// Sub-screens
	login        loginForm
	settingsView settingsForm

	// Key bindings
	keyMap KeyMap

	// Focus and modes
	sidebarFocused bool
	renaming       bool

	// Transient status line message
	statusMsg string
}

// New creates the application model.
func New(deps Deps) Model {
	theme := styles.NewTheme(deps.Config.UI.Theme)

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	m := Model{
		screen:       ScreenChat,
		theme:        theme,
		cfg:          deps.Config,
		controller:   deps.Controller,
		channel:      deps.Channel,
		client:       deps.Client,
		auth:         deps.Auth,
		speaker:      deps.Speaker,
		recognizer:   deps.Recognizer,
		settings:     deps.Config.Chat,
		sessionList:  components.NewSessionList(theme),
		messageView:  components.NewMessageView(theme, deps.Config.UI.ShowSteps),
		statusBar:    components.NewStatusBar(theme),
		viewport:     vp,
		input:        ti,
		spinner:      sp,
		keyMap:       DefaultKeyMap(),
		login:        newLoginForm(theme),
		settingsView: newSettingsForm(theme),
	}

	if deps.Auth != nil && deps.Auth.ActiveUser() == "" {
		m.screen = ScreenLogin
	}

	m.refresh()
	return m
}

// Init starts the background event sources.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForChannelEvent(m.channel.Events()),
		healthTick(m.healthInterval()),
		checkHealth(m.client),
	)
}

// healthInterval returns the configured connectivity poll cadence.
func (m Model) healthInterval() time.Duration {
	secs := m.cfg.Backend.HealthIntervalSecs
	if secs <= 0 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}

// refresh pulls the controller snapshot into the view components.
func (m *Model) refresh() {
	m.snapshot = m.controller.Snapshot()
	m.sessionList.SetItems(m.snapshot.Sessions, m.snapshot.ActiveID)
	m.statusBar.Settings = m.settings
	m.statusBar.Busy = m.snapshot.Busy
	if m.auth != nil {
		m.statusBar.User = m.auth.ActiveUser()
	}
	m.viewport.SetContent(m.messageView.Render(m.snapshot.Messages, m.snapshot.Steps, m.snapshot.Busy))
	m.viewport.GotoBottom()
}
