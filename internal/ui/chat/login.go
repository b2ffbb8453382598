// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aide-tui/internal/auth"
	"github.com/jeranaias/aide-tui/internal/ui/styles"
)

// loginMode selects between signing in and creating an account.
type loginMode int

const (
	loginSignIn loginMode = iota
	loginRegister
)

// loginForm is the credential entry screen.
type loginForm struct {
	theme *styles.Theme

	username textinput.Model
	password textinput.Model
	focus    int
	mode     loginMode
	errMsg   string
}

func newLoginForm(theme *styles.Theme) loginForm {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Focus()

	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'

	return loginForm{
		theme:    theme,
		username: user,
		password: pass,
	}
}

// update processes one key event. done reports a successful sign-in.
func (f loginForm) update(msg tea.KeyMsg, mgr *auth.Manager) (loginForm, bool) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		f.focus = 1 - f.focus
		if f.focus == 0 {
			f.username.Focus()
			f.password.Blur()
		} else {
			f.username.Blur()
			f.password.Focus()
		}
		return f, false

	case "ctrl+t":
		if f.mode == loginSignIn {
			f.mode = loginRegister
		} else {
			f.mode = loginSignIn
		}
		f.errMsg = ""
		return f, false

	case "ctrl+g":
		// Guest bypasses the credential store entirely.
		if err := mgr.SignIn(auth.GuestUser, ""); err != nil {
			f.errMsg = err.Error()
			return f, false
		}
		return f, true

	case "enter":
		return f.submit(mgr)
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.username, cmd = f.username.Update(msg)
	} else {
		f.password, cmd = f.password.Update(msg)
	}
	_ = cmd
	return f, false
}

// submit attempts the sign-in or registration.
func (f loginForm) submit(mgr *auth.Manager) (loginForm, bool) {
	username := strings.TrimSpace(f.username.Value())
	password := f.password.Value()

	if f.mode == loginRegister {
		if err := mgr.Register(username, password); err != nil {
			f.errMsg = err.Error()
			return f, false
		}
	}
	if err := mgr.SignIn(username, password); err != nil {
		f.errMsg = err.Error()
		return f, false
	}
	f.errMsg = ""
	return f, true
}

// view renders the login box.
func (f loginForm) view(width, height int) string {
	t := f.theme

	title := "Sign in to aide"
	action := "sign in"
	if f.mode == loginRegister {
		title = "Create an aide account"
		action = "register"
	}

	var b strings.Builder
	b.WriteString(t.FormTitle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(t.FormLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(f.username.View())
	b.WriteString("\n")
	b.WriteString(t.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(f.password.View())
	b.WriteString("\n\n")
	if f.errMsg != "" {
		b.WriteString(t.FormError.Render(f.errMsg))
		b.WriteString("\n\n")
	}
	b.WriteString(t.FormHint.Render("Enter " + action + "  C-t switch mode  C-g continue as guest"))

	return centerBox(t.FormBox.Render(b.String()), width, height)
}
