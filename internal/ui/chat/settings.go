// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/ui/styles"
)

// Settings rows, in display order.
const (
	rowProvider = iota
	rowModel
	rowMode
	rowVoiceEnabled
	rowVoiceRate
	rowVoicePitch
	rowCount
)

// settingsForm is the settings screen: each row cycles through its
// constrained value set. Changes apply when the screen closes.
type settingsForm struct {
	theme *styles.Theme

	draft  model.Settings
	cursor int

	// models holds the active provider's model list from the backend.
	// Empty means the backend has not answered; the model row then keeps
	// its current value.
	models    []string
	modelsErr string
}

func newSettingsForm(theme *styles.Theme) settingsForm {
	return settingsForm{theme: theme}
}

// open seeds the draft from the live settings.
func (f settingsForm) open(current model.Settings) settingsForm {
	f.draft = current
	f.cursor = 0
	f.modelsErr = ""
	return f
}

// setModels installs the fetched model list.
func (f settingsForm) setModels(models []string, err error) settingsForm {
	if err != nil {
		f.modelsErr = "model list unavailable"
		return f
	}
	f.models = models
	f.modelsErr = ""
	return f
}

// update processes one key event. done reports the screen should close
// and the draft be applied.
func (f settingsForm) update(msg tea.KeyMsg) (settingsForm, bool) {
	switch msg.String() {
	case "up", "k":
		if f.cursor > 0 {
			f.cursor--
		}
	case "down", "j":
		if f.cursor < rowCount-1 {
			f.cursor++
		}
	case "left", "h":
		f.cycle(-1)
	case "right", "l", "enter", " ":
		f.cycle(1)
	case "esc":
		return f, true
	}
	return f, false
}

// cycle advances the value under the cursor.
func (f *settingsForm) cycle(dir int) {
	switch f.cursor {
	case rowProvider:
		providers := make([]string, len(model.Providers))
		for i, p := range model.Providers {
			providers[i] = p.String()
		}
		f.draft.Provider = model.Provider(cycleToken(providers, f.draft.Provider.String(), dir))
	case rowModel:
		if len(f.models) > 0 {
			f.draft.Model = cycleToken(f.models, f.draft.Model, dir)
		}
	case rowMode:
		if f.draft.Mode == model.ModeStandard {
			f.draft.Mode = model.ModeElevated
		} else {
			f.draft.Mode = model.ModeStandard
		}
	case rowVoiceEnabled:
		f.draft.VoiceEnabled = !f.draft.VoiceEnabled
	case rowVoiceRate:
		f.draft.VoiceRate = cycleToken(model.VoiceRates, f.draft.VoiceRate, dir)
	case rowVoicePitch:
		f.draft.VoicePitch = cycleToken(model.VoicePitches, f.draft.VoicePitch, dir)
	}
}

// cycleToken steps through an allowed token set, wrapping at the ends.
func cycleToken(allowed []string, current string, dir int) string {
	if len(allowed) == 0 {
		return current
	}
	idx := 0
	for i, tok := range allowed {
		if tok == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(allowed)) % len(allowed)
	return allowed[idx]
}

// view renders the settings box.
func (f settingsForm) view(width, height int) string {
	t := f.theme

	rows := []struct {
		label string
		value string
	}{
		{"Provider", f.draft.Provider.String()},
		{"Model", f.draft.Model},
		{"Mode", string(f.draft.Mode)},
		{"Voice output", onOff(f.draft.VoiceEnabled)},
		{"Voice rate", f.draft.VoiceRate},
		{"Voice pitch", f.draft.VoicePitch},
	}

	var b strings.Builder
	b.WriteString(t.FormTitle.Render("Settings"))
	b.WriteString("\n\n")
	for i, row := range rows {
		line := row.label + ": " + row.value
		if i == f.cursor {
			b.WriteString(t.FormSelected.Render("> " + line))
		} else {
			b.WriteString(t.FormLabel.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if f.draft.Mode == model.ModeElevated {
		b.WriteString("\n")
		b.WriteString(t.FormError.Render("Elevated mode allows unrestricted system actions."))
		b.WriteString("\n")
	}
	if f.modelsErr != "" {
		b.WriteString("\n")
		b.WriteString(t.FormHint.Render(f.modelsErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.FormHint.Render("arrows adjust  Esc save and close"))

	return centerBox(t.FormBox.Render(b.String()), width, height)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
