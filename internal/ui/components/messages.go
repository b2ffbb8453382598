// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/ui/styles"
)

// MessageView renders a conversation transcript, including the live step
// trace for the turn in flight.
type MessageView struct {
	theme     *styles.Theme
	width     int
	renderer  *glamour.TermRenderer
	showSteps bool
}

// NewMessageView creates a message view with markdown rendering.
func NewMessageView(theme *styles.Theme, showSteps bool) *MessageView {
	mv := &MessageView{
		theme:     theme,
		width:     80,
		showSteps: showSteps,
	}
	mv.rebuildRenderer()
	return mv
}

// SetWidth updates the wrap width.
func (v *MessageView) SetWidth(width int) {
	if width == v.width || width < 20 {
		return
	}
	v.width = width
	v.rebuildRenderer()
}

// rebuildRenderer recreates the glamour renderer for the current width.
// A nil renderer falls back to plain text.
func (v *MessageView) rebuildRenderer() {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(v.width-2),
	)
	if err != nil {
		v.renderer = nil
		return
	}
	v.renderer = r
}

// Render draws the transcript with the live steps appended.
func (v *MessageView) Render(messages []model.Message, liveSteps []model.AgentStep, busy bool) string {
	var b strings.Builder

	if len(messages) == 0 && len(liveSteps) == 0 {
		b.WriteString(v.theme.StepMeta.Render("Start the conversation with a message."))
		return b.String()
	}

	for i := range messages {
		v.renderMessage(&b, &messages[i])
		b.WriteString("\n")
	}

	if busy {
		if v.showSteps {
			for i := range liveSteps {
				v.renderStep(&b, &liveSteps[i])
			}
		}
		b.WriteString(v.theme.StepThinking.Render("assistant is working..."))
		b.WriteString("\n")
	}

	return b.String()
}

// renderMessage draws one message with its role label and timestamp.
func (v *MessageView) renderMessage(b *strings.Builder, msg *model.Message) {
	label := v.roleLabel(msg.Role)
	ts := v.theme.Timestamp.Render(msg.Timestamp.Format(time.Kitchen))
	b.WriteString(label + " " + ts + "\n")

	content := msg.Content
	if msg.Role == model.RoleAssistant {
		content = v.markdown(content)
	} else {
		content = v.theme.MessageBody.Render(content) + "\n"
	}
	b.WriteString(content)

	if v.showSteps && len(msg.Steps) > 0 {
		b.WriteString(v.theme.StepMeta.Render(fmt.Sprintf("  %d agent steps", len(msg.Steps))))
		b.WriteString("\n")
		for i := range msg.Steps {
			v.renderStep(b, &msg.Steps[i])
		}
	}
}

// renderStep draws one agent step line.
func (v *MessageView) renderStep(b *strings.Builder, step *model.AgentStep) {
	style := v.theme.StepThinking
	switch step.Type {
	case model.StepToolCall, model.StepObservation:
		style = v.theme.StepTool
	case model.StepError:
		style = v.theme.StepError
	}

	line := "  " + step.Type.Label()
	if step.ToolName != "" {
		line += " [" + step.ToolName + "]"
	}
	if step.Content != "" {
		line += ": " + firstLine(step.Content)
	}
	if step.DurationMs > 0 {
		line += v.theme.StepMeta.Render(fmt.Sprintf(" (%dms)", step.DurationMs))
	}
	b.WriteString(style.Render(line))
	b.WriteString("\n")
}

// roleLabel returns the styled display name for a role.
func (v *MessageView) roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return v.theme.UserLabel.Render("You")
	case model.RoleAssistant:
		return v.theme.AssistantLabel.Render("Aide")
	default:
		return v.theme.SystemLabel.Render("System")
	}
}

// markdown renders assistant content, falling back to plain text when the
// renderer is unavailable or fails.
func (v *MessageView) markdown(content string) string {
	if v.renderer == nil {
		return content + "\n"
	}
	rendered, err := v.renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

// firstLine returns the first line of a multi-line string.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
