// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/util"
)

// exportSession writes the conversation to a markdown file under
// ~/.aide/exports and reports the path.
func exportSession(title string, messages []model.Message) tea.Cmd {
	return func() tea.Msg {
		path, err := writeExport(title, messages)
		return exportedMsg{path: path, err: err}
	}
}

// writeExport renders and saves the markdown transcript.
func writeExport(title string, messages []model.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("nothing to export")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".aide", "exports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.md", slugify(title), time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)

	if err := util.AtomicWriteFile(path, []byte(renderExport(title, messages)), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// renderExport builds the markdown document.
func renderExport(title string, messages []model.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Exported %s\n\n", time.Now().Format(time.RFC1123))

	for i := range messages {
		msg := &messages[i]
		fmt.Fprintf(&b, "## %s (%s)\n\n", msg.Role.DisplayName(), msg.Timestamp.Format(time.RFC3339))
		b.WriteString(msg.Content)
		b.WriteString("\n\n")

		if len(msg.Steps) > 0 {
			b.WriteString("<details><summary>Agent steps</summary>\n\n")
			for j := range msg.Steps {
				step := &msg.Steps[j]
				fmt.Fprintf(&b, "- **%s**", step.Type.Label())
				if step.ToolName != "" {
					fmt.Fprintf(&b, " `%s`", step.ToolName)
				}
				if step.Content != "" {
					fmt.Fprintf(&b, ": %s", step.Content)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n</details>\n\n")
		}
	}
	return b.String()
}

// slugify turns a session title into a safe file name fragment.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "session"
	}
	if len(out) > 40 {
		out = out[:40]
	}
	return out
}
