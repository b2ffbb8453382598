// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/ui/styles"
	"github.com/jeranaias/aide-tui/internal/util"
)

// pinMarker prefixes pinned sessions in the sidebar.
const pinMarker = "* "

// SessionList renders the session sidebar. The caller supplies the
// display-ordered metadata from the controller snapshot; this component
// never reorders it.
type SessionList struct {
	theme *styles.Theme

	items    []model.SessionMeta
	cursor   int
	activeID string
}

// NewSessionList creates an empty session list.
func NewSessionList(theme *styles.Theme) *SessionList {
	return &SessionList{theme: theme}
}

// SetItems replaces the listed sessions, clamping the cursor.
func (l *SessionList) SetItems(items []model.SessionMeta, activeID string) {
	l.items = items
	l.activeID = activeID
	if l.cursor >= len(items) {
		l.cursor = len(items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// CursorUp moves the selection up one entry.
func (l *SessionList) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// CursorDown moves the selection down one entry.
func (l *SessionList) CursorDown() {
	if l.cursor < len(l.items)-1 {
		l.cursor++
	}
}

// Selected returns the metadata under the cursor, or nil when empty.
func (l *SessionList) Selected() *model.SessionMeta {
	if len(l.items) == 0 {
		return nil
	}
	return &l.items[l.cursor]
}

// Len returns the number of listed sessions.
func (l *SessionList) Len() int {
	return len(l.items)
}

// Render draws the list into the given box.
func (l *SessionList) Render(width, height int) string {
	if width < 4 || height < 1 {
		return ""
	}

	var b strings.Builder
	b.WriteString(l.theme.Header.Render(util.PadWidth("Sessions", width)))
	b.WriteString("\n")

	rows := height - 1
	if len(l.items) == 0 {
		b.WriteString(l.theme.SessionMeta.Render("no sessions yet"))
		return l.theme.SessionList.Render(b.String())
	}

	// Keep the cursor visible inside the scrolling window.
	start := 0
	if l.cursor >= rows {
		start = l.cursor - rows + 1
	}

	for i := start; i < len(l.items) && i < start+rows; i++ {
		item := l.items[i]

		label := item.Title
		if item.Pinned {
			label = pinMarker + label
		}
		label = util.TruncateWidth(label, width-2)
		label = util.PadWidth(label, width-2)

		style := l.theme.SessionItem
		prefix := "  "
		if i == l.cursor {
			style = l.theme.SessionItemSelected
			prefix = "> "
		} else if item.ID == l.activeID {
			style = l.theme.SessionItemSelected
		}
		if item.Pinned {
			style = style.Inherit(l.theme.SessionPin)
		}

		b.WriteString(style.Render(prefix + label))
		if i < len(l.items)-1 {
			b.WriteString("\n")
		}
	}

	return l.theme.SessionList.Render(b.String())
}

// Describe summarizes the selected session for the status line.
func (l *SessionList) Describe() string {
	sel := l.Selected()
	if sel == nil {
		return ""
	}
	return fmt.Sprintf("%s (%d messages)", sel.Title, sel.MessageCount)
}
