// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// SESSION LIST TESTS
// =============================================================================

func metaList(titles ...string) []model.SessionMeta {
	items := make([]model.SessionMeta, len(titles))
	now := time.Now()
	for i, title := range titles {
		items[i] = model.SessionMeta{
			ID:        "sess_" + title,
			Title:     title,
			UpdatedAt: now,
		}
	}
	return items
}

func TestSessionList_CursorClamps(t *testing.T) {
	l := NewSessionList(testTheme())
	l.SetItems(metaList("a", "b", "c"), "")

	l.CursorUp()
	if sel := l.Selected(); sel == nil || sel.Title != "a" {
		t.Errorf("cursor moved above the first entry: %+v", sel)
	}

	for i := 0; i < 10; i++ {
		l.CursorDown()
	}
	if sel := l.Selected(); sel == nil || sel.Title != "c" {
		t.Errorf("cursor moved past the last entry: %+v", sel)
	}

	// Shrinking the list pulls the cursor back in range.
	l.SetItems(metaList("a"), "")
	if sel := l.Selected(); sel == nil || sel.Title != "a" {
		t.Errorf("cursor not clamped after shrink: %+v", sel)
	}
}

func TestSessionList_RenderMarksPinned(t *testing.T) {
	l := NewSessionList(testTheme())
	items := metaList("errands", "ideas")
	items[1].Pinned = true
	l.SetItems(items, "")

	out := l.Render(30, 10)
	if !strings.Contains(out, pinMarker+"ideas") {
		t.Errorf("pinned session not marked in:\n%s", out)
	}
}

func TestSessionList_EmptyRender(t *testing.T) {
	l := NewSessionList(testTheme())
	l.SetItems(nil, "")

	out := l.Render(30, 10)
	if !strings.Contains(out, "no sessions yet") {
		t.Errorf("empty list placeholder missing:\n%s", out)
	}
	if l.Selected() != nil {
		t.Error("Selected() on empty list must be nil")
	}
}

// =============================================================================
// MESSAGE VIEW TESTS
// =============================================================================

func TestMessageView_RendersConversation(t *testing.T) {
	v := NewMessageView(testTheme(), true)

	messages := []model.Message{
		model.NewUserMessage("Hello"),
		model.NewAssistantMessage("Hi there", []model.AgentStep{
			{ID: "s1", Type: model.StepThinking, Content: "considering"},
		}),
	}

	out := v.Render(messages, nil, false)
	if !strings.Contains(out, "Hello") {
		t.Error("user content missing from transcript")
	}
	if !strings.Contains(out, "Hi there") {
		t.Error("assistant content missing from transcript")
	}
	if !strings.Contains(out, "1 agent steps") {
		t.Error("step summary missing from transcript")
	}
}

func TestMessageView_LiveStepsOnlyWhileBusy(t *testing.T) {
	v := NewMessageView(testTheme(), true)
	steps := []model.AgentStep{
		{ID: "s1", Type: model.StepToolCall, ToolName: "search", Content: "querying"},
	}

	busy := v.Render(nil, steps, true)
	if !strings.Contains(busy, "search") {
		t.Error("live step not rendered while busy")
	}

	idle := v.Render(nil, steps, false)
	if strings.Contains(idle, "search") {
		t.Error("live steps must not render when no turn is in flight")
	}
}

func TestMessageView_StepsHiddenWhenDisabled(t *testing.T) {
	v := NewMessageView(testTheme(), false)
	messages := []model.Message{
		model.NewAssistantMessage("done", []model.AgentStep{
			{ID: "s1", Type: model.StepToolCall, ToolName: "search"},
		}),
	}

	out := v.Render(messages, nil, false)
	if strings.Contains(out, "agent steps") {
		t.Error("steps rendered despite show_steps=false")
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBar_Render(t *testing.T) {
	s := NewStatusBar(testTheme())
	s.Connectivity = ConnectivityOnline
	s.User = "guest"
	s.Settings = model.DefaultSettings()

	out := s.Render(100)
	for _, want := range []string{"online", "guest", "ollama/llama3.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ELEVATED") {
		t.Error("standard mode must not show the elevated marker")
	}
}

func TestStatusBar_ElevatedMarker(t *testing.T) {
	s := NewStatusBar(testTheme())
	s.Settings = model.DefaultSettings()
	s.Settings.Mode = model.ModeElevated

	if out := s.Render(100); !strings.Contains(out, "ELEVATED") {
		t.Error("elevated mode marker missing")
	}
}
