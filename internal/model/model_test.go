// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions, messages, and agent steps.
package model

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewSession(t *testing.T) {
	sess := NewSession()

	if sess.ID == "" {
		t.Error("NewSession() should generate an ID")
	}
	if !strings.HasPrefix(sess.ID, "sess_") {
		t.Errorf("session ID = %q, want sess_ prefix", sess.ID)
	}
	if sess.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", sess.Title, DefaultTitle)
	}
	if sess.Pinned {
		t.Error("new session should not be pinned")
	}
	if len(sess.Messages) != 0 {
		t.Error("new session should have no messages")
	}
}

func TestSession_IDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSession().ID
		if seen[id] {
			t.Fatalf("duplicate session ID %q", id)
		}
		seen[id] = true
	}
}

func TestSession_AppendMessage(t *testing.T) {
	sess := NewSession()
	created := sess.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	sess.AppendMessage(NewUserMessage("hello"))

	if sess.MessageCount() != 1 {
		t.Fatalf("MessageCount() = %d, want 1", sess.MessageCount())
	}
	if !sess.UpdatedAt.After(created) {
		t.Error("AppendMessage should advance UpdatedAt")
	}
}

func TestSession_SetTitleDoesNotTouchUpdatedAt(t *testing.T) {
	sess := NewSession()
	sess.AppendMessage(NewUserMessage("hello"))
	before := sess.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	sess.SetTitle("Renamed")

	if sess.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", sess.Title)
	}
	if !sess.UpdatedAt.Equal(before) {
		t.Error("SetTitle must not change UpdatedAt (rename must not resurrect recency)")
	}
}

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short message", "Hello", "Hello"},
		{"exactly thirty", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"truncated", strings.Repeat("a", 31), strings.Repeat("a", 30)},
		{"newlines collapsed", "line one\nline two", "line one line two"},
		{"unicode safe", strings.Repeat("é", 40), strings.Repeat("é", 30)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackTitle(tc.content); got != tc.want {
				t.Errorf("FallbackTitle(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestSortSessions_PinnedFirst(t *testing.T) {
	old := NewSession()
	old.UpdatedAt = time.Now().Add(-time.Hour)
	old.Pinned = true

	recent := NewSession()
	recent.UpdatedAt = time.Now()

	sessions := []*Session{recent, old}
	SortSessions(sessions)

	if sessions[0] != old {
		t.Error("pinned session should sort ahead of unpinned regardless of recency")
	}
}

func TestSortSessions_RecencyWithinGroup(t *testing.T) {
	a := NewSession()
	a.UpdatedAt = time.Now().Add(-time.Hour)
	b := NewSession()
	b.UpdatedAt = time.Now()

	sessions := []*Session{a, b}
	SortSessions(sessions)

	if sessions[0] != b {
		t.Error("more recently updated session should sort first")
	}
}

func TestSession_Clone(t *testing.T) {
	sess := NewSession()
	steps := []AgentStep{NewAgentStep(StepThinking, "hmm")}
	sess.AppendMessage(NewAssistantMessage("hi", steps))

	clone := sess.Clone()
	clone.Messages[0].Steps[0].Content = "changed"

	if sess.Messages[0].Steps[0].Content != "hmm" {
		t.Error("Clone should deep-copy message steps")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want user", msg.Role)
	}
	if msg.HasSteps() {
		t.Error("user messages never carry steps")
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("message ID = %q, want msg_ prefix", msg.ID)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage(strings.Repeat("x", 100))
	preview := msg.Preview(20)
	if len([]rune(preview)) != 20 {
		t.Errorf("Preview(20) length = %d, want 20", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Error("truncated preview should end with ellipsis")
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAssistant, RoleSystem} {
		if !r.Valid() {
			t.Errorf("Role %q should be valid", r)
		}
	}
	if Role("tool").Valid() {
		t.Error("role set is closed: tool is not a valid role")
	}
}

// =============================================================================
// STEP TESTS
// =============================================================================

func TestStepType_Valid(t *testing.T) {
	valid := []StepType{StepThinking, StepPlanning, StepToolCall, StepObservation, StepResponse, StepError}
	for _, st := range valid {
		if !st.Valid() {
			t.Errorf("StepType %q should be valid", st)
		}
	}
	if StepType("pondering").Valid() {
		t.Error("step type set is closed")
	}
}

func TestStepType_IsTerminal(t *testing.T) {
	if !StepResponse.IsTerminal() || !StepError.IsTerminal() {
		t.Error("response and error steps are terminal")
	}
	if StepThinking.IsTerminal() {
		t.Error("thinking steps are not terminal")
	}
}

// =============================================================================
// SETTINGS TESTS
// =============================================================================

func TestSettings_ValidateDefaults(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Errorf("DefaultSettings should validate, got %v", err)
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		ok     bool
	}{
		{"valid elevated mode", func(s *Settings) { s.Mode = ModeElevated }, true},
		{"unknown provider", func(s *Settings) { s.Provider = "bard" }, false},
		{"unknown mode", func(s *Settings) { s.Mode = "root" }, false},
		{"bad rate token", func(s *Settings) { s.VoiceRate = "ludicrous" }, false},
		{"bad pitch token", func(s *Settings) { s.VoicePitch = "chipmunk" }, false},
		{"bad language", func(s *Settings) { s.Language = "not a tag!" }, false},
		{"valid language", func(s *Settings) { s.Language = "es-MX" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSettings()
			tc.mutate(&s)
			err := s.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
