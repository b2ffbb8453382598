// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions, messages, and agent steps.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// DefaultTitle is the title assigned to a session before its first message.
const DefaultTitle = "New Chat"

// TitleFallbackLen is the number of characters taken from the first message
// when the title-generation call fails.
const TitleFallbackLen = 30

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session holds one conversation thread with its message history and metadata.
//
// Message order is insertion order and is never reordered, only appended to.
type Session struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Pinned sessions sort ahead of unpinned ones regardless of recency.
	Pinned bool `json:"pinned"`

	// Messages
	Messages []Message `json:"messages"`
}

// NewSession creates a new session with a generated ID and the default title.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        generateSessionID(now),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AppendMessage appends a message and touches the update timestamp.
func (s *Session) AppendMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = time.Now()
}

// LastMessage returns the most recent message, or nil if empty.
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return &s.Messages[len(s.Messages)-1]
}

// FirstUserMessage returns the first user message, or nil if none exists.
func (s *Session) FirstUserMessage() *Message {
	for i := range s.Messages {
		if s.Messages[i].Role == RoleUser {
			return &s.Messages[i]
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// SetTitle overwrites the title only. It deliberately does not touch
// UpdatedAt: renaming must not resurrect a session to "recently active".
func (s *Session) SetTitle(title string) {
	s.Title = title
}

// FallbackTitle derives a title from the given message content, used when the
// title-generation collaborator fails. Newlines are collapsed and the result
// is truncated to TitleFallbackLen characters, exactly.
func FallbackTitle(content string) string {
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\r", "")
	runes := []rune(content)
	if len(runes) > TitleFallbackLen {
		return string(runes[:TitleFallbackLen])
	}
	return content
}

// =============================================================================
// SERIALIZATION HELPERS
// =============================================================================

// Preview returns a short preview from the first user message.
func (s *Session) Preview() string {
	first := s.FirstUserMessage()
	if first == nil {
		return ""
	}
	return first.Preview(80)
}

// Meta returns lightweight metadata for listing.
func (s *Session) Meta() SessionMeta {
	return SessionMeta{
		ID:           s.ID,
		Title:        s.Title,
		Pinned:       s.Pinned,
		MessageCount: len(s.Messages),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		Preview:      s.Preview(),
	}
}

// SessionMeta holds lightweight metadata for listing.
type SessionMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Pinned       bool      `json:"pinned"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Preview      string    `json:"preview"`
}

// Clone creates a deep copy of the session.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Pinned:    s.Pinned,
		Messages:  make([]Message, len(s.Messages)),
	}
	copy(clone.Messages, s.Messages)
	for i := range clone.Messages {
		if len(s.Messages[i].Steps) > 0 {
			clone.Messages[i].Steps = make([]AgentStep, len(s.Messages[i].Steps))
			copy(clone.Messages[i].Steps, s.Messages[i].Steps)
		}
	}
	return clone
}

// =============================================================================
// ORDERING
// =============================================================================

// SortSessions orders sessions for display: pinned first, then most recently
// updated first. The sort is stable with respect to equal timestamps.
func SortSessions(sessions []*Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessionLess(sessions[i], sessions[j])
	})
}

// sessionLess reports whether a should display ahead of b.
func sessionLess(a, b *Session) bool {
	if a.Pinned != b.Pinned {
		return a.Pinned
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateSessionID creates a unique, time-derived session ID.
// A random suffix keeps IDs unique when sessions are created within the
// same second.
func generateSessionID(t time.Time) string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return "sess_" + t.Format("20060102_150405") + "_" + hex.EncodeToString(suffix)
}
