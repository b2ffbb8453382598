// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions, messages, and agent steps.
package model

import "github.com/google/uuid"

// =============================================================================
// STEP TYPE
// =============================================================================

// StepType classifies one unit of the agent's visible reasoning trace.
type StepType string

const (
	StepThinking    StepType = "thinking"
	StepPlanning    StepType = "planning"
	StepToolCall    StepType = "tool_call"
	StepObservation StepType = "observation"
	StepResponse    StepType = "response"
	StepError       StepType = "error"
)

// String returns the string representation of the step type.
func (t StepType) String() string {
	return string(t)
}

// Valid reports whether the step type is one of the closed set.
func (t StepType) Valid() bool {
	switch t {
	case StepThinking, StepPlanning, StepToolCall, StepObservation, StepResponse, StepError:
		return true
	}
	return false
}

// IsTerminal returns true for step types that end an agent turn.
func (t StepType) IsTerminal() bool {
	return t == StepResponse || t == StepError
}

// Label returns a human-readable label for display.
func (t StepType) Label() string {
	switch t {
	case StepThinking:
		return "Thinking"
	case StepPlanning:
		return "Planning"
	case StepToolCall:
		return "Tool Call"
	case StepObservation:
		return "Observation"
	case StepResponse:
		return "Response"
	case StepError:
		return "Error"
	default:
		return string(t)
	}
}

// =============================================================================
// AGENT STEP
// =============================================================================

// AgentStep is one discrete unit of the backend agent's reasoning or tool-use
// trace for a single assistant turn. Steps are append-only and ordered.
type AgentStep struct {
	// Identity
	ID   string   `json:"id"`
	Type StepType `json:"type"`

	// Content
	Content string `json:"content"`

	// Tool information (tool_call / observation steps)
	ToolName   string         `json:"tool_name,omitempty"`
	ToolArgs   map[string]any `json:"tool_args,omitempty"`
	ToolResult string         `json:"tool_result,omitempty"`

	// Statistics
	DurationMs int64 `json:"duration_ms,omitempty"`
	TokenCount int   `json:"token_count,omitempty"`
}

// NewAgentStep creates a step with a generated ID.
func NewAgentStep(t StepType, content string) AgentStep {
	return AgentStep{
		ID:      "step_" + uuid.NewString(),
		Type:    t,
		Content: content,
	}
}

// IsToolUse returns true if the step involves a tool invocation.
func (s *AgentStep) IsToolUse() bool {
	return s.ToolName != ""
}

// Preview returns a truncated preview of the step content.
func (s *AgentStep) Preview(maxLen int) string {
	runes := []rune(s.Content)
	if len(runes) <= maxLen {
		return s.Content
	}
	return string(runes[:maxLen-3]) + "..."
}
