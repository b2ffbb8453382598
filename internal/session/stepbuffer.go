// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "github.com/jeranaias/aide-tui/internal/model"

// =============================================================================
// STEP BUFFER
// =============================================================================

// StepBuffer accumulates the agent steps of exactly one in-flight turn.
//
// Steps are append-only during the turn and flushed into the owning
// assistant message exactly once, at response time. The buffer is cleared
// on a new send, on session switch, and on manual clear, so buffered steps
// never leak across sessions.
//
// StepBuffer is not safe for concurrent use; the Controller serializes
// access under its own lock.
type StepBuffer struct {
	steps []model.AgentStep
}

// NewStepBuffer creates an empty step buffer.
func NewStepBuffer() *StepBuffer {
	return &StepBuffer{}
}

// Append adds one step to the in-progress turn.
func (b *StepBuffer) Append(step model.AgentStep) {
	b.steps = append(b.steps, step)
}

// Steps returns a copy of the buffered steps for rendering.
func (b *StepBuffer) Steps() []model.AgentStep {
	out := make([]model.AgentStep, len(b.steps))
	copy(out, b.steps)
	return out
}

// Len returns the number of buffered steps.
func (b *StepBuffer) Len() int {
	return len(b.steps)
}

// Flush returns the buffered steps and clears the buffer.
func (b *StepBuffer) Flush() []model.AgentStep {
	out := b.steps
	b.steps = nil
	return out
}

// Clear discards any buffered steps.
func (b *StepBuffer) Clear() {
	b.steps = nil
}
