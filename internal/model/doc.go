// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions, messages, and agent steps.
//
// This package defines the core domain types used throughout the application
// for representing chat sessions, their messages, the agent's visible
// reasoning trace, and user settings.
//
// # Key Types
//
//   - Session: One persisted conversation thread with messages and metadata
//   - Message: Single message with role, content, timestamp, and optional steps
//   - AgentStep: One unit of the agent's reasoning/tool-use trace
//   - Settings: Provider, model, voice, and mode configuration
//
// # Usage
//
// Create a new session and append a message:
//
//	sess := model.NewSession()
//	sess.AppendMessage(model.NewUserMessage("Hello!"))
//
// Build an assistant message carrying its step trace:
//
//	msg := model.NewAssistantMessage("Hi there", steps)
package model
