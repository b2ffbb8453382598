// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authoritative conversation state.
//
// The Controller is the single writer for the session list, the active
// session pointer, and the live step buffer. UI components never mutate
// state directly: they call intent methods (CreateSession, SelectSession,
// AppendUserMessage, ...) and render the immutable Snapshot the controller
// emits after every mutation.
//
// # Key Types
//
//   - Controller: canonical session list + active pointer, persisted on
//     every mutation
//   - StepBuffer: in-progress agent steps for exactly one in-flight turn
//   - Snapshot: read-only projection handed to renderers
//
// # Persistence
//
// Every mutation mirrors the full session list to the Persister. The
// controller loads once at construction and never re-reads on its own;
// external changes arrive through ReplaceSessions (driven by the store
// watcher).
package session
