// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the aide TUI.
//
// Components are stateless renderers driven by the session controller's
// snapshot: they receive read-only data and return styled strings. Any
// user action flows back to the controller through the chat model, never
// from here.
//
// # Key Types
//
//   - SessionList: session sidebar, pinned sessions first
//   - MessageView: conversation transcript with live agent steps
//   - StatusBar: connectivity, provider/model, mode, busy state
package components
