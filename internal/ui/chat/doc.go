// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main Bubble Tea application for aide.
//
// The Model composes three screens (login, chat, settings) over shared
// collaborators: the session controller, the streaming channel, the HTTP
// client, the credential manager, and the voice speaker. All state
// mutation flows through the controller; the model translates key events
// and inbound channel events into controller intents and renders the
// resulting snapshot.
//
// # Event Sources
//
//   - key presses (user intents)
//   - channel events (steps, responses, errors, connection state)
//   - health ticks (connectivity indicator, fixed cadence)
//   - controller snapshots (re-render after async title generation)
package chat
