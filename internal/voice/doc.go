// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice handles spoken output and input for the aide TUI.
//
// Output delegates synthesis to the backend (api.Synthesize) and plays the
// returned audio through an external system player. Playback failures are
// logged and otherwise ignored: voice is an overlay on the conversation,
// never a gate on it.
//
// Input (speech-to-text) is a host capability. A terminal has no native
// recognition engine, so Recognizer reports the absence synchronously
// instead of failing silently.
package voice
