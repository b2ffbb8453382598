// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP collaborators of the backend agent.
//
// The live websocket channel (package channel) is the primary transport;
// this package carries everything else the front-end needs over plain HTTP:
//
//   - SendMessage: one-shot chat fallback when the channel is not open
//   - GenerateTitle: session title generation (caller applies the fallback)
//   - Synthesize: text-to-speech, returning raw audio bytes
//   - Health: connectivity probe driving the status indicator
//   - ListModels: provider model listing for the settings screen
//
// All requests go through one shared pooled http.Client, and response
// bodies are read with a size limit.
package api
