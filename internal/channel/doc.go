// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package channel maintains the live streaming connection to the backend agent.
//
// One logical duplex websocket carries the conversation: outbound message
// events with a settings snapshot, inbound step events during generation,
// and one terminal response (or error) event per turn.
//
// # State Machine
//
//	Connecting -> Open -> (Closed | Errored) -> Connecting
//
// Every disconnect schedules exactly one reconnection attempt after a fixed
// delay. There is no backoff growth and no attempt limit: the channel
// prefers eventual reconnection over surfacing a permanent failure. Callers
// that need to send while the channel is not open fall back to the HTTP
// path (package api).
package channel
