// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package channel

import "github.com/jeranaias/aide-tui/internal/model"

// Message types for the chat websocket protocol.
const (
	// Client -> Server
	TypeMessage = "message"
	TypePing    = "ping"

	// Server -> Client
	TypeStep     = "step"
	TypeResponse = "response"
	TypeError    = "error"
	TypePong     = "pong"
)

// Envelope wraps every websocket message with a type field for routing.
type Envelope struct {
	Type string `json:"type"`
}

// OutboundMessage is sent for each user turn, carrying the current settings
// snapshot so the backend applies provider/model/mode per message.
type OutboundMessage struct {
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	Settings model.Settings `json:"settings"`
}

// StepMessage delivers one agent step while a turn is in flight.
type StepMessage struct {
	Type string          `json:"type"`
	Step model.AgentStep `json:"step"`
}

// ResponseMessage terminates a turn with the final content and the full
// step trace.
type ResponseMessage struct {
	Type    string            `json:"type"`
	Content string            `json:"content"`
	Steps   []model.AgentStep `json:"steps"`
}

// ErrorMessage is the backend's turn-level failure, rendered as an
// assistant-authored message.
type ErrorMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// PingMessage is the keepalive probe.
type PingMessage struct {
	Type string `json:"type"`
}
