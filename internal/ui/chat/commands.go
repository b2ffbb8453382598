// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/aide-tui/internal/api"
	"github.com/jeranaias/aide-tui/internal/channel"
	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/session"
	"github.com/jeranaias/aide-tui/internal/voice"
)

// sendTimeout bounds the one-shot HTTP fallback for a user turn.
const sendTimeout = 120 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// channelEventMsg wraps one inbound channel event.
type channelEventMsg struct {
	event channel.Event
}

// snapshotMsg carries a controller snapshot produced outside the update
// loop (async title generation, store watcher sync).
type snapshotMsg struct {
	snapshot session.Snapshot
}

// SnapshotMessage wraps a controller snapshot for delivery through
// Program.Send. Callers outside the update loop use this to refresh the
// view after background state changes.
func SnapshotMessage(snapshot session.Snapshot) tea.Msg {
	return snapshotMsg{snapshot: snapshot}
}

// healthTickMsg fires on the fixed connectivity poll cadence.
type healthTickMsg struct{}

// healthResultMsg reports one health probe outcome.
type healthResultMsg struct {
	err error
}

// fallbackReplyMsg reports the HTTP fallback send outcome.
type fallbackReplyMsg struct {
	reply *api.ChatReply
	err   error
}

// modelsMsg carries the provider's model list for the settings screen.
type modelsMsg struct {
	models []string
	err    error
}

// exportedMsg reports a session export outcome.
type exportedMsg struct {
	path string
	err  error
}

// spokenMsg reports that voice playback finished (success or not).
type spokenMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForChannelEvent blocks on the channel's event stream and re-arms
// itself from Update after each delivery.
func waitForChannelEvent(events <-chan channel.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return channelEventMsg{event: ev}
	}
}

// healthTick schedules the next connectivity poll.
func healthTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return healthTickMsg{}
	})
}

// checkHealth probes the backend once.
func checkHealth(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.HealthTimeout)
		defer cancel()
		return healthResultMsg{err: client.Health(ctx)}
	}
}

// sendMessage transmits one user turn: the live channel when open, the
// HTTP fallback otherwise. The message is never queued for a channel that
// is not yet open.
func sendMessage(ch *channel.Manager, client *api.Client, content string, settings model.Settings) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := ch.Send(ctx, content, settings); err == nil {
			// Steps and the terminal response arrive as channel events.
			return nil
		}

		reply, err := client.SendMessage(ctx, content, settings)
		return fallbackReplyMsg{reply: reply, err: err}
	}
}

// speak plays the assistant reply aloud. Failures are absorbed inside the
// speaker; the message stays rendered either way.
func speak(speaker *voice.Speaker, text string, settings model.Settings) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		speaker.Speak(ctx, text, settings)
		return spokenMsg{}
	}
}

// loadModels fetches the active provider's model list.
func loadModels(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		models, err := client.ListModels(ctx)
		return modelsMsg{models: models, err: err}
	}
}
