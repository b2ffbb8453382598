// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/jeranaias/aide-tui/internal/model"
)

// Configuration constants for the live channel.
const (
	// DefaultURL is where the launch script serves the backend websocket.
	DefaultURL = "ws://localhost:8000/ws"

	// RetryDelay is the fixed pause between reconnection attempts. The
	// delay never grows and attempts never stop.
	RetryDelay = 3 * time.Second

	// pingInterval is the keepalive cadence while the channel is open.
	pingInterval = 30 * time.Second

	// writeTimeout bounds a single outbound write.
	writeTimeout = 10 * time.Second

	// readLimit caps a single inbound frame.
	readLimit = 1024 * 1024 // 1MB
)

// ErrNotOpen is returned by Send when the channel is not open. Callers fall
// back to the HTTP path (api.Client.SendMessage).
var ErrNotOpen = errors.New("channel is not open")

// =============================================================================
// STATES
// =============================================================================

// State is the channel's connection state.
type State int

// Channel states.
const (
	StateConnecting State = iota
	StateOpen
	StateClosed
	StateErrored
)

// String returns the state name for logging and the status bar.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// =============================================================================
// EVENTS
// =============================================================================

// Event is a notification delivered on the Events channel.
type Event interface {
	event()
}

// StateEvent reports a connection state transition.
type StateEvent struct {
	State State
	Err   error
}

// StepEvent carries one agent step for the turn in flight.
type StepEvent struct {
	Step model.AgentStep
}

// ResponseEvent carries the final assistant content and full step trace,
// terminating the turn.
type ResponseEvent struct {
	Content string
	Steps   []model.AgentStep
}

// ErrorEvent carries a backend turn failure, also terminating the turn.
type ErrorEvent struct {
	Content string
}

func (StateEvent) event()    {}
func (StepEvent) event()     {}
func (ResponseEvent) event() {}
func (ErrorEvent) event()    {}

// =============================================================================
// CONNECTION ABSTRACTION
// =============================================================================

// Conn is a single established websocket connection.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// DialFunc establishes a Conn. Tests substitute their own dialer.
type DialFunc func(ctx context.Context, url string) (Conn, error)

// wsConn adapts a coder/websocket connection to Conn.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.conn.Read(ctx)
	return data, err
}

func (w *wsConn) Write(ctx context.Context, data []byte) error {
	return w.conn.Write(ctx, websocket.MessageText, data)
}

func (w *wsConn) Close() error {
	return w.conn.CloseNow()
}

// defaultDial connects with coder/websocket.
func defaultDial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(readLimit)
	return &wsConn{conn: conn}, nil
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the channel lifecycle: dialing, the read loop, keepalive,
// and the fixed-delay reconnect schedule.
type Manager struct {
	url        string
	dial       DialFunc
	retryDelay time.Duration
	events     chan Event

	mu    sync.Mutex
	state State
	conn  Conn
}

// NewManager creates a channel manager for the given websocket URL. An empty
// URL selects the default local backend.
func NewManager(url string) *Manager {
	if url == "" {
		url = DefaultURL
	}
	return &Manager{
		url:        url,
		dial:       defaultDial,
		retryDelay: RetryDelay,
		events:     make(chan Event, 64),
		state:      StateClosed,
	}
}

// WithDial overrides the dialer (used by tests).
func (m *Manager) WithDial(dial DialFunc) *Manager {
	m.dial = dial
	return m
}

// WithRetryDelay overrides the reconnect delay (used by tests).
func (m *Manager) WithRetryDelay(d time.Duration) *Manager {
	m.retryDelay = d
	return m
}

// Events returns the channel on which inbound and state events arrive.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Run connects to the backend and processes inbound events until ctx is
// cancelled. Every disconnect, whatever its cause, is followed by exactly
// one reconnection attempt after the fixed delay.
func (m *Manager) Run(ctx context.Context) error {
	for {
		m.setState(ctx, StateConnecting, nil)
		connected, err := m.connectAndServe(ctx)
		if ctx.Err() != nil {
			m.setState(context.Background(), StateClosed, ctx.Err())
			return ctx.Err()
		}
		if connected {
			m.setState(ctx, StateClosed, err)
		} else {
			m.setState(ctx, StateErrored, err)
		}
		log.Printf("channel: disconnected: %v, reconnecting in %s", err, m.retryDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retryDelay):
		}
	}
}

// connectAndServe dials once and runs the read loop until the connection
// drops. connected reports whether the dial succeeded.
func (m *Manager) connectAndServe(ctx context.Context) (connected bool, err error) {
	conn, dialErr := m.dial(ctx, m.url)
	if dialErr != nil {
		return false, fmt.Errorf("dial: %w", dialErr)
	}
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.conn = nil
		m.mu.Unlock()
		conn.Close()
	}()

	m.setState(ctx, StateOpen, nil)

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go m.pingLoop(pingCtx)

	for {
		data, err := conn.Read(ctx)
		if err != nil {
			return true, fmt.Errorf("read: %w", err)
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("channel: bad message: %v", err)
			continue
		}

		switch env.Type {
		case TypeStep:
			var msg StepMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Printf("channel: bad step: %v", err)
				continue
			}
			m.emit(ctx, StepEvent{Step: msg.Step})

		case TypeResponse:
			var msg ResponseMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Printf("channel: bad response: %v", err)
				continue
			}
			m.emit(ctx, ResponseEvent{Content: msg.Content, Steps: msg.Steps})

		case TypeError:
			var msg ErrorMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Printf("channel: bad error: %v", err)
				continue
			}
			m.emit(ctx, ErrorEvent{Content: msg.Content})

		case TypePong:
			// keepalive ack

		default:
			log.Printf("channel: unknown message type: %s", env.Type)
		}
	}
}

// pingLoop sends keepalive probes while the connection is open.
func (m *Manager) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.writeJSON(ctx, PingMessage{Type: TypePing}); err != nil {
				return
			}
		}
	}
}

// Send transmits one user turn with the current settings snapshot. It
// returns ErrNotOpen when the channel is not open, without queuing.
func (m *Manager) Send(ctx context.Context, content string, settings model.Settings) error {
	m.mu.Lock()
	open := m.state == StateOpen && m.conn != nil
	m.mu.Unlock()
	if !open {
		return ErrNotOpen
	}
	return m.writeJSON(ctx, OutboundMessage{
		Type:     TypeMessage,
		Content:  content,
		Settings: settings,
	})
}

// setState records a transition and emits a StateEvent. Repeated identical
// states are not re-emitted.
func (m *Manager) setState(ctx context.Context, s State, err error) {
	m.mu.Lock()
	if m.state == s {
		m.mu.Unlock()
		return
	}
	m.state = s
	m.mu.Unlock()
	m.emit(ctx, StateEvent{State: s, Err: err})
}

// emit delivers an event, dropping it if the consumer is gone.
func (m *Manager) emit(ctx context.Context, ev Event) {
	select {
	case m.events <- ev:
	case <-ctx.Done():
	}
}

func (m *Manager) writeJSON(ctx context.Context, v any) error {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return ErrNotOpen
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(writeCtx, data)
}
