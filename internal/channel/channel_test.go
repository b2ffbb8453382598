// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package channel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/aide-tui/internal/model"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// fakeConn is a scripted connection backed by channels.
type fakeConn struct {
	inbound chan []byte
	writes  chan []byte
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		writes:  make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (f *fakeConn) Read(ctx context.Context) ([]byte, error) {
	select {
	case data := <-f.inbound:
		return data, nil
	case <-f.closed:
		return nil, io.EOF
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeConn) Write(ctx context.Context, data []byte) error {
	select {
	case f.writes <- data:
		return nil
	case <-f.closed:
		return io.EOF
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

// drop simulates a server-side disconnect.
func (f *fakeConn) drop() {
	f.Close()
}

// nextEvent reads one event or fails the test.
func nextEvent(t *testing.T, m *Manager) Event {
	t.Helper()
	select {
	case ev := <-m.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// waitForState consumes events until the wanted state transition arrives.
func waitForState(t *testing.T, m *Manager, want State) {
	t.Helper()
	for {
		ev := nextEvent(t, m)
		if st, ok := ev.(StateEvent); ok && st.State == want {
			return
		}
	}
}

// =============================================================================
// STATE MACHINE TESTS
// =============================================================================

func TestRun_ConnectTransitionsToOpen(t *testing.T) {
	conn := newFakeConn()
	m := NewManager("ws://test").
		WithRetryDelay(10 * time.Millisecond).
		WithDial(func(ctx context.Context, url string) (Conn, error) {
			return conn, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	waitForState(t, m, StateConnecting)
	waitForState(t, m, StateOpen)
	if m.State() != StateOpen {
		t.Errorf("State() = %v, want open", m.State())
	}
}

func TestRun_ReconnectsAfterEachFailure(t *testing.T) {
	const failures = 3
	var mu sync.Mutex
	var attempts []time.Time
	conn := newFakeConn()

	m := NewManager("ws://test").
		WithRetryDelay(20 * time.Millisecond).
		WithDial(func(ctx context.Context, url string) (Conn, error) {
			mu.Lock()
			attempts = append(attempts, time.Now())
			n := len(attempts)
			mu.Unlock()
			if n <= failures {
				return nil, errors.New("connection refused")
			}
			return conn, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	for i := 0; i < failures; i++ {
		waitForState(t, m, StateErrored)
	}
	waitForState(t, m, StateOpen)

	mu.Lock()
	defer mu.Unlock()
	if len(attempts) != failures+1 {
		t.Fatalf("dial attempts = %d, want %d", len(attempts), failures+1)
	}
	// Each retry waits at least the fixed delay.
	for i := 1; i < len(attempts); i++ {
		if gap := attempts[i].Sub(attempts[i-1]); gap < 20*time.Millisecond {
			t.Errorf("attempt %d came after %v, want >= 20ms", i, gap)
		}
	}
}

func TestRun_ReconnectsAfterDrop(t *testing.T) {
	first := newFakeConn()
	second := newFakeConn()
	var mu sync.Mutex
	dials := 0

	m := NewManager("ws://test").
		WithRetryDelay(10 * time.Millisecond).
		WithDial(func(ctx context.Context, url string) (Conn, error) {
			mu.Lock()
			defer mu.Unlock()
			dials++
			if dials == 1 {
				return first, nil
			}
			return second, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	waitForState(t, m, StateOpen)
	first.drop()
	waitForState(t, m, StateClosed)
	waitForState(t, m, StateOpen)

	mu.Lock()
	defer mu.Unlock()
	if dials != 2 {
		t.Errorf("dials = %d, want 2", dials)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	m := NewManager("ws://test").
		WithRetryDelay(10 * time.Millisecond).
		WithDial(func(ctx context.Context, url string) (Conn, error) {
			return nil, errors.New("connection refused")
		})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	waitForState(t, m, StateErrored)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

// =============================================================================
// SEND TESTS
// =============================================================================

func TestSend_WhenNotOpen(t *testing.T) {
	m := NewManager("ws://test")
	err := m.Send(context.Background(), "hello", model.DefaultSettings())
	if !errors.Is(err, ErrNotOpen) {
		t.Errorf("Send() = %v, want ErrNotOpen", err)
	}
}

func TestSend_CarriesSettingsSnapshot(t *testing.T) {
	conn := newFakeConn()
	m := NewManager("ws://test").
		WithRetryDelay(10 * time.Millisecond).
		WithDial(func(ctx context.Context, url string) (Conn, error) {
			return conn, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)
	waitForState(t, m, StateOpen)

	settings := model.DefaultSettings()
	settings.Provider = model.ProviderGroq
	if err := m.Send(ctx, "hello", settings); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	select {
	case data := <-conn.writes:
		var out OutboundMessage
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("unmarshal outbound: %v", err)
		}
		if out.Type != TypeMessage {
			t.Errorf("type = %q, want %q", out.Type, TypeMessage)
		}
		if out.Content != "hello" {
			t.Errorf("content = %q, want hello", out.Content)
		}
		if out.Settings.Provider != model.ProviderGroq {
			t.Errorf("provider = %q, want groq", out.Settings.Provider)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no outbound write observed")
	}
}

// =============================================================================
// INBOUND ROUTING TESTS
// =============================================================================

func TestInboundRouting(t *testing.T) {
	conn := newFakeConn()
	m := NewManager("ws://test").
		WithRetryDelay(10 * time.Millisecond).
		WithDial(func(ctx context.Context, url string) (Conn, error) {
			return conn, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)
	waitForState(t, m, StateOpen)

	conn.inbound <- []byte(`{"type":"step","step":{"id":"s1","type":"thinking","content":"hmm"}}`)
	conn.inbound <- []byte(`{"type":"response","content":"Hi there","steps":[{"id":"s1","type":"thinking","content":"hmm"}]}`)
	conn.inbound <- []byte(`{"type":"error","content":"provider quota exceeded"}`)

	step, ok := nextEvent(t, m).(StepEvent)
	if !ok {
		t.Fatal("first event is not a StepEvent")
	}
	if step.Step.Type != model.StepThinking || step.Step.Content != "hmm" {
		t.Errorf("step = %+v, want thinking/hmm", step.Step)
	}

	resp, ok := nextEvent(t, m).(ResponseEvent)
	if !ok {
		t.Fatal("second event is not a ResponseEvent")
	}
	if resp.Content != "Hi there" || len(resp.Steps) != 1 {
		t.Errorf("response = %+v, want Hi there with 1 step", resp)
	}

	errEv, ok := nextEvent(t, m).(ErrorEvent)
	if !ok {
		t.Fatal("third event is not an ErrorEvent")
	}
	if errEv.Content != "provider quota exceeded" {
		t.Errorf("error content = %q", errEv.Content)
	}
}

func TestInbound_MalformedFrameIsSkipped(t *testing.T) {
	conn := newFakeConn()
	m := NewManager("ws://test").
		WithRetryDelay(10 * time.Millisecond).
		WithDial(func(ctx context.Context, url string) (Conn, error) {
			return conn, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)
	waitForState(t, m, StateOpen)

	conn.inbound <- []byte(`{not json`)
	conn.inbound <- []byte(`{"type":"response","content":"still here"}`)

	resp, ok := nextEvent(t, m).(ResponseEvent)
	if !ok {
		t.Fatal("event after malformed frame is not a ResponseEvent")
	}
	if resp.Content != "still here" {
		t.Errorf("content = %q, want still here", resp.Content)
	}
}
