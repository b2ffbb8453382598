// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/aide-tui/internal/model"
)

// titleTimeout bounds the fire-and-forget title-generation call.
const titleTimeout = 15 * time.Second

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Persister mirrors the session list to durable storage.
type Persister interface {
	// Load reads the session list once at startup. Malformed or missing
	// data yields an empty list.
	Load() []*model.Session

	// Save writes the full session list. An empty list is never written
	// over prior data.
	Save(sessions []*model.Session) error

	// Clear removes the persisted document entirely.
	Clear() error
}

// TitleGenerator names a session from its first message.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, message string) (string, error)
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the read-only projection renderers consume. Every field is a
// copy; mutating a snapshot never affects controller state.
type Snapshot struct {
	// Sessions is the display-ordered list: pinned first, then most
	// recently updated.
	Sessions []model.SessionMeta

	// ActiveID is the active session, or "" when none is selected.
	ActiveID string

	// Messages is the active session's conversation, empty when no
	// session is active.
	Messages []model.Message

	// Steps is the live step buffer for the turn in flight.
	Steps []model.AgentStep

	// Busy reports whether the current session has a turn outstanding.
	// The input affordance is disabled while Busy.
	Busy bool
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the single source of truth for which sessions exist, which
// is active, and what messages each contains.
type Controller struct {
	mu sync.Mutex

	sessions []*model.Session
	activeID string

	// inFlightID is the session that owns the outstanding turn, captured
	// at send time. "" means no turn is in flight or the turn was
	// abandoned by a session switch.
	inFlightID string

	buffer *StepBuffer

	store  Persister
	titler TitleGenerator

	onChange func(Snapshot)
}

// NewController creates a controller and loads the persisted session list.
func NewController(store Persister, titler TitleGenerator) *Controller {
	c := &Controller{
		buffer: NewStepBuffer(),
		store:  store,
		titler: titler,
	}
	if store != nil {
		c.sessions = store.Load()
	}
	return c
}

// SetOnChange registers the snapshot callback invoked after every mutation.
func (c *Controller) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Snapshot returns the current projection.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// CreateSession allocates a new empty session, prepends it to the list, and
// makes it active. It always succeeds and returns the new session's ID.
func (c *Controller) CreateSession() string {
	c.mu.Lock()
	s := model.NewSession()
	c.sessions = append([]*model.Session{s}, c.sessions...)
	c.activeID = s.ID
	c.abandonTurnLocked()
	c.persistLocked()
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
	return s.ID
}

// SelectSession makes the identified session active. An unknown ID is a
// no-op: it neither fails nor clears the current selection. Switching
// abandons any turn in flight and clears the step buffer.
func (c *Controller) SelectSession(id string) {
	c.mu.Lock()
	if c.findLocked(id) == nil {
		c.mu.Unlock()
		return
	}
	if c.activeID == id {
		c.mu.Unlock()
		return
	}
	c.activeID = id
	c.abandonTurnLocked()
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// DeleteSession removes the session from the list and evicts it from the
// store. Deleting the active session clears the active pointer; no other
// session is auto-promoted.
func (c *Controller) DeleteSession(id string) {
	c.mu.Lock()
	idx := -1
	for i, s := range c.sessions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return
	}
	c.sessions = append(c.sessions[:idx], c.sessions[idx+1:]...)
	if c.activeID == id {
		c.activeID = ""
		c.abandonTurnLocked()
	}
	if c.inFlightID == id {
		c.inFlightID = ""
	}
	if len(c.sessions) == 0 {
		// Save never writes an empty list, so an explicit delete of the
		// last session clears the document instead.
		if c.store != nil {
			if err := c.store.Clear(); err != nil {
				log.Printf("session: failed to clear store: %v", err)
			}
		}
	} else {
		c.persistLocked()
	}
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// RenameSession overwrites the title only. The update timestamp is left
// alone so a rename never resurrects a session to "recently active".
func (c *Controller) RenameSession(id, title string) {
	c.mu.Lock()
	s := c.findLocked(id)
	if s == nil {
		c.mu.Unlock()
		return
	}
	s.SetTitle(title)
	c.persistLocked()
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// TogglePin flips the pinned flag. Pinned sessions always display ahead of
// unpinned ones regardless of recency.
func (c *Controller) TogglePin(id string) {
	c.mu.Lock()
	s := c.findLocked(id)
	if s == nil {
		c.mu.Unlock()
		return
	}
	s.Pinned = !s.Pinned
	c.persistLocked()
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// PinSession sets the pinned flag.
func (c *Controller) PinSession(id string) {
	c.setPinned(id, true)
}

// UnpinSession clears the pinned flag.
func (c *Controller) UnpinSession(id string) {
	c.setPinned(id, false)
}

func (c *Controller) setPinned(id string, pinned bool) {
	c.mu.Lock()
	s := c.findLocked(id)
	if s == nil || s.Pinned == pinned {
		c.mu.Unlock()
		return
	}
	s.Pinned = pinned
	c.persistLocked()
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// ReplaceSessions swaps in an externally loaded session list (store watcher
// sync). The active pointer is kept when the session still exists.
func (c *Controller) ReplaceSessions(sessions []*model.Session) {
	c.mu.Lock()
	c.sessions = sessions
	if c.activeID != "" && c.findLocked(c.activeID) == nil {
		c.activeID = ""
		c.abandonTurnLocked()
	}
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// =============================================================================
// MESSAGE FLOW
// =============================================================================

// AppendUserMessage appends a user message to the active session, creating
// one implicitly when none is active so the first message of a conversation
// can never be lost. It marks the turn in flight and returns the owning
// session's ID.
//
// The session's first message triggers title generation exactly once. The
// call is fire-and-forget and captures the session ID now, so a late result
// still lands on the session that requested it.
func (c *Controller) AppendUserMessage(content string) string {
	c.mu.Lock()
	s := c.findLocked(c.activeID)
	if s == nil {
		s = model.NewSession()
		c.sessions = append([]*model.Session{s}, c.sessions...)
		c.activeID = s.ID
	}

	first := s.IsEmpty()
	s.AppendMessage(model.NewUserMessage(content))
	c.buffer.Clear()
	c.inFlightID = s.ID
	c.persistLocked()

	id := s.ID
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)

	if first {
		go c.generateTitle(id, content)
	}
	return id
}

// AppendAssistantMessage finalizes the turn: it appends an assistant message
// carrying the full step sequence to the session that owns the turn, clears
// the step buffer, and persists.
//
// A response arriving after its turn was abandoned (session switched or
// deleted) is discarded entirely; its steps never attach to any message.
func (c *Controller) AppendAssistantMessage(content string, steps []model.AgentStep) {
	c.mu.Lock()
	s := c.findLocked(c.inFlightID)
	if s == nil {
		if c.inFlightID != "" {
			log.Printf("session: discarding response for missing session %s", c.inFlightID)
		} else {
			log.Printf("session: discarding response for abandoned turn")
		}
		c.inFlightID = ""
		c.buffer.Clear()
		snap, fn := c.changedLocked()
		c.mu.Unlock()
		notify(fn, snap)
		return
	}

	s.AppendMessage(model.NewAssistantMessage(content, steps))
	c.buffer.Clear()
	c.inFlightID = ""
	c.persistLocked()
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// AppendErrorMessage records a turn failure as an assistant-authored message
// in the conversation and ends the turn.
func (c *Controller) AppendErrorMessage(content string) {
	c.AppendAssistantMessage(content, nil)
}

// BufferStep appends a live step for the turn in flight. Steps arriving
// with no turn outstanding are dropped.
func (c *Controller) BufferStep(step model.AgentStep) {
	c.mu.Lock()
	if c.inFlightID == "" {
		c.mu.Unlock()
		return
	}
	c.buffer.Append(step)
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// ClearSteps discards the live step buffer.
func (c *Controller) ClearSteps() {
	c.mu.Lock()
	c.buffer.Clear()
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// Busy reports whether the active session has a turn outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlightID != "" && c.inFlightID == c.activeID
}

// ActiveID returns the active session ID, or "".
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// =============================================================================
// TITLE GENERATION
// =============================================================================

// generateTitle runs the external title call and applies the result to the
// originating session. On any failure the title falls back to a truncated
// prefix of the message content; failure never surfaces to the user.
func (c *Controller) generateTitle(sessionID, content string) {
	title := ""
	if c.titler != nil {
		ctx, cancel := context.WithTimeout(context.Background(), titleTimeout)
		defer cancel()
		got, err := c.titler.GenerateTitle(ctx, content)
		if err != nil {
			log.Printf("session: title generation failed, using fallback: %v", err)
		} else {
			title = strings.TrimSpace(got)
		}
	}
	if title == "" {
		title = model.FallbackTitle(content)
	}

	c.mu.Lock()
	s := c.findLocked(sessionID)
	if s == nil {
		c.mu.Unlock()
		return
	}
	s.SetTitle(title)
	c.persistLocked()
	snap, fn := c.changedLocked()
	c.mu.Unlock()

	notify(fn, snap)
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// findLocked returns the session with the given ID, or nil. Callers hold mu.
func (c *Controller) findLocked(id string) *model.Session {
	if id == "" {
		return nil
	}
	for _, s := range c.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// abandonTurnLocked discards the turn in flight together with its buffered
// steps. Callers hold mu.
func (c *Controller) abandonTurnLocked() {
	c.inFlightID = ""
	c.buffer.Clear()
}

// persistLocked mirrors the session list to the store. Persistence failure
// is logged, never surfaced. Callers hold mu.
func (c *Controller) persistLocked() {
	if c.store == nil {
		return
	}
	if err := c.store.Save(c.sessions); err != nil {
		log.Printf("session: failed to persist sessions: %v", err)
	}
}

// snapshotLocked builds the renderer projection. Callers hold mu.
func (c *Controller) snapshotLocked() Snapshot {
	ordered := make([]*model.Session, len(c.sessions))
	copy(ordered, c.sessions)
	model.SortSessions(ordered)

	metas := make([]model.SessionMeta, len(ordered))
	for i, s := range ordered {
		metas[i] = s.Meta()
	}

	var messages []model.Message
	if active := c.findLocked(c.activeID); active != nil {
		messages = active.Clone().Messages
	}

	return Snapshot{
		Sessions: metas,
		ActiveID: c.activeID,
		Messages: messages,
		Steps:    c.buffer.Steps(),
		Busy:     c.inFlightID != "" && c.inFlightID == c.activeID,
	}
}

// changedLocked captures the snapshot and callback under the lock so the
// callback can run outside it.
func (c *Controller) changedLocked() (Snapshot, func(Snapshot)) {
	return c.snapshotLocked(), c.onChange
}

func notify(fn func(Snapshot), snap Snapshot) {
	if fn != nil {
		fn(snap)
	}
}
