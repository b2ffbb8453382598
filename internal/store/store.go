// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable local persistence for the aide TUI.
package store

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/util"
)

// Fixed storage keys. These mirror the browser front-end's local-storage
// layout and must not change without a migration.
const (
	KeySessions   = "aide_sessions"
	KeyUsers      = "aide_users"
	KeyActiveUser = "aide_active_user"
)

// =============================================================================
// DOCUMENT STORE
// =============================================================================

// Store maps fixed storage keys to JSON documents on disk.
type Store struct {
	// BaseDir is the directory holding the documents.
	// Default: ~/.aide/store/
	BaseDir string

	mu        sync.Mutex
	lastWrite map[string]time.Time
}

// NewStore creates a store rooted at the default location.
func NewStore() (*Store, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStoreWithDir(filepath.Join(homeDir, ".aide", "store"))
}

// NewStoreWithDir creates a store with a custom directory.
func NewStoreWithDir(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Store{
		BaseDir:   baseDir,
		lastWrite: make(map[string]time.Time),
	}, nil
}

// Path returns the file path backing a storage key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.BaseDir, key+".json")
}

// Read returns the raw document for a key.
func (s *Store) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write replaces the document for a key atomically.
func (s *Store) Write(key string, data []byte) error {
	if err := util.AtomicWriteFile(s.Path(key), data, 0644); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastWrite[key] = time.Now()
	s.mu.Unlock()
	return nil
}

// Delete removes the document for a key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WroteRecently reports whether this process wrote the key within the window.
// The watcher uses it to suppress reload loops from our own writes.
func (s *Store) WroteRecently(key string, window time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastWrite[key]
	return ok && time.Since(last) < window
}

// =============================================================================
// ACTIVE USER MARKER
// =============================================================================

// ActiveUser returns the persisted active-user marker, or "" if unset.
func (s *Store) ActiveUser() string {
	data, err := s.Read(KeyActiveUser)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetActiveUser persists the active-user marker. An empty username clears it.
func (s *Store) SetActiveUser(username string) error {
	if username == "" {
		return s.Delete(KeyActiveUser)
	}
	return s.Write(KeyActiveUser, []byte(username))
}

// =============================================================================
// SESSION STORE
// =============================================================================

// sessionDocument is the wire format of the session-list document.
type sessionDocument struct {
	Version  int              `json:"version"`
	SavedAt  time.Time        `json:"saved_at"`
	Sessions []*model.Session `json:"sessions"`
}

// sessionDocVersion is bumped when the document format changes.
const sessionDocVersion = 1

// SessionStore is the codec for the session-list document.
type SessionStore struct {
	store *Store
}

// NewSessionStore wraps a document store with the session codec.
func NewSessionStore(s *Store) *SessionStore {
	return &SessionStore{store: s}
}

// Load reads the session list from the store. It is called once at startup.
//
// Malformed data fails closed: the problem is logged and an empty list is
// returned rather than crashing startup. A missing document is not an error.
func (ss *SessionStore) Load() []*model.Session {
	data, err := ss.store.Read(KeySessions)
	if err != nil {
		if err != ErrKeyNotFound {
			log.Printf("store: failed to read session document: %v", err)
		}
		return []*model.Session{}
	}

	var doc sessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("store: malformed session document, starting empty: %v", err)
		return []*model.Session{}
	}

	if doc.Sessions == nil {
		return []*model.Session{}
	}
	return doc.Sessions
}

// Save serializes the full session list and writes it.
//
// An empty list is never written over prior data: a transient empty render
// state before load completes must not wipe the store.
func (ss *SessionStore) Save(sessions []*model.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	doc := sessionDocument{
		Version:  sessionDocVersion,
		SavedAt:  time.Now(),
		Sessions: sessions,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return ss.store.Write(KeySessions, data)
}

// Clear removes the session document entirely. Used by explicit
// delete-all-history actions, never by Save.
func (ss *SessionStore) Clear() error {
	return ss.store.Delete(KeySessions)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrKeyNotFound is returned when a storage key has no document.
// Use errors.Is(err, ErrKeyNotFound) to check for this error.
var ErrKeyNotFound = &StoreError{Message: "storage key not found"}

// StoreError represents a persistence-related error.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
