// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the local account scheme for the aide TUI.
package auth

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/aide-tui/internal/store"
)

// GuestUser is the identity that bypasses the credential store entirely.
const GuestUser = "guest"

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 4

// Errors returned by account operations.
var (
	// ErrInvalidCredentials is the single generic sign-in failure. A wrong
	// username and a wrong password produce this same error so the response
	// leaks nothing about which field was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserExists is returned when creating an account with a taken username.
	ErrUserExists = errors.New("username already exists")

	// ErrPasswordTooShort is returned for passwords under MinPasswordLen.
	ErrPasswordTooShort = errors.New("password must be at least 4 characters")

	// ErrEmptyUsername is returned for blank usernames.
	ErrEmptyUsername = errors.New("username must not be empty")
)

// =============================================================================
// CREDENTIAL RECORD
// =============================================================================

// Credential is one stored account record.
type Credential struct {
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// =============================================================================
// ACCOUNT MANAGER
// =============================================================================

// Manager owns the credential map and the active-user marker.
type Manager struct {
	mu    sync.Mutex
	store *store.Store
	users map[string]Credential
}

// NewManager loads the credential map from the store. A malformed document
// fails closed to an empty map.
func NewManager(s *store.Store) *Manager {
	m := &Manager{
		store: s,
		users: make(map[string]Credential),
	}

	data, err := s.Read(store.KeyUsers)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			log.Printf("auth: failed to read credential document: %v", err)
		}
		return m
	}

	if err := json.Unmarshal(data, &m.users); err != nil {
		log.Printf("auth: malformed credential document, starting empty: %v", err)
		m.users = make(map[string]Credential)
	}
	return m
}

// Register creates a new account. Duplicate usernames and short passwords
// are rejected without mutating the store.
func (m *Manager) Register(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[username]; exists {
		return ErrUserExists
	}

	m.users[username] = Credential{
		Password:  password,
		CreatedAt: time.Now(),
	}
	return m.persist()
}

// SignIn verifies a username/password pair. The guest identity signs in
// without touching the credential map.
func (m *Manager) SignIn(username, password string) error {
	username = strings.TrimSpace(username)
	if username == GuestUser {
		return m.store.SetActiveUser(GuestUser)
	}

	m.mu.Lock()
	cred, exists := m.users[username]
	m.mu.Unlock()

	if !exists || cred.Password != password {
		return ErrInvalidCredentials
	}

	return m.store.SetActiveUser(username)
}

// SignOut clears the active-user marker.
func (m *Manager) SignOut() error {
	return m.store.SetActiveUser("")
}

// ActiveUser returns the persisted active user, or "" when signed out.
func (m *Manager) ActiveUser() string {
	return m.store.ActiveUser()
}

// UserCount returns the number of registered accounts.
func (m *Manager) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// persist writes the credential map. Caller holds m.mu.
func (m *Manager) persist() error {
	data, err := json.MarshalIndent(m.users, "", "  ")
	if err != nil {
		return err
	}
	return m.store.Write(store.KeyUsers, data)
}
