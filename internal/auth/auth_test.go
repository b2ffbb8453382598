// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the local account scheme for the aide TUI.
package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/aide-tui/internal/store"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	s, err := store.NewStoreWithDir(t.TempDir())
	require.NoError(t, err)
	return NewManager(s), s
}

// =============================================================================
// REGISTRATION TESTS
// =============================================================================

func TestRegister(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.Register("alice", "hunter2"))
	require.Equal(t, 1, m.UserCount())
}

func TestRegister_DuplicateRejectedWithoutMutation(t *testing.T) {
	m, s := newTestManager(t)

	require.NoError(t, m.Register("alice", "hunter2"))
	before, err := s.Read(store.KeyUsers)
	require.NoError(t, err)

	err = m.Register("alice", "different")
	require.ErrorIs(t, err, ErrUserExists)

	after, err := s.Read(store.KeyUsers)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after), "rejected registration must not mutate the store")

	// Original password still works.
	require.NoError(t, m.SignIn("alice", "hunter2"))
}

func TestRegister_ShortPassword(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.Register("bob", "abc")
	require.ErrorIs(t, err, ErrPasswordTooShort)
	require.Equal(t, 0, m.UserCount())
}

func TestRegister_MinLengthPassword(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.Register("bob", "abcd"))
}

func TestRegister_EmptyUsername(t *testing.T) {
	m, _ := newTestManager(t)

	err := m.Register("  ", "hunter2")
	require.ErrorIs(t, err, ErrEmptyUsername)
}

// =============================================================================
// SIGN-IN TESTS
// =============================================================================

func TestSignIn(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.Register("alice", "hunter2"))

	require.NoError(t, m.SignIn("alice", "hunter2"))
	require.Equal(t, "alice", m.ActiveUser())
}

func TestSignIn_GenericErrorForEitherField(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.Register("alice", "hunter2"))

	wrongPassword := m.SignIn("alice", "wrong")
	wrongUsername := m.SignIn("mallory", "hunter2")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, wrongUsername, ErrInvalidCredentials)
	// Identical message: no information leak about which field was wrong.
	require.Equal(t, wrongPassword.Error(), wrongUsername.Error())
}

func TestSignIn_GuestBypassesCredentialStore(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.SignIn("guest", ""))
	require.Equal(t, GuestUser, m.ActiveUser())
	require.Equal(t, 0, m.UserCount())
}

func TestSignOut(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.Register("alice", "hunter2"))
	require.NoError(t, m.SignIn("alice", "hunter2"))

	require.NoError(t, m.SignOut())
	require.Equal(t, "", m.ActiveUser())
}

// =============================================================================
// PERSISTENCE TESTS
// =============================================================================

func TestManager_ReloadsFromStore(t *testing.T) {
	s, err := store.NewStoreWithDir(t.TempDir())
	require.NoError(t, err)

	m1 := NewManager(s)
	require.NoError(t, m1.Register("alice", "hunter2"))

	// A fresh manager over the same store sees the account.
	m2 := NewManager(s)
	require.NoError(t, m2.SignIn("alice", "hunter2"))
}

func TestManager_MalformedDocumentFailsClosed(t *testing.T) {
	s, err := store.NewStoreWithDir(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Write(store.KeyUsers, []byte("{broken")))

	m := NewManager(s)
	require.Equal(t, 0, m.UserCount())
}
