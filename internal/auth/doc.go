// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth provides the local account scheme for the aide TUI.
//
// Accounts are a local-only convenience: a username -> {password, createdAt}
// map persisted in the document store, deliberately unhardened (passwords are
// stored as-is, matching the browser front-end's local-storage scheme).
// The "guest" identity bypasses the credential store entirely.
//
// Sign-in failures return one generic error regardless of which field was
// wrong, so the error message leaks nothing about registered usernames.
package auth
