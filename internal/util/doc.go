// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the aide TUI.
//
// # Contents
//
//   - AtomicWriteFile: crash-safe file writes (write temp, fsync, rename)
//   - TruncateRunes / PadWidth: Unicode-safe string shaping for display
package util
