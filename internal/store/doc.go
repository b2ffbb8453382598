// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable local persistence for the aide TUI.
//
// State is kept as serialized JSON documents under fixed storage keys,
// mirroring the browser front-end's local-storage layout: one document for
// the session list, one for the credential map, and a single string value
// for the active-user marker.
//
// # Key Types
//
//   - Store: document store mapping fixed keys to JSON files on disk
//   - SessionStore: codec for the session-list document
//   - Watcher: fsnotify-based reload when another instance writes the store
//
// # Durability
//
// All writes go through util.AtomicWriteFile (write temp, fsync, rename),
// so a crash never leaves a partially written document. Malformed documents
// fail closed: load logs the problem and yields an empty state rather than
// crashing startup.
//
// # Storage Location
//
// Documents are stored in ~/.aide/store/ as <key>.json files.
package store
