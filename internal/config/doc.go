// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for aide.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.aide/config.toml
//   - ~/.aide/config.json
//   - Built-in defaults
//
// # Key Types
//
//   - Config: complete aide configuration
//   - BackendConfig: backend endpoints and polling cadence
//   - UIConfig: terminal UI presentation options
//
// Chat defaults (provider, model, voice, mode) reuse model.Settings, so the
// same validation applies to the config file and to live settings changes.
package config
