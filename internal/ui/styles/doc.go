// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the aide TUI.
//
// The Theme holds every lipgloss style the views use, adjusted to the
// terminal's detected color capability. Views never construct ad-hoc
// styles; they pull from the active Theme so the whole UI recolors
// consistently when the theme changes.
package styles
