// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions, messages, and agent steps.
package model

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// =============================================================================
// PROVIDER TYPE
// =============================================================================

// Provider identifies a backend AI provider.
type Provider string

const (
	ProviderOllama     Provider = "ollama"
	ProviderGroq       Provider = "groq"
	ProviderOpenAI     Provider = "openai"
	ProviderPerplexity Provider = "perplexity"
)

// Providers lists all known providers in display order.
var Providers = []Provider{ProviderOllama, ProviderGroq, ProviderOpenAI, ProviderPerplexity}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Valid reports whether the provider is one of the known set.
func (p Provider) Valid() bool {
	switch p {
	case ProviderOllama, ProviderGroq, ProviderOpenAI, ProviderPerplexity:
		return true
	}
	return false
}

// =============================================================================
// OPERATING MODE
// =============================================================================

// Mode is the agent operating mode. Elevated mode grants the backend
// permission to perform unrestricted system actions; it is a trust boundary
// carried to the server, which enforces it.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeElevated Mode = "elevated"
)

// Valid reports whether the mode is one of the known set.
func (m Mode) Valid() bool {
	return m == ModeStandard || m == ModeElevated
}

// =============================================================================
// SETTINGS
// =============================================================================

// Voice rate and pitch accept a constrained set of tokens understood by the
// synthesis backend.
var (
	VoiceRates   = []string{"x-slow", "slow", "medium", "fast", "x-fast"}
	VoicePitches = []string{"x-low", "low", "medium", "high", "x-high"}
)

// Settings holds the user-facing configuration snapshot sent with every
// outbound message.
type Settings struct {
	Provider     Provider `json:"provider" toml:"provider"`
	Model        string   `json:"model" toml:"model"`
	Voice        string   `json:"voice" toml:"voice"`
	VoiceEnabled bool     `json:"voice_enabled" toml:"voice_enabled"`
	VoiceRate    string   `json:"voice_rate" toml:"voice_rate"`
	VoicePitch   string   `json:"voice_pitch" toml:"voice_pitch"`
	Language     string   `json:"language" toml:"language"`
	Mode         Mode     `json:"mode" toml:"mode"`
}

// DefaultSettings returns the settings used before the user configures anything.
func DefaultSettings() Settings {
	return Settings{
		Provider:     ProviderOllama,
		Model:        "llama3.2",
		Voice:        "en-US-GuyNeural",
		VoiceEnabled: false,
		VoiceRate:    "medium",
		VoicePitch:   "medium",
		Language:     "en-US",
		Mode:         ModeStandard,
	}
}

// Validation errors for settings fields.
var (
	ErrInvalidProvider = errors.New("invalid provider")
	ErrInvalidMode     = errors.New("invalid mode")
	ErrInvalidRate     = errors.New("invalid voice rate")
	ErrInvalidPitch    = errors.New("invalid voice pitch")
	ErrInvalidLanguage = errors.New("invalid language code")
)

// Validate checks every constrained field and returns the first violation.
func (s *Settings) Validate() error {
	if !s.Provider.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidProvider, s.Provider)
	}
	if !s.Mode.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMode, s.Mode)
	}
	if s.VoiceRate != "" && !containsToken(VoiceRates, s.VoiceRate) {
		return fmt.Errorf("%w: %s", ErrInvalidRate, s.VoiceRate)
	}
	if s.VoicePitch != "" && !containsToken(VoicePitches, s.VoicePitch) {
		return fmt.Errorf("%w: %s", ErrInvalidPitch, s.VoicePitch)
	}
	if s.Language != "" {
		if _, err := language.Parse(s.Language); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidLanguage, s.Language)
		}
	}
	return nil
}

// containsToken reports whether tok appears in the allowed set.
func containsToken(allowed []string, tok string) bool {
	for _, a := range allowed {
		if a == tok {
			return true
		}
	}
	return false
}
