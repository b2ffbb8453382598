// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/aide-tui/internal/model"
	"github.com/jeranaias/aide-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete aide configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Backend endpoints and polling cadence
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Chat defaults (provider, model, voice, mode)
	Chat model.Settings `toml:"chat" json:"chat"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig contains backend connection configuration.
type BackendConfig struct {
	// BaseURL is the HTTP base URL of the backend agent
	BaseURL string `toml:"base_url" json:"base_url"`
	// WebSocketURL is the streaming channel endpoint. Empty derives it
	// from BaseURL.
	WebSocketURL string `toml:"websocket_url" json:"websocket_url"`
	// HealthIntervalSecs is the connectivity poll cadence in seconds
	HealthIntervalSecs int `toml:"health_interval_secs" json:"health_interval_secs"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowSteps renders the live agent-step trace during generation
	ShowSteps bool `toml:"show_steps" json:"show_steps"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			BaseURL:            "http://localhost:8000",
			WebSocketURL:       "", // derived from BaseURL
			HealthIntervalSecs: 10,
		},

		Chat: model.DefaultSettings(),

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
			ShowSteps:   true,
		},
	}
}

// WebSocketURL returns the configured streaming endpoint, deriving it from
// the HTTP base URL when unset.
func (c *Config) WebSocketURL() string {
	if c.Backend.WebSocketURL != "" {
		return c.Backend.WebSocketURL
	}
	ws := c.Backend.BaseURL
	ws = strings.Replace(ws, "https://", "wss://", 1)
	ws = strings.Replace(ws, "http://", "ws://", 1)
	return strings.TrimSuffix(ws, "/") + "/ws"
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the aide configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aide"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. JSON is selected by extension; everything else parses as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// finishLoad applies env overrides, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if c.Backend.HealthIntervalSecs == 0 {
		c.Backend.HealthIntervalSecs = defaults.Backend.HealthIntervalSecs
	}
	if c.Chat.Provider == "" {
		c.Chat.Provider = defaults.Chat.Provider
	}
	if c.Chat.Model == "" {
		c.Chat.Model = defaults.Chat.Model
	}
	if c.Chat.Voice == "" {
		c.Chat.Voice = defaults.Chat.Voice
	}
	if c.Chat.VoiceRate == "" {
		c.Chat.VoiceRate = defaults.Chat.VoiceRate
	}
	if c.Chat.VoicePitch == "" {
		c.Chat.VoicePitch = defaults.Chat.VoicePitch
	}
	if c.Chat.Language == "" {
		c.Chat.Language = defaults.Chat.Language
	}
	if c.Chat.Mode == "" {
		c.Chat.Mode = defaults.Chat.Mode
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies AIDE_* environment variables over the loaded
// configuration. Environment always wins over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AIDE_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("AIDE_WS_URL"); v != "" {
		c.Backend.WebSocketURL = v
	}
	if v := os.Getenv("AIDE_PROVIDER"); v != "" {
		c.Chat.Provider = model.Provider(v)
	}
	if v := os.Getenv("AIDE_MODEL"); v != "" {
		c.Chat.Model = v
	}
	if v := os.Getenv("AIDE_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# aide configuration file\n")
	buf.WriteString("# Generated by aide - edit with care\n")
	buf.WriteString("\n")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := validateURL(c.Backend.BaseURL, "http", "https"); err != nil {
		errs = append(errs, ValidationError{
			Field:   "backend.base_url",
			Message: err.Error(),
		})
	}
	if c.Backend.WebSocketURL != "" {
		if err := validateURL(c.Backend.WebSocketURL, "ws", "wss"); err != nil {
			errs = append(errs, ValidationError{
				Field:   "backend.websocket_url",
				Message: err.Error(),
			})
		}
	}
	if c.Backend.HealthIntervalSecs < 1 || c.Backend.HealthIntervalSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "backend.health_interval_secs",
			Message: fmt.Sprintf("must be between 1 and 300, got %d", c.Backend.HealthIntervalSecs),
		})
	}

	if err := c.Chat.Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "chat",
			Message: err.Error(),
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateURL checks that raw parses and uses one of the allowed schemes.
func validateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			if u.Host == "" {
				return fmt.Errorf("URL has no host: %s", raw)
			}
			return nil
		}
	}
	return fmt.Errorf("URL scheme must be one of %s, got '%s'", strings.Join(schemes, ", "), u.Scheme)
}
