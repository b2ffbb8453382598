// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP collaborators of the backend agent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/aide-tui/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is where the launch script serves the backend.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// HealthTimeout keeps the connectivity probe snappy; a slow health
	// endpoint reads the same as a down one.
	HealthTimeout = 5 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// MaxAudioSize bounds synthesized audio payloads.
	MaxAudioSize = 50 * 1024 * 1024 // 50MB
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend errors.
var (
	// ErrBackendUnavailable indicates the backend could not be reached.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBadStatus indicates a non-200 response from the backend.
	ErrBadStatus = errors.New("backend returned error status")
)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the backend agent's HTTP endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. An empty URL selects
// the default local backend.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithHTTPClient overrides the underlying HTTP client (used by tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// =============================================================================
// CHAT FALLBACK
// =============================================================================

// chatRequest is the one-shot chat request body.
type chatRequest struct {
	Message  string `json:"message"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// ChatReply is the one-shot chat response. The backend answers with either
// a "response" or a "message" field depending on the code path.
type ChatReply struct {
	Response string            `json:"response"`
	Message  string            `json:"message"`
	Steps    []model.AgentStep `json:"steps,omitempty"`
}

// Content returns whichever reply field the backend populated.
func (r *ChatReply) Content() string {
	if r.Response != "" {
		return r.Response
	}
	return r.Message
}

// SendMessage performs a one-shot chat request. It is the fallback path used
// when the live channel is not open at send time.
func (c *Client) SendMessage(ctx context.Context, message string, settings model.Settings) (*ChatReply, error) {
	req := chatRequest{
		Message:  message,
		Provider: settings.Provider.String(),
		Model:    settings.Model,
	}

	var reply ChatReply
	if err := c.postJSON(ctx, "/api/chat/", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// =============================================================================
// TITLE GENERATION
// =============================================================================

// titleRequest is the title-generation request body.
type titleRequest struct {
	Message string `json:"message"`
}

// titleReply is the title-generation response body.
type titleReply struct {
	Title string `json:"title"`
}

// GenerateTitle asks the backend for a session title derived from the first
// message. Callers absorb any failure with the deterministic fallback
// (model.FallbackTitle); this method just reports it.
func (c *Client) GenerateTitle(ctx context.Context, message string) (string, error) {
	var reply titleReply
	if err := c.postJSON(ctx, "/api/chat/title", titleRequest{Message: message}, &reply); err != nil {
		return "", err
	}
	if strings.TrimSpace(reply.Title) == "" {
		return "", fmt.Errorf("%w: empty title", ErrBadStatus)
	}
	return reply.Title, nil
}

// =============================================================================
// SPEECH SYNTHESIS
// =============================================================================

// synthesizeRequest is the speech-synthesis request body.
type synthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
	Rate  string `json:"rate,omitempty"`
	Pitch string `json:"pitch,omitempty"`
}

// Synthesize converts text to speech and returns the raw audio payload.
func (c *Client) Synthesize(ctx context.Context, text string, settings model.Settings) ([]byte, error) {
	req := synthesizeRequest{
		Text:  text,
		Voice: settings.Voice,
		Rate:  settings.VoiceRate,
		Pitch: settings.VoicePitch,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/voice/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	audio, err := readLimited(resp.Body, MaxAudioSize)
	if err != nil {
		return nil, err
	}
	return audio, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Health probes the backend. A nil return means the backend answered
// healthy; the result drives the connectivity indicator only.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, HealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}
	return nil
}

// =============================================================================
// MODEL LISTING
// =============================================================================

// modelsReply is the model-listing response body.
type modelsReply struct {
	Models []string `json:"models"`
}

// ListModels returns the active provider's model identifiers for the
// settings screen. An empty list is not an error.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, MaxResponseSize)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var reply modelsReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}
	return reply.Models, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// postJSON performs a JSON POST and decodes a JSON reply into out.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	log.Printf("api: POST %s -> %d (%v)", path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	respBody, err := readLimited(resp.Body, MaxResponseSize)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// readLimited reads a body with a size cap.
// SECURITY: Response size limit prevents memory exhaustion.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == limit {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", limit)
	}
	return body, nil
}
