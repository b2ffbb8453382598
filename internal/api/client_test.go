// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP collaborators of the backend agent.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/aide-tui/internal/model"
)

// =============================================================================
// CHAT FALLBACK TESTS
// =============================================================================

func TestSendMessage(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/" {
			t.Errorf("path = %q, want /api/chat/", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"response": "Hi there",
			"steps": []map[string]any{
				{"id": "s1", "type": "thinking", "content": "hmm"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	reply, err := c.SendMessage(context.Background(), "Hello", model.DefaultSettings())
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if reply.Content() != "Hi there" {
		t.Errorf("Content() = %q, want Hi there", reply.Content())
	}
	if len(reply.Steps) != 1 || reply.Steps[0].Type != model.StepThinking {
		t.Errorf("Steps = %v, want one thinking step", reply.Steps)
	}
	if gotBody["message"] != "Hello" {
		t.Errorf("request message = %v, want Hello", gotBody["message"])
	}
	if gotBody["provider"] != "ollama" {
		t.Errorf("request provider = %v, want ollama", gotBody["provider"])
	}
}

func TestSendMessage_MessageFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "alt field"})
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).SendMessage(context.Background(), "x", model.DefaultSettings())
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if reply.Content() != "alt field" {
		t.Errorf("Content() = %q, want alt field", reply.Content())
	}
}

func TestSendMessage_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SendMessage(context.Background(), "x", model.DefaultSettings())
	if !errors.Is(err, ErrBadStatus) {
		t.Errorf("error = %v, want ErrBadStatus", err)
	}
}

func TestSendMessage_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	_, err := c.SendMessage(context.Background(), "x", model.DefaultSettings())
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("error = %v, want ErrBackendUnavailable", err)
	}
}

// =============================================================================
// TITLE GENERATION TESTS
// =============================================================================

func TestGenerateTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/title" {
			t.Errorf("path = %q, want /api/chat/title", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"title": "Greeting"})
	}))
	defer srv.Close()

	title, err := NewClient(srv.URL).GenerateTitle(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("GenerateTitle() error = %v", err)
	}
	if title != "Greeting" {
		t.Errorf("title = %q, want Greeting", title)
	}
}

func TestGenerateTitle_EmptyTitleIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"title": "  "})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GenerateTitle(context.Background(), "Hello")
	if err == nil {
		t.Error("blank title should be reported as an error so the fallback applies")
	}
}

// =============================================================================
// SPEECH SYNTHESIS TESTS
// =============================================================================

func TestSynthesize(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33, 0x04} // ID3 header bytes
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/voice/synthesize" {
			t.Errorf("path = %q, want /api/voice/synthesize", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["text"] != "Hi there" {
			t.Errorf("text = %q, want Hi there", req["text"])
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL).Synthesize(context.Background(), "Hi there", model.DefaultSettings())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(got) != string(audio) {
		t.Errorf("audio = %v, want %v", got, audio)
	}
}

// =============================================================================
// HEALTH CHECK TESTS
// =============================================================================

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("path = %q, want /api/health", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v, want nil", err)
	}
}

func TestHealth_Down(t *testing.T) {
	err := NewClient("http://127.0.0.1:1").Health(context.Background())
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("error = %v, want ErrBackendUnavailable", err)
	}
}

// =============================================================================
// MODEL LISTING TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string][]string{"models": {"llama3.2", "mistral"}})
	}))
	defer srv.Close()

	models, err := NewClient(srv.URL).ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 || models[0] != "llama3.2" {
		t.Errorf("models = %v, want [llama3.2 mistral]", models)
	}
}
