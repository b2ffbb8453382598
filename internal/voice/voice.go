// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/jeranaias/aide-tui/internal/model"
)

// playTimeout bounds a single playback invocation.
const playTimeout = 2 * time.Minute

// ErrNoPlayer indicates no usable audio player was found on the host.
var ErrNoPlayer = errors.New("no audio player found")

// =============================================================================
// SYNTHESIS PLAYBACK
// =============================================================================

// Synthesizer converts text to a raw audio payload.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, settings model.Settings) ([]byte, error)
}

// Speaker synthesizes assistant replies and plays them aloud.
type Speaker struct {
	synth  Synthesizer
	player string
	args   []string
}

// NewSpeaker creates a speaker, probing the host for an audio player.
// A missing player is not an error here; Speak degrades to a log line.
func NewSpeaker(synth Synthesizer) *Speaker {
	player, args := findPlayer()
	return &Speaker{
		synth:  synth,
		player: player,
		args:   args,
	}
}

// Available reports whether playback can work on this host.
func (s *Speaker) Available() bool {
	return s.player != ""
}

// Speak synthesizes the text and plays it. Every failure is logged and
// absorbed: an already-rendered assistant message is never rolled back or
// hidden because its audio failed.
func (s *Speaker) Speak(ctx context.Context, text string, settings model.Settings) {
	if text == "" {
		return
	}
	audio, err := s.synth.Synthesize(ctx, text, settings)
	if err != nil {
		log.Printf("voice: synthesis failed: %v", err)
		return
	}
	if err := s.play(ctx, audio); err != nil {
		log.Printf("voice: playback failed: %v", err)
	}
}

// play writes the audio to a temp file and runs the host player on it.
func (s *Speaker) play(ctx context.Context, audio []byte) error {
	if s.player == "" {
		return ErrNoPlayer
	}

	f, err := os.CreateTemp("", "aide-voice-*.mp3")
	if err != nil {
		return fmt.Errorf("failed to create temp audio file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audio: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	playCtx, cancel := context.WithTimeout(ctx, playTimeout)
	defer cancel()

	args := append(append([]string{}, s.args...), path)
	cmd := exec.CommandContext(playCtx, s.player, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("player %s failed: %w", s.player, err)
	}
	return nil
}

// findPlayer locates a command-line audio player for the current platform.
func findPlayer() (string, []string) {
	type candidate struct {
		name string
		args []string
	}
	var candidates []candidate
	switch runtime.GOOS {
	case "darwin":
		candidates = []candidate{{"afplay", nil}}
	case "windows":
		candidates = []candidate{
			{"powershell", []string{"-NoProfile", "-Command", "(New-Object Media.SoundPlayer $args[0]).PlaySync()"}},
		}
	default:
		candidates = []candidate{
			{"mpg123", []string{"-q"}},
			{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
			{"aplay", []string{"-q"}},
		}
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c.name); err == nil {
			return path, c.args
		}
	}
	return "", nil
}

// =============================================================================
// SPEECH RECOGNITION
// =============================================================================

// ErrRecognitionUnsupported is returned when the host has no speech
// recognition capability. The UI surfaces it immediately rather than
// pretending to listen.
var ErrRecognitionUnsupported = errors.New("speech recognition is not available on this host")

// Recognizer is the speech-to-text capability probe. The terminal host has
// no native recognition engine, so today every start attempt reports the
// absence synchronously.
type Recognizer struct{}

// NewRecognizer creates a recognizer.
func NewRecognizer() *Recognizer {
	return &Recognizer{}
}

// Available reports whether speech input can work on this host.
func (r *Recognizer) Available() bool {
	return false
}

// Start begins capturing speech. It fails synchronously with
// ErrRecognitionUnsupported when the capability is absent.
func (r *Recognizer) Start(ctx context.Context) error {
	return ErrRecognitionUnsupported
}
