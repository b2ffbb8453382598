// aide TUI - A terminal front-end for a personal assistant backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/aide-tui/internal/api"
	"github.com/jeranaias/aide-tui/internal/auth"
	"github.com/jeranaias/aide-tui/internal/channel"
	"github.com/jeranaias/aide-tui/internal/config"
	"github.com/jeranaias/aide-tui/internal/session"
	"github.com/jeranaias/aide-tui/internal/store"
	"github.com/jeranaias/aide-tui/internal/ui/chat"
	"github.com/jeranaias/aide-tui/internal/voice"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("aide %s (%s, built %s)\n", Version, GitCommit, BuildDate)
			return
		case "config":
			printConfigPath()
			return
		case "help", "--help", "-h":
			printUsage()
			return
		default:
			fmt.Fprintf(os.Stderr, "aide: unknown command %q\n\n", os.Args[1])
			printUsage()
			os.Exit(2)
		}
	}

	if err := runTUI(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`aide - personal assistant terminal client

Usage:
  aide           launch the chat interface
  aide version   print version information
  aide config    print the configuration file path`)
}

func printConfigPath() {
	path, err := config.ConfigPathTOML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(path)
}

// runTUI wires the collaborators together and runs the program until exit.
func runTUI() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("aide is an interactive application; run it from a terminal")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.NewStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	sessionStore := store.NewSessionStore(st)

	client := api.NewClient(cfg.Backend.BaseURL)
	ch := channel.NewManager(cfg.WebSocketURL())
	controller := session.NewController(sessionStore, client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	m := chat.New(chat.Deps{
		Config:     cfg,
		Controller: controller,
		Channel:    ch,
		Client:     client,
		Auth:       auth.NewManager(st),
		Speaker:    voice.NewSpeaker(client),
		Recognizer: voice.NewRecognizer(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Background state changes (async titles, cross-instance sync) reach the
	// view through Program.Send.
	controller.SetOnChange(func(snap session.Snapshot) {
		p.Send(chat.SnapshotMessage(snap))
	})

	// Another running instance may rewrite the session document; pick those
	// changes up the way a browser tab follows storage events.
	watcher, err := store.NewWatcher(st, time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: store watcher unavailable: %v\n", err)
	} else {
		watcher.OnChange = func(key string) {
			if key == store.KeySessions {
				controller.ReplaceSessions(sessionStore.Load())
			}
		}
		watcher.Watch()
		defer watcher.Close()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
