// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides durable local persistence for the aide TUI.
package store

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// STORE WATCHER
// =============================================================================

// selfWriteWindow is how long after our own write an event on the same key
// is ignored. Prevents a save → notify → reload loop within one process.
const selfWriteWindow = 500 * time.Millisecond

// Watcher reloads store documents when another running instance writes them,
// mirroring the storage-event sync browsers provide across tabs.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time // storage key -> last change time

	// OnChange is invoked (debounced) with the key that changed.
	OnChange func(key string)

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher over the store's directory.
func NewWatcher(s *Store, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := &Watcher{
		store:    s,
		watcher:  fw,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}

	if err := fw.Add(s.BaseDir); err != nil {
		fw.Close()
		cancel()
		return nil, err
	}

	return w, nil
}

// Watch starts the event and flush loops. It returns immediately.
func (w *Watcher) Watch() {
	go w.eventLoop()
	go w.flushLoop()
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// eventLoop records write/create events against their storage keys.
func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			key := keyFromPath(event.Name)
			if key == "" {
				continue
			}
			// Our own atomic writes land as a rename/create; skip them.
			if w.store.WroteRecently(key, selfWriteWindow) {
				continue
			}
			w.mu.Lock()
			w.pending[key] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("store: watcher error: %v", err)
		}
	}
}

// flushLoop fires OnChange for keys whose changes have settled.
func (w *Watcher) flushLoop() {
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.flush()
		}
	}
}

// flush invokes OnChange for settled keys.
func (w *Watcher) flush() {
	now := time.Now()

	w.mu.Lock()
	var ready []string
	for key, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, key)
			delete(w.pending, key)
		}
	}
	w.mu.Unlock()

	for _, key := range ready {
		if w.OnChange != nil {
			w.OnChange(key)
		}
	}
}

// keyFromPath extracts the storage key from a watched file path.
// Returns "" for paths that are not store documents (temp files etc).
func keyFromPath(path string) string {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") {
		return ""
	}
	key := strings.TrimSuffix(base, ".json")
	if key == "" || strings.HasPrefix(key, ".") {
		return ""
	}
	return key
}
