package cli

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the bursts of events editors emit for one save.
var debounceDelay = 100 * time.Millisecond

// watchFile calls onChange after filename is written, replaced or removed,
// until ctx is cancelled. Calls never overlap.
func watchFile(ctx context.Context, filename string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filename); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	runWatcher(ctx, watcher, filename, onChange)
	return nil
}

// runWatcher processes file system events with debouncing.
func runWatcher(ctx context.Context, watcher *fsnotify.Watcher, filename string, onChange func()) {
	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
		closed        bool
	)
	// Waits for a handler that is already running, and keeps later timer
	// fires from touching the closed watcher.
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}

		mu.Lock()
		defer mu.Unlock()
		closed = true
		_ = watcher.Close()
	}()

	handle := func() {
		mu.Lock()
		defer mu.Unlock()

		if closed || ctx.Err() != nil {
			return
		}

		// Atomic saves replace the file, which drops the watch.
		if err := watcher.Add(filename); err != nil {
			log.Printf("Warning: failed to watch %s: %v", filename, err)
		}

		onChange()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, handle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}
