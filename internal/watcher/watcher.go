package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Shlok-Goswami/virtudesk/internal/logger"
)

type implWatcher struct {
	spoolDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	wg            sync.WaitGroup
}

// Start begins monitoring the spool directory for dropped chunk files and
// dispatches the handler for each, bounded by the semaphore.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Spool watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.spoolDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for in-flight spool files to finish...")
			w.wg.Wait()
			w.logger.Info(ctx, "Spool watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.isChunkFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-chunk file: %s", event.Name)
				continue
			}

			w.logger.Debug(ctx, "New chunk file detected: %s", event.Name)

			// Give the recorder a moment to finish writing the file.
			time.Sleep(500 * time.Millisecond)

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(filePath string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }()

					if err := w.handler(ctx, filePath); err != nil {
						w.logger.Error(ctx, "Failed to ingest %s: %v", filePath, err)
					}
				}(event.Name)
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher.
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// isChunkFile checks for a supported audio chunk extension.
func (w *implWatcher) isChunkFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	supported := []string{".wav", ".ogg", ".opus", ".mp3", ".m4a", ".webm", ".pcm"}

	for _, s := range supported {
		if ext == s {
			return true
		}
	}

	return false
}
