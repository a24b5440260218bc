package watcher

import "context"

// Watcher monitors the spool directory for dropped chunk files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one spooled file.
type EventHandler func(ctx context.Context, filePath string) error
