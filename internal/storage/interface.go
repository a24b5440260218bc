package storage

import (
	"context"

	"github.com/Shlok-Goswami/virtudesk/internal/session"
)

// Storage durably stores finished session records and serves the read API.
type Storage interface {
	Insert(ctx context.Context, rec session.Record) (session.Record, error)
	ListByRoom(ctx context.Context, roomID string) ([]session.Record, error)
	Close() error
}
