package session

import "context"

// NameResolver maps participant identifiers to display names for a group.
// An empty map is a valid answer; the session falls back to locally stored
// names and raw identifiers.
type NameResolver interface {
	ResolveNames(ctx context.Context, groupID string) (map[string]string, error)
}

// Sink durably stores a finished session record. Failures are non-fatal to
// the in-memory aggregate.
type Sink interface {
	Insert(ctx context.Context, rec Record) (Record, error)
}

// MinutesWriter renders a finished aggregate to a document artifact and
// returns its path. Failures are non-fatal.
type MinutesWriter interface {
	Write(ctx context.Context, roomID string, agg Summary) (string, error)
}
