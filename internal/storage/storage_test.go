package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
	"github.com/Shlok-Goswami/virtudesk/internal/session"
)

func newTestStorage(t *testing.T) Storage {
	t.Helper()
	store, err := New(config.StorageConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	}, logger.New("error", "text"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndListByRoom(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	rec := session.Record{
		RoomID:    "room-1",
		GroupID:   "group-1",
		CreatedBy: "user-1",
		Summary: session.Summary{
			Summary:          "The team discussed the release.",
			KeyPoints:        []string{"The team discussed the release"},
			Participants:     []string{"alice", "bob"},
			ParticipantNames: map[string]string{"alice": "Alice", "bob": "Bob"},
			Transcriptions: []session.TranscriptEntry{
				{ID: "alice", Name: "Alice", Text: "Hello"},
				{ID: "bob", Name: "Bob", Text: ""},
			},
			DurationMS: 120000,
			StartTime:  "2026-08-29T10:00:00Z",
			EndTime:    "2026-08-29T10:02:00Z",
		},
	}

	saved, err := store.Insert(ctx, rec)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if saved.ID == "" {
		t.Error("saved record has no id")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("saved record has no created_at")
	}

	got, err := store.ListByRoom(ctx, "room-1")
	if err != nil {
		t.Fatalf("ListByRoom() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records = %d, want 1", len(got))
	}

	out := got[0]
	if out.ID != saved.ID || out.GroupID != "group-1" || out.CreatedBy != "user-1" {
		t.Errorf("record = %+v", out)
	}
	if out.Summary.Summary != rec.Summary.Summary {
		t.Errorf("summary = %q", out.Summary.Summary)
	}
	if len(out.Transcriptions) != 2 || out.Transcriptions[0].Name != "Alice" {
		t.Errorf("transcriptions = %+v", out.Transcriptions)
	}
	if out.ParticipantNames["bob"] != "Bob" {
		t.Errorf("participantNames = %v", out.ParticipantNames)
	}
	if out.DurationMS != 120000 {
		t.Errorf("duration = %d", out.DurationMS)
	}
}

func TestListByRoomScopesToRoom(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := session.Record{Summary: session.Summary{
		Summary:          "s",
		KeyPoints:        []string{},
		Participants:     []string{},
		ParticipantNames: map[string]string{},
		Transcriptions:   []session.TranscriptEntry{},
		StartTime:        "2026-08-29T10:00:00Z",
		EndTime:          "2026-08-29T10:01:00Z",
	}}

	for _, room := range []string{"room-1", "room-1", "room-2"} {
		rec := base
		rec.RoomID = room
		if _, err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := store.ListByRoom(ctx, "room-1")
	if err != nil {
		t.Fatalf("ListByRoom() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("records for room-1 = %d, want 2", len(got))
	}

	empty, err := store.ListByRoom(ctx, "room-3")
	if err != nil {
		t.Fatalf("ListByRoom() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("records for unknown room = %d, want 0", len(empty))
	}
}
