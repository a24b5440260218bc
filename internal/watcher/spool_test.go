package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
	"github.com/Shlok-Goswami/virtudesk/internal/session"
	"github.com/Shlok-Goswami/virtudesk/internal/summarizer"
)

func TestParseSpoolName(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    spoolName
		wantErr bool
	}{
		{
			name: "valid",
			path: "/spool/room-1__alice__1700000000000.ogg",
			want: spoolName{room: "room-1", participant: "alice", at: time.UnixMilli(1700000000000)},
		},
		{
			name: "ids with dashes",
			path: "daily-standup__user-42__1700000000500.wav",
			want: spoolName{room: "daily-standup", participant: "user-42", at: time.UnixMilli(1700000000500)},
		},
		{name: "missing participant", path: "room__.ogg", wantErr: true},
		{name: "bad timestamp", path: "room__alice__soon.ogg", wantErr: true},
		{name: "too many separators", path: "a__b__c__1700000000000.ogg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSpoolName(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSpoolName(%q) expected error, got %+v", tt.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSpoolName(%q) error = %v", tt.path, err)
			}
			if got.room != tt.want.room || got.participant != tt.want.participant || !got.at.Equal(tt.want.at) {
				t.Errorf("parseSpoolName(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

type noopTranscriber struct{}

func (noopTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return "", nil
}

type noopSummarizer struct{}

func (noopSummarizer) Summarize(ctx context.Context, transcript string) (summarizer.Result, error) {
	return summarizer.Result{}, nil
}

func TestSpoolHandlerIngestsAndRemoves(t *testing.T) {
	log := logger.New("error", "text")
	mgr := session.NewManager(
		config.SessionConfig{MaxConcurrentTranscriptions: 2},
		session.Deps{Transcriber: noopTranscriber{}, Summarizer: noopSummarizer{}},
		log,
	)
	handler := NewSpoolHandler(mgr, log)

	dir := t.TempDir()
	path := filepath.Join(dir, "room-1__alice__1700000000000.ogg")
	if err := os.WriteFile(path, []byte("chunk-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := handler(context.Background(), path); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("spool file not removed: %v", err)
	}

	agg := mgr.Room("room-1").End(context.Background(), session.EndRequest{})
	if len(agg.Participants) != 1 || agg.Participants[0] != "alice" {
		t.Errorf("participants = %v, want [alice]", agg.Participants)
	}
}

func TestSpoolHandlerRejectsMalformedName(t *testing.T) {
	log := logger.New("error", "text")
	mgr := session.NewManager(
		config.SessionConfig{MaxConcurrentTranscriptions: 2},
		session.Deps{Transcriber: noopTranscriber{}, Summarizer: noopSummarizer{}},
		log,
	)
	handler := NewSpoolHandler(mgr, log)

	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-chunk.ogg")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := handler(context.Background(), path); err == nil {
		t.Fatal("handler expected error for malformed name")
	}
}
