package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS meeting_summaries (
	id                TEXT PRIMARY KEY,
	room_id           TEXT NOT NULL,
	group_id          TEXT NOT NULL DEFAULT '',
	created_by        TEXT NOT NULL DEFAULT '',
	summary           TEXT NOT NULL,
	key_points        TEXT NOT NULL,
	participants      TEXT NOT NULL,
	participant_names TEXT NOT NULL,
	transcriptions    TEXT NOT NULL,
	duration_ms       INTEGER NOT NULL,
	start_time        TEXT NOT NULL,
	end_time          TEXT NOT NULL,
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meeting_summaries_room
	ON meeting_summaries(room_id, created_at);
`

type implStorage struct {
	db     *sql.DB
	logger logger.Logger
}

// New opens (creating if needed) the SQLite database at cfg.Path and ensures
// the schema exists.
func New(cfg config.StorageConfig, log logger.Logger) (Storage, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &implStorage{db: db, logger: log}, nil
}

func (s *implStorage) Close() error {
	return s.db.Close()
}
