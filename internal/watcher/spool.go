package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Shlok-Goswami/virtudesk/internal/logger"
	"github.com/Shlok-Goswami/virtudesk/internal/session"
)

// Recorders drop chunk files named <room>__<participant>__<unixMillis>.<ext>.
// The separator keeps room and participant ids unambiguous even when they
// contain dashes.
const spoolSeparator = "__"

type spoolName struct {
	room        string
	participant string
	at          time.Time
}

func parseSpoolName(path string) (spoolName, error) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(base, spoolSeparator)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return spoolName{}, fmt.Errorf("spool file %q does not match <room>__<participant>__<millis>", filepath.Base(path))
	}

	millis, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return spoolName{}, fmt.Errorf("spool file %q has invalid timestamp: %w", filepath.Base(path), err)
	}

	return spoolName{
		room:        parts[0],
		participant: parts[1],
		at:          time.UnixMilli(millis),
	}, nil
}

// NewSpoolHandler returns an EventHandler that ingests a dropped chunk file
// into the right room and removes it afterwards.
func NewSpoolHandler(mgr *session.Manager, log logger.Logger) EventHandler {
	return func(ctx context.Context, filePath string) error {
		name, err := parseSpoolName(filePath)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read chunk file: %w", err)
		}
		if len(data) == 0 {
			log.Warn(ctx, "Skipping empty chunk file: %s", filePath)
		} else {
			mgr.Room(name.room).Ingest(name.participant, data, name.at)
			log.Debug(ctx, "Ingested %d bytes for participant %s in room %s", len(data), name.participant, name.room)
		}

		if err := os.Remove(filePath); err != nil {
			log.Warn(ctx, "Failed to remove spool file %s: %v", filePath, err)
		}
		return nil
	}
}
