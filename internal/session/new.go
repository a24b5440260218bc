package session

import (
	"sync"
	"time"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
	"github.com/Shlok-Goswami/virtudesk/internal/summarizer"
	"github.com/Shlok-Goswami/virtudesk/internal/transcriber"
)

// Deps are the collaborators every session works against. Resolver, Sink and
// Minutes may be nil; the session degrades gracefully without them.
type Deps struct {
	Transcriber transcriber.Transcriber
	Summarizer  summarizer.Summarizer
	Resolver    NameResolver
	Sink        Sink
	Minutes     MinutesWriter
}

// Manager owns one Session per room and hands them out with an atomic
// get-or-create, so rooms record concurrently without shared state.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     Deps
	sem      *semaphore
	logger   logger.Logger
}

// NewManager creates a Manager. The transcription semaphore is shared across
// rooms so the speech service sees a bounded number of jobs at once.
func NewManager(cfg config.SessionConfig, deps Deps, log logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		deps:     deps,
		sem:      newSemaphore(cfg.MaxConcurrentTranscriptions),
		logger:   log,
	}
}

// Room returns the Session for roomID, creating it on first use.
func (m *Manager) Room(roomID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[roomID]; ok {
		return s
	}
	s := &Session{
		roomID:       roomID,
		participants: make(map[string]*participant),
		deps:         m.deps,
		sem:          m.sem,
		logger:       m.logger,
	}
	m.sessions[roomID] = s
	return s
}

// Session holds one room's recording state. All store mutations are atomic
// under its mutex; the long-running end flow snapshots state and works
// outside the lock.
type Session struct {
	mu           sync.Mutex
	roomID       string
	startAt      time.Time
	participants map[string]*participant

	deps   Deps
	sem    *semaphore
	logger logger.Logger
}
