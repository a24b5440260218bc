package session

import (
	"context"
	"time"
)

// Init starts a new recording session: sets the session clock and clears all
// participant records accumulated so far. Safe to call again at any point to
// begin a fresh session.
func (s *Session) Init(startAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startAt = startAt
	s.participants = make(map[string]*participant)
}

// Register upserts a participant. Re-registration updates the name and
// last-seen offset but never touches accumulated chunks, so a registration
// racing with ingestion can never drop audio. Last registration wins for the
// name.
func (s *Session) Register(id, name string, offset time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.getOrCreateLocked(id)
	if name != "" {
		p.name = name
	}
	if !offset.IsZero() {
		p.lastSeen = offset
	}
}

// Ingest appends one audio chunk for a participant. Unknown participants are
// auto-registered without a name; ingestion never fails because registration
// was missed. The session clock is lazily set from the first chunk when Init
// has not run yet.
func (s *Session) Ingest(id string, data []byte, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.startAt.IsZero() {
		s.startAt = at
	}

	p := s.getOrCreateLocked(id)
	chunk := make([]byte, len(data))
	copy(chunk, data)
	p.chunks = append(p.chunks, Chunk{Data: chunk, At: at})
	p.lastSeen = at
}

// getOrCreateLocked is the single create path for participant records; the
// caller must hold the session mutex.
func (s *Session) getOrCreateLocked(id string) *participant {
	p, ok := s.participants[id]
	if !ok {
		p = &participant{id: id}
		s.participants[id] = p
	}
	return p
}

// FinalizeParticipant marks a participant finished and transcribes their
// accumulated audio. It never fails: zero chunks yield an empty entry with
// no external call, and transcription errors degrade to an empty entry for
// this participant only.
func (s *Session) FinalizeParticipant(ctx context.Context, id string, stopAt time.Time) TranscriptEntry {
	s.mu.Lock()
	p := s.getOrCreateLocked(id)
	p.finalized = true
	p.lastSeen = stopAt
	name := p.name
	audio := p.combined()
	s.mu.Unlock()

	entry := TranscriptEntry{ID: id, Name: name}
	if len(audio) == 0 {
		return entry
	}

	text, err := s.deps.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		s.logger.Warn(ctx, "Transcription failed for participant %s in room %s: %v", id, s.roomID, err)
		return entry
	}
	entry.Text = text
	return entry
}
