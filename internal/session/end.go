package session

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Placeholder content for sessions that ended without any usable audio.
const (
	placeholderSummary  = "No conversation was recorded in this meeting."
	placeholderKeyPoint = "No audio content was captured."
)

const fallbackSummaryMaxChars = 500

// snapshot is one participant's state frozen at the moment End started, so
// transcription can run without holding the session mutex.
type snapshot struct {
	id    string
	name  string
	audio []byte
}

// End closes the session and produces the aggregate result. Every failure
// along the way degrades: a participant whose transcription fails gets an
// empty transcript, a failed summarization falls back to transcript
// truncation, and persistence or minutes failures are logged without
// touching the returned aggregate. End always returns a well-formed Summary.
func (s *Session) End(ctx context.Context, req EndRequest) Summary {
	now := time.Now()

	s.mu.Lock()
	if s.startAt.IsZero() {
		s.startAt = s.earliestOffsetLocked(now)
	}
	start := s.startAt
	snaps := s.snapshotLocked()
	s.mu.Unlock()

	duration := now.Sub(start).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	resolved := s.resolveNames(ctx, req.GroupID)

	names := make(map[string]string, len(snaps))
	ids := make([]string, 0, len(snaps))
	for _, sp := range snaps {
		ids = append(ids, sp.id)
		names[sp.id] = displayName(sp, resolved)
	}

	entries := s.transcribeAll(ctx, snaps, names)

	combined := joinTranscript(entries)

	var summaryText string
	var keyPoints []string
	if combined == "" {
		summaryText = placeholderSummary
		keyPoints = []string{placeholderKeyPoint}
	} else {
		summaryText, keyPoints = s.summarize(ctx, combined)
	}

	agg := Summary{
		Summary:          summaryText,
		KeyPoints:        keyPoints,
		Participants:     ids,
		ParticipantNames: names,
		Transcriptions:   entries,
		DurationMS:       duration,
		StartTime:        start.UTC().Format(time.RFC3339),
		EndTime:          now.UTC().Format(time.RFC3339),
	}

	s.persist(ctx, req, agg)
	s.writeMinutes(ctx, agg)

	return agg
}

// earliestOffsetLocked infers a session start when Init never ran: the
// minimum last-seen offset across participants, or now if there are none.
func (s *Session) earliestOffsetLocked(now time.Time) time.Time {
	earliest := now
	for _, p := range s.participants {
		if !p.lastSeen.IsZero() && p.lastSeen.Before(earliest) {
			earliest = p.lastSeen
		}
	}
	return earliest
}

// snapshotLocked copies participant state in identifier order so the
// aggregate is deterministic.
func (s *Session) snapshotLocked() []snapshot {
	snaps := make([]snapshot, 0, len(s.participants))
	for _, p := range s.participants {
		snaps = append(snaps, snapshot{id: p.id, name: p.name, audio: p.combined()})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].id < snaps[j].id })
	return snaps
}

func (s *Session) resolveNames(ctx context.Context, groupID string) map[string]string {
	if groupID == "" || s.deps.Resolver == nil {
		return nil
	}
	resolved, err := s.deps.Resolver.ResolveNames(ctx, groupID)
	if err != nil {
		s.logger.Warn(ctx, "Name resolution failed for group %s: %v", groupID, err)
		return nil
	}
	return resolved
}

// displayName prefers the directory name, then the locally stored name, then
// the raw identifier.
func displayName(sp snapshot, resolved map[string]string) string {
	if name := resolved[sp.id]; name != "" {
		return name
	}
	if sp.name != "" {
		return sp.name
	}
	return sp.id
}

// transcribeAll dispatches transcription per participant, bounded by the
// shared semaphore, and joins before returning. Participants without audio
// get an empty entry with no external call.
func (s *Session) transcribeAll(ctx context.Context, snaps []snapshot, names map[string]string) []TranscriptEntry {
	entries := make([]TranscriptEntry, len(snaps))

	var wg sync.WaitGroup
	for i, sp := range snaps {
		entries[i] = TranscriptEntry{ID: sp.id, Name: names[sp.id]}
		if len(sp.audio) == 0 {
			continue
		}

		wg.Add(1)
		go func(i int, sp snapshot) {
			defer wg.Done()

			if err := s.sem.acquire(ctx); err != nil {
				s.logger.Warn(ctx, "Transcription cancelled for participant %s: %v", sp.id, err)
				return
			}
			defer s.sem.release()

			text, err := s.deps.Transcriber.Transcribe(ctx, sp.audio)
			if err != nil {
				s.logger.Warn(ctx, "Transcription failed for participant %s in room %s: %v", sp.id, s.roomID, err)
				return
			}
			entries[i].Text = text
		}(i, sp)
	}
	wg.Wait()

	return entries
}

// joinTranscript builds the combined "Name: text" transcript from non-empty
// entries.
func joinTranscript(entries []TranscriptEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		name := e.Name
		if name == "" {
			name = e.ID
		}
		lines = append(lines, name+": "+text)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// summarize asks the orchestrator for a summary and synthesizes a fallback
// from the transcript itself when the result is failed or an error came back.
func (s *Session) summarize(ctx context.Context, combined string) (string, []string) {
	res, err := s.deps.Summarizer.Summarize(ctx, combined)
	if err != nil {
		s.logger.Error(ctx, "Summarization failed for room %s: %v", s.roomID, err)
		return fallbackSummary(combined), fallbackKeyPoints(combined)
	}
	if res.Failed() {
		s.logger.Warn(ctx, "Summarization degraded for room %s: %s", s.roomID, res.Err)
		return fallbackSummary(combined), fallbackKeyPoints(combined)
	}
	return res.Summary, res.KeyPoints
}

// fallbackSummary is the transcript itself, truncated.
func fallbackSummary(combined string) string {
	runes := []rune(combined)
	if len(runes) <= fallbackSummaryMaxChars {
		return combined
	}
	return string(runes[:fallbackSummaryMaxChars])
}

// fallbackKeyPoints keeps up to 5 sentence fragments longer than 10
// characters from the transcript.
func fallbackKeyPoints(combined string) []string {
	points := make([]string, 0, 5)
	for _, frag := range strings.FieldsFunc(combined, func(r rune) bool {
		return r == '.' || r == '?' || r == '!'
	}) {
		frag = strings.TrimSpace(frag)
		if len(frag) <= 10 {
			continue
		}
		points = append(points, frag)
		if len(points) == 5 {
			break
		}
	}
	return points
}

func (s *Session) persist(ctx context.Context, req EndRequest, agg Summary) {
	if s.deps.Sink == nil {
		return
	}
	rec := Record{
		RoomID:    s.roomID,
		GroupID:   req.GroupID,
		CreatedBy: req.EndedBy,
		Summary:   agg,
	}
	if _, err := s.deps.Sink.Insert(ctx, rec); err != nil {
		s.logger.Error(ctx, "Failed to persist summary for room %s: %v", s.roomID, err)
	}
}

func (s *Session) writeMinutes(ctx context.Context, agg Summary) {
	if s.deps.Minutes == nil {
		return
	}
	path, err := s.deps.Minutes.Write(ctx, s.roomID, agg)
	if err != nil {
		s.logger.Warn(ctx, "Failed to write minutes for room %s: %v", s.roomID, err)
		return
	}
	s.logger.Info(ctx, "Minutes written: %s", path)
}
