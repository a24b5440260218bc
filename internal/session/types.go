package session

import "time"

// Chunk is one unit of captured audio for a participant. Audio is opaque to
// the pipeline; combining a participant's chunks is byte concatenation in
// arrival order.
type Chunk struct {
	Data []byte
	At   time.Time
}

// participant accumulates one speaker's state within a session. Owned by the
// Session; all access goes through the Session mutex.
type participant struct {
	id        string
	name      string
	lastSeen  time.Time
	chunks    []Chunk
	finalized bool
}

func (p *participant) combined() []byte {
	size := 0
	for _, c := range p.chunks {
		size += len(c.Data)
	}
	if size == 0 {
		return nil
	}
	audio := make([]byte, 0, size)
	for _, c := range p.chunks {
		audio = append(audio, c.Data...)
	}
	return audio
}

// TranscriptEntry is one participant's transcription result. Text is the
// empty string when transcription failed or no audio was captured; the entry
// itself is never omitted.
type TranscriptEntry struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Text string `json:"text"`
}

// Summary is the aggregate result of one ended session. Participants,
// ParticipantNames and Transcriptions agree on the identifier set. It is
// immutable once built.
type Summary struct {
	Summary          string            `json:"summary"`
	KeyPoints        []string          `json:"keyPoints"`
	Participants     []string          `json:"participants"`
	ParticipantNames map[string]string `json:"participantNames"`
	Transcriptions   []TranscriptEntry `json:"transcriptions"`
	DurationMS       int64             `json:"duration"`
	StartTime        string            `json:"startTime"`
	EndTime          string            `json:"endTime"`
}

// EndRequest carries the optional attribution fields for ending a session.
type EndRequest struct {
	GroupID string
	EndedBy string
}

// Record is a Summary decorated for durable storage. ID and CreatedAt are
// assigned by the sink.
type Record struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	GroupID   string    `json:"groupId,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Summary
}
