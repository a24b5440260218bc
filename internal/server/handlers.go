package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Shlok-Goswami/virtudesk/internal/session"
)

const maxChunkBytes = 8 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StartTime int64 `json:"startTime"`
	}
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	startAt := time.Now()
	if body.StartTime > 0 {
		startAt = time.UnixMilli(body.StartTime)
	}

	room := r.PathValue("room")
	s.manager.Room(room).Init(startAt)
	s.logger.Info(r.Context(), "Session started for room %s", room)
	writeJSON(w, http.StatusOK, map[string]string{"room": room, "status": "recording"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ParticipantID string `json:"participantId"`
		Name          string `json:"name"`
		Offset        int64  `json:"offset"`
	}
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.ParticipantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	var offset time.Time
	if body.Offset > 0 {
		offset = time.UnixMilli(body.Offset)
	}
	s.manager.Room(r.PathValue("room")).Register(body.ParticipantID, body.Name, offset)
	writeJSON(w, http.StatusOK, map[string]string{"participantId": body.ParticipantID})
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxChunkBytes))
	if err != nil {
		http.Error(w, "read chunk: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty chunk", http.StatusBadRequest)
		return
	}

	s.manager.Room(r.PathValue("room")).Ingest(r.PathValue("id"), data, time.Now())
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	entry := s.manager.Room(r.PathValue("room")).FinalizeParticipant(r.Context(), r.PathValue("id"), time.Now())
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GroupID string `json:"groupId"`
		EndedBy string `json:"endedBy"`
	}
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	room := r.PathValue("room")
	agg := s.manager.Room(room).End(r.Context(), session.EndRequest{
		GroupID: body.GroupID,
		EndedBy: body.EndedBy,
	})
	s.logger.Info(r.Context(), "Session ended for room %s (%d participants)", room, len(agg.Participants))
	writeJSON(w, http.StatusOK, agg)
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "persistence disabled", http.StatusNotFound)
		return
	}
	records, err := s.store.ListByRoom(r.Context(), r.PathValue("room"))
	if err != nil {
		s.logger.Error(r.Context(), "List summaries failed: %v", err)
		http.Error(w, "list summaries", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []session.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// decodeBody tolerates an empty body; every control endpoint's fields are
// optional unless checked by the handler.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
