package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// controlMessage is a JSON text frame on a participant's ingest socket.
// Binary frames carry raw audio stamped at arrival and need no envelope.
type controlMessage struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"` // base64 audio for "chunk"
	At   int64  `json:"at,omitempty"`   // unix millis capture time for "chunk"
}

// handleSocket runs one participant's ingest channel. The participant is
// registered at connect time from the query parameters, then frames stream
// in until the client disconnects or sends a finalize control message.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participant")
	if participantID == "" {
		http.Error(w, "participant query parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	room := s.manager.Room(r.PathValue("room"))
	room.Register(participantID, r.URL.Query().Get("name"), time.Now())
	s.logger.Info(ctx, "Participant %s connected to room %s", participantID, r.PathValue("room"))

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn(ctx, "Participant %s socket error: %v", participantID, err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if len(data) > 0 {
				room.Ingest(participantID, data, time.Now())
			}

		case websocket.TextMessage:
			var msg controlMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				s.logger.Warn(ctx, "Participant %s sent malformed control message: %v", participantID, err)
				continue
			}

			switch msg.Type {
			case "chunk":
				audio, err := base64.StdEncoding.DecodeString(msg.Data)
				if err != nil || len(audio) == 0 {
					s.logger.Warn(ctx, "Participant %s sent undecodable chunk", participantID)
					continue
				}
				at := time.Now()
				if msg.At > 0 {
					at = time.UnixMilli(msg.At)
				}
				room.Ingest(participantID, audio, at)

			case "finalize":
				entry := room.FinalizeParticipant(ctx, participantID, time.Now())
				if err := conn.WriteJSON(map[string]interface{}{"type": "transcript", "entry": entry}); err != nil {
					s.logger.Warn(ctx, "Participant %s transcript reply failed: %v", participantID, err)
				}
				return

			default:
				s.logger.Debug(ctx, "Participant %s sent unknown control type %q", participantID, msg.Type)
			}
		}
	}
}
