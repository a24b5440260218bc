package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Shlok-Goswami/virtudesk/internal/config"
	"github.com/Shlok-Goswami/virtudesk/internal/logger"
	"github.com/Shlok-Goswami/virtudesk/internal/session"
)

// SummaryStore is the read side the API serves stored summaries from.
type SummaryStore interface {
	ListByRoom(ctx context.Context, roomID string) ([]session.Record, error)
}

// Server exposes the recording API: REST control endpoints plus one
// WebSocket ingest channel per participant.
type Server struct {
	httpServer *http.Server
	manager    *session.Manager
	store      SummaryStore
	upgrader   websocket.Upgrader
	logger     logger.Logger
}

// New creates the API server. store may be nil when persistence is disabled;
// the summaries endpoint then answers 404.
func New(cfg config.ServerConfig, mgr *session.Manager, store SummaryStore, log logger.Logger) *Server {
	s := &Server{
		manager: mgr,
		store:   store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 4 * 1024,
			// Recorders connect from the room clients, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/rooms/{room}/start", s.handleStart)
	mux.HandleFunc("POST /api/rooms/{room}/participants", s.handleRegister)
	mux.HandleFunc("POST /api/rooms/{room}/participants/{id}/chunks", s.handleChunk)
	mux.HandleFunc("POST /api/rooms/{room}/participants/{id}/finalize", s.handleFinalize)
	mux.HandleFunc("POST /api/rooms/{room}/end", s.handleEnd)
	mux.HandleFunc("GET /api/rooms/{room}/summaries", s.handleSummaries)
	mux.HandleFunc("GET /ws/rooms/{room}", s.handleSocket)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
