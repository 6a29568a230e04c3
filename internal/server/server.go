// Package server exposes the session operations over HTTP and serves the
// embedded single-page UI. It is a thin dispatch layer: every endpoint maps
// onto exactly one orchestrator operation.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/0x6d61/websentry/internal/engine"
)

//go:embed index.html
var staticFiles embed.FS

// Server is the HTTP front end for the orchestrator.
type Server struct {
	orch   *engine.Orchestrator
	logger zerolog.Logger
	srv    *http.Server
}

// New creates a server listening on addr.
func New(orch *engine.Orchestrator, addr string, logger zerolog.Logger) *Server {
	s := &Server{orch: orch, logger: logger}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed HTTP handler (exposed for tests).
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /api/session/init", s.handleInit)
	mux.HandleFunc("POST /api/scan", s.handleScan)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/history", s.handleHistory)
	return s.cors(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.srv.Addr).Msg("http server listening")
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

// cors applies the permissive CORS policy of the public scan UI and
// answers preflight requests.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

type initResponse struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.New().String()
	if err := s.orch.InitSession(r.Context(), sessionID); err != nil {
		s.fail(w, "init session", err)
		return
	}
	s.writeJSON(w, initResponse{SessionID: sessionID})
}

type scanRequest struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if !s.decode(w, r, &req) {
		return
	}

	rec, err := s.orch.Scan(r.Context(), req.SessionID, req.URL)
	if err != nil {
		s.fail(w, "scan", err)
		return
	}
	s.writeJSON(w, rec)
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp, err := s.orch.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.fail(w, "chat", err)
		return
	}
	s.writeJSON(w, chatResponse{Response: resp})
}

type historyRequest struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if !s.decode(w, r, &req) {
		return
	}

	state, err := s.orch.History(r.Context(), req.SessionID)
	if err != nil {
		s.fail(w, "history", err)
		return
	}
	s.writeJSON(w, state)
}

// decode parses the JSON request body. It writes a 400 and returns false on
// malformed JSON; absent fields are accepted as empty values.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("write response")
	}
}

// fail reports a storage-level failure. Augmentation failures never reach
// here; they degrade to fallback text inside the pipeline.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error().Err(err).Str("op", op).Msg("operation failed")
	http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
}
