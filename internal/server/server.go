// Package server implements the astrasemi HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/astrasemi/astrasemi/internal/analytics"
	"github.com/astrasemi/astrasemi/internal/config"
	"github.com/astrasemi/astrasemi/internal/glossary"
	"github.com/astrasemi/astrasemi/internal/model"
	"github.com/astrasemi/astrasemi/internal/notify"
)

// AIClient is the slice of the OpenAI client the handlers need. Kept as an
// interface so handler tests can stub the upstream.
type AIClient interface {
	Chat(ctx context.Context, system, user string) (string, error)
	AnalyzeImage(ctx context.Context, image, prompt string) (string, error)
}

// Server wires the API handlers to their dependencies.
type Server struct {
	cfg      config.Config
	ai       AIClient
	glossary *glossary.Index
	store    *analytics.Store
	hub      *notify.Hub
	mux      *http.ServeMux
}

// New builds a server. ai may be nil, in which case AI-backed endpoints
// answer 503.
func New(cfg config.Config, ai AIClient, ix *glossary.Index, store *analytics.Store, hub *notify.Hub) *Server {
	s := &Server{
		cfg:      cfg,
		ai:       ai,
		glossary: ix,
		store:    store,
		hub:      hub,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/activity", s.handleActivity)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)

	s.mux.HandleFunc("POST /api/analyze-csv", s.handleAnalyzeCSV)
	s.mux.HandleFunc("POST /api/interpret-text", s.handleInterpretText)
	s.mux.HandleFunc("POST /api/convert-text", s.handleConvertText)
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyzeImage)

	s.mux.HandleFunc("GET /api/glossary/search", s.handleGlossarySearch)
	s.mux.HandleFunc("GET /api/glossary/term/{id}", s.handleGlossaryTerm)
	s.mux.HandleFunc("POST /api/glossary/ai-explain", s.handleGlossaryExplain)
	s.mux.HandleFunc("POST /api/glossary/related-terms", s.handleGlossaryRelated)
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Printf("astrasemi listening on http://%s", s.cfg.Server.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("astrasemi http server: %w", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleActivity(w http.ResponseWriter, _ *http.Request) {
	sum, err := s.store.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read activity")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// record logs one operation outcome and surfaces it as a toast.
func (s *Server) record(category model.Category, title string, started time.Time, status model.Status) {
	elapsed := time.Since(started).Seconds()
	if _, err := s.store.Record(category, title, elapsed, status); err != nil {
		log.Printf("recording activity: %v", err)
	}
	text := fmt.Sprintf("%s completed", title)
	switch status {
	case model.StatusSuccess:
		s.hub.Success(text)
	case model.StatusWarning:
		s.hub.Warning(fmt.Sprintf("%s finished with warnings", title))
	default:
		s.hub.Error(fmt.Sprintf("%s failed", title))
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
