// Package server is the web front end: the form, the session page, the
// arena trigger and a JSON view of the session state.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightdeck/internal/common/config"
	apperrors "flightdeck/internal/common/errors"
	"flightdeck/internal/common/logger"
	"flightdeck/internal/orchestrator"
	"flightdeck/internal/session"
	"flightdeck/internal/view"
)

const (
	maxInputBytes   = 1 << 20
	shutdownTimeout = 30 * time.Second
	sweepInterval   = time.Minute
)

type Server struct {
	cfg      config.ServerConfig
	sessions *session.Manager
	logger   logger.Logger

	// runCtx outlives the request so chains keep running after the
	// redirect; cancelled on shutdown.
	runCtx    context.Context
	cancelRun context.CancelFunc
	wg        sync.WaitGroup
}

func New(cfg config.ServerConfig, sessions *session.Manager, log logger.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:       cfg,
		sessions:  sessions,
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
		runCtx:    ctx,
		cancelRun: cancel,
	}
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("GET /s/{id}", s.handleSession)
	mux.HandleFunc("POST /s/{id}/arena", s.handleArena)
	mux.HandleFunc("GET /s/{id}/state", s.handleState)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sessions.RunSweeper(s.runCtx, sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.stop()
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received, stopping http server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.stop()
	return err
}

func (s *Server) stop() {
	s.cancelRun()
	s.sessions.Close()
	s.wg.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, view.Build("", orchestrator.State{}))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInputBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	input := r.PostForm.Get("input")
	if strings.TrimSpace(input) == "" {
		page := view.Build("", orchestrator.State{Input: input})
		page.Error = apperrors.UserMessage(apperrors.NewEmptyInputError())
		s.renderPage(w, http.StatusUnprocessableEntity, page)
		return
	}

	id, ctrl, err := s.sessions.Create(r.Context())
	if err != nil {
		s.logger.Error("failed to create session", map[string]interface{}{"error": err.Error()})
		http.Error(w, "session store unavailable", http.StatusServiceUnavailable)
		return
	}

	done, err := ctrl.SubmitAsync(s.runCtx, input)
	if err != nil {
		s.logger.Error("failed to start submission", map[string]interface{}{
			"sessionId": id,
			"error":     err.Error(),
		})
		if derr := s.sessions.Discard(r.Context(), id); derr != nil {
			s.logger.Warn("failed to discard session", map[string]interface{}{
				"sessionId": id,
				"error":     derr.Error(),
			})
		}
		http.Error(w, "submission rejected", http.StatusServiceUnavailable)
		return
	}
	s.track(done)

	http.Redirect(w, r, "/s/"+id, http.StatusSeeOther)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctrl, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.sessionError(w, id, err, false)
		return
	}
	s.renderPage(w, http.StatusOK, view.Build(id, ctrl.Snapshot()))
}

func (s *Server) handleArena(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctrl, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.sessionError(w, id, err, false)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxInputBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	done, err := ctrl.StartArenaAsync(s.runCtx, r.PostForm.Get("input"))
	if err != nil {
		page := view.Build(id, ctrl.Snapshot())
		page.Error = apperrors.UserMessage(err)
		s.renderPage(w, http.StatusConflict, page)
		return
	}
	s.track(done)

	http.Redirect(w, r, "/s/"+id, http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctrl, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.sessionError(w, id, err, true)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	err := s.sessions.Ping(ctx)
	var stored int
	if err == nil {
		stored, err = s.sessions.Stored(ctx)
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
			"time":   time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
		"sessions": map[string]int{
			"live":   s.sessions.Live(),
			"stored": stored,
		},
	})
}

func (s *Server) sessionError(w http.ResponseWriter, id string, err error, asJSON bool) {
	status := http.StatusNotFound
	if !apperrors.Is(err, apperrors.ErrCodeSessionNotFound) {
		status = http.StatusInternalServerError
		s.logger.Error("failed to load session", map[string]interface{}{
			"sessionId": id,
			"error":     err.Error(),
		})
	}

	if asJSON {
		writeJSON(w, status, map[string]string{
			"code":    string(apperrors.CodeOf(err)),
			"message": apperrors.UserMessage(err),
		})
		return
	}

	page := view.Build("", orchestrator.State{})
	page.Error = apperrors.UserMessage(err)
	s.renderPage(w, status, page)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.Render(w, page); err != nil {
		s.logger.Error("failed to render page", map[string]interface{}{"error": err.Error()})
	}
}

// track keeps shutdown waiting for a background run.
func (s *Server) track(done <-chan struct{}) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		<-done
	}()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
