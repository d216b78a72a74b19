// Package server exposes the session over a local HTTP JSON API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avitaltamir/prettygit/internal/logging"
	"github.com/avitaltamir/prettygit/internal/preview"
	"github.com/avitaltamir/prettygit/internal/session"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	Logger  logging.Logger
	Preview *preview.Renderer
}

// Server routes HTTP requests to a single session.
type Server struct {
	sess    *session.Session
	preview *preview.Renderer
	log     logging.Logger
	mux     *http.ServeMux
}

// New creates a server for sess.
func New(sess *session.Session, opts Options) *Server {
	s := &Server{
		sess:    sess,
		preview: opts.Preview,
		log:     opts.Logger,
		mux:     http.NewServeMux(),
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	s.log = s.log.With("component", "http")
	if s.preview == nil {
		s.preview = preview.New(preview.Options{})
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/session", s.handleSession)
	s.mux.HandleFunc("GET /api/listing", s.handleListing)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("GET /api/repo", s.handleRepo)
	s.mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	s.mux.HandleFunc("POST /api/dirs/forward", s.handleForward)
	s.mux.HandleFunc("POST /api/dirs/backward", s.handleBackward)
	s.mux.HandleFunc("POST /api/dirs/redo", s.handleRedo)

	s.mux.HandleFunc("POST /api/git/init", s.handleInit)
	s.mux.HandleFunc("POST /api/git/add", s.handleAdd)
	s.mux.HandleFunc("POST /api/git/commit", s.handleCommit)
	s.mux.HandleFunc("POST /api/git/restore/{staged}", s.handleRestore)
	s.mux.HandleFunc("POST /api/git/rm/{cached}", s.handleRemove)
	s.mux.HandleFunc("POST /api/git/mv", s.handleMove)
	s.mux.HandleFunc("GET /api/git/branches", s.handleBranches)
	s.mux.HandleFunc("POST /api/git/branch", s.handleBranch)
	s.mux.HandleFunc("POST /api/git/merge", s.handleMerge)
	s.mux.HandleFunc("POST /api/git/clone", s.handleClone)
	s.mux.HandleFunc("GET /api/git/diff", s.handleDiff)

	s.mux.HandleFunc("GET /api/files/preview", s.handlePreview)
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.withRecover(s.mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
