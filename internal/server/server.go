// Package server exposes the screening pipeline over HTTP, together with the
// embedded single-page UI that drives it.
package server

import (
	"context"
	"net/http"
	"time"

	_ "embed"

	"github.com/hrsuite/ats-scanner/internal/ai"
	"github.com/hrsuite/ats-scanner/internal/mailer"
	"github.com/hrsuite/ats-scanner/internal/session"
	"go.uber.org/zap"
)

//go:embed web/index.html
var indexPage []byte

const (
	sessionCookie  = "ats_session"
	maxUploadBytes = 10 << 20

	readHeaderTimeout = 10 * time.Second
	// LLM calls happen while the response is pending, so the write timeout
	// needs generous headroom.
	writeTimeout = 3 * time.Minute
)

// Screener scores a resume against a job description.
type Screener interface {
	Match(ctx context.Context, resumeText, jobDescription string) (*ai.MatchResult, error)
}

// Assessor generates a skills assessment for a job description.
type Assessor interface {
	Generate(ctx context.Context, jobDescription string, matched []string) (*ai.Assessment, error)
}

// Sender submits a rendered email draft.
type Sender interface {
	Send(ctx context.Context, draft mailer.Draft) error
}

// Config holds the HTTP server settings.
type Config struct {
	Listen     string
	SessionTTL time.Duration
}

// Server wires the pipeline stages behind the JSON API.
type Server struct {
	cfg      Config
	logger   *zap.Logger
	screener Screener
	assessor Assessor
	sender   Sender
	sessions *session.Store
}

func New(cfg Config, logger *zap.Logger, screener Screener, assessor Assessor, sender Sender) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		cfg:      cfg,
		logger:   logger,
		screener: screener,
		assessor: assessor,
		sender:   sender,
		sessions: session.NewStore(cfg.SessionTTL),
	}
}

// Handler returns the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("POST /api/scan", s.handleScan)
	mux.HandleFunc("POST /api/assessment", s.handleAssessment)
	mux.HandleFunc("GET /api/email/preview", s.handleEmailPreview)
	mux.HandleFunc("POST /api/email/send", s.handleEmailSend)

	return mux
}

// ListenAndServe blocks serving the API until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	return srv.ListenAndServe()
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// session returns the session addressed by the request cookie, creating one
// (and setting the cookie) when absent or expired.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Session {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(cookie.Value); ok {
			return sess
		}
	}

	sess := s.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sess
}
