// Package service exposes the extraction and contract-screening pipeline
// over HTTP and MCP. It owns the request/response shapes; the pipeline
// itself knows nothing about transports.
package service

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/yurkit/docproc/doctext"
	"github.com/yurkit/docproc/journal"
)

// Service wires the pipeline, the analyzer and the journal behind HTTP
// handlers.
type Service struct {
	pipe         *doctext.Pipeline
	journal      *journal.Store // nil disables journaling
	logger       *slog.Logger
	passwordHash []byte // nil disables the auth gate
}

// New creates a Service. store may be nil to disable journaling.
func New(pipe *doctext.Pipeline, store *journal.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pipe:    pipe,
		journal: store,
		logger:  logger,
	}
}

// SetPassword enables the auth gate on processing endpoints. The password
// is kept only as a bcrypt hash.
func (s *Service) SetPassword(password string) error {
	if password == "" {
		s.passwordHash = nil
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.passwordHash = hash
	return nil
}

// RegisterHTTP registers the service endpoints on a chi router.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/process", s.handleProcess)
		r.Post("/process-n8n", s.handleProcessN8N)
		r.Get("/journal/recent", s.handleJournalRecent)
	})
}

// requireAuth rejects requests whose Basic Auth password doesn't match the
// configured hash. A service without a password runs open.
func (s *Service) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.passwordHash == nil {
			next.ServeHTTP(w, r)
			return
		}
		_, password, ok := r.BasicAuth()
		if !ok || bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="docproc"`)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
