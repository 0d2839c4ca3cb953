// Package httpapi exposes the interview services over HTTP. Handlers
// are thin: decode, call a service, map the error, encode.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/mockmate/interview"
	"github.com/mockmate/interview/auth"
	"github.com/mockmate/interview/media"
)

// Server wires the services to the route table.
type Server struct {
	store       interview.Store
	interviewer *interview.Interviewer
	tokens      *auth.Tokens
	uploader    media.Uploader
	logger      *slog.Logger
	mux         *http.ServeMux
}

// New builds the server and its routes.
func New(store interview.Store, interviewer *interview.Interviewer, tokens *auth.Tokens) *Server {
	s := &Server{
		store:       store,
		interviewer: interviewer,
		tokens:      tokens,
		uploader:    media.DisabledUploader{},
		logger:      slog.Default(),
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

// WithUploader replaces the default disabled uploader.
func (s *Server) WithUploader(uploader media.Uploader) *Server {
	s.uploader = uploader
	return s
}

// WithLogger replaces the default logger.
func (s *Server) WithLogger(logger *slog.Logger) *Server {
	s.logger = logger
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	s.mux.HandleFunc("GET /api/profile/me", s.authed(s.handleMe))
	s.mux.HandleFunc("PUT /api/profile", s.authed(s.handleUpdateProfile))
	s.mux.HandleFunc("PUT /api/profile/password", s.authed(s.handleChangePassword))

	s.mux.HandleFunc("POST /api/interview/setup", s.authed(s.handleCreateSetup))
	s.mux.HandleFunc("GET /api/interview/setup", s.authed(s.handleGetSetups))
	s.mux.HandleFunc("DELETE /api/interview/setup/{id}", s.authed(s.handleDeleteSetup))

	s.mux.HandleFunc("POST /api/interview/start", s.authed(s.handleStart))
	s.mux.HandleFunc("POST /api/interview/answer", s.authed(s.handleAnswer))
	s.mux.HandleFunc("POST /api/interview/finish", s.authed(s.handleFinish))
	s.mux.HandleFunc("POST /api/interview/generate-questions", s.authed(s.handleGenerateQuestions))
	s.mux.HandleFunc("POST /api/interview/emotion", s.authed(s.handleLogEmotion))
	s.mux.HandleFunc("POST /api/interview/video", s.authed(s.handleAttachVideo))

	s.mux.HandleFunc("GET /api/performance/summary", s.authed(s.handlePerformanceSummary))
}

// authed verifies the bearer token and passes the user ID through.
func (s *Server) authed(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token missing")
			return
		}

		userID, err := s.tokens.Verify(header[len(prefix):])
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authorized, token invalid")
			return
		}

		next(w, r, userID)
	}
}
