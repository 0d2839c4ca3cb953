package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mockmate/interview"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError maps domain errors onto status codes. Anything unmapped
// is a generic 500; the detail stays in the log, not the response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, interview.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "email already registered")
	case errors.Is(err, interview.ErrSessionCompleted):
		writeMessage(w, http.StatusConflict, "session already completed")
	case errors.Is(err, interview.ErrVersionConflict):
		writeMessage(w, http.StatusConflict, "session was modified concurrently, retry")
	case errors.Is(err, interview.ErrNoQuestions):
		writeMessage(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode reads a JSON body into v. A malformed body is a client error.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
