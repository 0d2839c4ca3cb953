package httpapi

import (
	"net/http"
	"strings"

	"github.com/mockmate/interview"
)

func (s *Server) handleCreateSetup(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		DesiredRole     string `json:"desiredRole"`
		Industry        string `json:"industry"`
		EducationLevel  string `json:"educationLevel"`
		ExperienceLevel string `json:"experienceLevel"`
	}
	if !decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.DesiredRole) == "" {
		writeMessage(w, http.StatusBadRequest, "desiredRole is required")
		return
	}
	if strings.TrimSpace(req.ExperienceLevel) == "" {
		writeMessage(w, http.StatusBadRequest, "experienceLevel is required")
		return
	}

	setup := &interview.Setup{
		UserID:          userID,
		DesiredRole:     req.DesiredRole,
		Industry:        req.Industry,
		EducationLevel:  req.EducationLevel,
		ExperienceLevel: req.ExperienceLevel,
	}
	if err := s.store.CreateSetup(r.Context(), setup); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]*interview.Setup{"setup": setup})
}

func (s *Server) handleGetSetups(w http.ResponseWriter, r *http.Request, userID string) {
	if r.URL.Query().Get("latest") == "true" {
		setup, err := s.store.LatestSetup(r.Context(), userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]*interview.Setup{"setup": setup})
		return
	}

	setups, err := s.store.ListSetups(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]interview.Setup{"setups": setups})
}

func (s *Server) handleDeleteSetup(w http.ResponseWriter, r *http.Request, userID string) {
	id := r.PathValue("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "setup ID is required")
		return
	}

	// Setups are user-scoped; deleting someone else's is a 404.
	setup, err := s.store.GetSetup(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if setup.UserID != userID {
		s.writeError(w, interview.ErrNotFound)
		return
	}

	if err := s.store.DeleteSetup(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully", "id": id})
}
