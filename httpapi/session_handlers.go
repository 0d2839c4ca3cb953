package httpapi

import (
	"net/http"
	"strings"

	"github.com/mockmate/interview"
)

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		SetupID string `json:"setupId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.SetupID == "" {
		writeMessage(w, http.StatusBadRequest, "setupId is required")
		return
	}

	result, err := s.interviewer.Start(r.Context(), userID, req.SetupID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		SessionID string `json:"sessionId"`
		Answer    string `json:"answer"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" || req.Answer == "" {
		writeMessage(w, http.StatusBadRequest, "sessionId and answer are required")
		return
	}

	result, err := s.interviewer.Answer(r.Context(), userID, req.SessionID, req.Answer)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeMessage(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	eval, err := s.interviewer.Finish(r.Context(), userID, req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		interview.Evaluation
	}{
		Message:    "Interview evaluated successfully",
		Evaluation: *eval,
	})
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		DesiredRole     string `json:"desiredRole"`
		Industry        string `json:"industry"`
		EducationLevel  string `json:"educationLevel"`
		ExperienceLevel string `json:"experienceLevel"`
	}
	if !decode(w, r, &req) {
		return
	}

	var override *interview.Setup
	if strings.TrimSpace(req.DesiredRole) != "" {
		override = &interview.Setup{
			UserID:          userID,
			DesiredRole:     req.DesiredRole,
			Industry:        req.Industry,
			EducationLevel:  req.EducationLevel,
			ExperienceLevel: req.ExperienceLevel,
		}
	}

	questions, err := s.interviewer.GenerateQuestions(r.Context(), userID, override)
	if err != nil {
		s.writeError(w, err)
		return
	}

	type questionItem struct {
		Question string `json:"question"`
	}
	items := make([]questionItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, questionItem{Question: q})
	}

	writeJSON(w, http.StatusOK, map[string][]questionItem{"questions": items})
}

func (s *Server) handleLogEmotion(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		SessionID        string  `json:"sessionId"`
		Emotion          string  `json:"emotion"`
		EyeContact       int     `json:"eyeContact"`
		FacialExpression int     `json:"facialExpression"`
		Gestures         int     `json:"gestures"`
		Time             float64 `json:"time"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		writeMessage(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	sample := interview.EmotionSample{
		Time:             req.Time,
		Emotion:          req.Emotion,
		EyeContact:       req.EyeContact,
		FacialExpression: req.FacialExpression,
		Gestures:         req.Gestures,
	}
	if err := s.interviewer.LogEmotion(r.Context(), req.SessionID, sample); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAttachVideo(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		SessionID string `json:"sessionId"`
		LocalPath string `json:"localPath"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" || req.LocalPath == "" {
		writeMessage(w, http.StatusBadRequest, "sessionId and localPath are required")
		return
	}

	result := s.uploader.Upload(r.Context(), req.LocalPath)
	if result.Disabled {
		writeJSON(w, http.StatusOK, map[string]any{
			"error":     true,
			"message":   "upload disabled, video kept locally",
			"localPath": result.LocalPath,
		})
		return
	}

	if err := s.interviewer.AttachVideo(r.Context(), req.SessionID, result.URL); err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"videoUrl": result.URL})
}

func (s *Server) handlePerformanceSummary(w http.ResponseWriter, r *http.Request, userID string) {
	summary, err := s.interviewer.PerformanceSummary(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "summary": summary})
}
