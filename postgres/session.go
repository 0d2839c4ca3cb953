package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mockmate/interview"
)

// CreateSession inserts a new session with Version 1. The question
// list and emotion timeline are stored as JSONB documents.
func (s *PGStore) CreateSession(ctx context.Context, session *interview.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("interview: marshal questions: %w", err)
	}
	timeline, err := json.Marshal(session.EmotionTimeline)
	if err != nil {
		return fmt.Errorf("interview: marshal emotion timeline: %w", err)
	}

	session.Version = 1
	err = s.db.QueryRow(ctx,
		`INSERT INTO sessions (
			id, user_id, setup_id, questions, current_index, total_questions,
			is_completed, evaluated, technical_accuracy, completeness, conciseness,
			problem_solving, ai_summary, video_url, emotion_timeline, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`,
		session.ID, session.UserID, session.SetupID, questions, session.CurrentIndex,
		session.TotalQuestions, session.Completed, session.Evaluated,
		session.Evaluation.TechnicalAccuracy, session.Evaluation.Completeness,
		session.Evaluation.Conciseness, session.Evaluation.ProblemSolving,
		session.Evaluation.Summary, session.VideoURL, timeline, session.Version,
	).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("interview: create session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID.
func (s *PGStore) GetSession(ctx context.Context, sessionID string) (*interview.Session, error) {
	session := &interview.Session{ID: sessionID}
	var questions, timeline []byte

	err := s.db.QueryRow(ctx,
		`SELECT user_id, setup_id, questions, current_index, total_questions,
		        is_completed, evaluated, technical_accuracy, completeness, conciseness,
		        problem_solving, ai_summary, video_url, emotion_timeline, version,
		        created_at, updated_at
		 FROM sessions WHERE id = $1`,
		sessionID,
	).Scan(&session.UserID, &session.SetupID, &questions, &session.CurrentIndex,
		&session.TotalQuestions, &session.Completed, &session.Evaluated,
		&session.Evaluation.TechnicalAccuracy, &session.Evaluation.Completeness,
		&session.Evaluation.Conciseness, &session.Evaluation.ProblemSolving,
		&session.Evaluation.Summary, &session.VideoURL, &timeline, &session.Version,
		&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, func(err error) error {
			return fmt.Errorf("interview: get session: %w", err)
		})
	}

	if err := json.Unmarshal(questions, &session.Questions); err != nil {
		return nil, fmt.Errorf("interview: unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(timeline, &session.EmotionTimeline); err != nil {
		return nil, fmt.Errorf("interview: unmarshal emotion timeline: %w", err)
	}

	return session, nil
}

// UpdateSession persists session mutations with a version guard: the
// write applies only when the stored version matches session.Version.
// A stale version fails with interview.ErrVersionConflict so that
// concurrent read-modify-write cycles cannot lose updates.
func (s *PGStore) UpdateSession(ctx context.Context, session *interview.Session) error {
	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("interview: marshal questions: %w", err)
	}
	timeline, err := json.Marshal(session.EmotionTimeline)
	if err != nil {
		return fmt.Errorf("interview: marshal emotion timeline: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`UPDATE sessions
		 SET questions = $3, current_index = $4, total_questions = $5,
		     is_completed = $6, evaluated = $7, technical_accuracy = $8,
		     completeness = $9, conciseness = $10, problem_solving = $11,
		     ai_summary = $12, video_url = $13, emotion_timeline = $14,
		     version = version + 1, updated_at = NOW()
		 WHERE id = $1 AND version = $2
		 RETURNING version, updated_at`,
		session.ID, session.Version, questions, session.CurrentIndex,
		session.TotalQuestions, session.Completed, session.Evaluated,
		session.Evaluation.TechnicalAccuracy, session.Evaluation.Completeness,
		session.Evaluation.Conciseness, session.Evaluation.ProblemSolving,
		session.Evaluation.Summary, session.VideoURL, timeline,
	).Scan(&session.Version, &session.UpdatedAt)
	if err == nil {
		return nil
	}
	if err != pgx.ErrNoRows {
		return fmt.Errorf("interview: update session: %w", err)
	}

	// Zero rows: missing session or stale version.
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)`, session.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("interview: update session: %w", err)
	}
	if !exists {
		return interview.ErrNotFound
	}
	return interview.ErrVersionConflict
}
