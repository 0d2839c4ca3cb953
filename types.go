package interview

import "time"

// User is a registered account.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DOB          *time.Time `json:"dob,omitempty"`
	Citizenship  string     `json:"citizenship,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Setup is a pre-interview configuration snapshot. It is created once
// and never mutated; sessions reference it by ID.
type Setup struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	DesiredRole     string    `json:"desired_role"`
	Industry        string    `json:"industry,omitempty"`
	EducationLevel  string    `json:"education_level,omitempty"`
	ExperienceLevel string    `json:"experience_level"`
	CreatedAt       time.Time `json:"created_at"`
}

// QuestionAnswer is one slot in a session's question list. Answer is
// empty until the candidate responds.
type QuestionAnswer struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Evaluation holds the AI scoring of a completed session. All score
// fields are in [0,100]. Zero values with a non-empty Summary indicate
// a degraded evaluation (upstream or parse failure).
type Evaluation struct {
	TechnicalAccuracy int    `json:"technicalAccuracy"`
	Completeness      int    `json:"completeness"`
	Conciseness       int    `json:"conciseness"`
	ProblemSolving    int    `json:"problemSolving"`
	Summary           string `json:"summary"`
}

// EmotionSample is one frontend-reported body-language observation.
type EmotionSample struct {
	Time             float64 `json:"time"`
	Emotion          string  `json:"emotion"`
	EyeContact       int     `json:"eye_contact"`
	FacialExpression int     `json:"facial_expression"`
	Gestures         int     `json:"gestures"`
}

// Session is one practice interview attempt.
//
// Questions is append-only before completion. CurrentIndex points at
// the question awaiting an answer. Version increments on every store
// update and guards against concurrent lost updates.
type Session struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	SetupID         string           `json:"setup_id"`
	Questions       []QuestionAnswer `json:"questions"`
	CurrentIndex    int              `json:"current_index"`
	TotalQuestions  int              `json:"total_questions"`
	Completed       bool             `json:"is_completed"`
	Evaluation      Evaluation       `json:"evaluation"`
	Evaluated       bool             `json:"evaluated"`
	VideoURL        string           `json:"video_url,omitempty"`
	EmotionTimeline []EmotionSample  `json:"emotion_timeline,omitempty"`
	Version         int64            `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ChatLog records one gateway attempt against one model, for auditing
// the fallback loop.
type ChatLog struct {
	ID         string    `json:"id"`
	Model      string    `json:"model"`
	PromptLen  int       `json:"prompt_len"`
	Status     string    `json:"status"`
	ErrMessage string    `json:"error_message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Chat log statuses.
const (
	ChatStatusOK     = "ok"
	ChatStatusFailed = "failed"
)

// PerformanceSummary aggregates a user's completed, evaluated sessions.
type PerformanceSummary struct {
	UserID               string `json:"user_id"`
	InterviewsCompleted  int    `json:"interviews_completed"`
	AvgTechnicalAccuracy int    `json:"technical_accuracy"`
	AvgCompleteness      int    `json:"completeness"`
	AvgConciseness       int    `json:"conciseness"`
	AvgProblemSolving    int    `json:"problem_solving"`
	OverallScore         int    `json:"overall_score"`
}
