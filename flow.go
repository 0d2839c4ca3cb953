package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// fallbackQuestions is the deterministic question set used when the
// gateway cannot produce any questions at session start. Starting an
// interview must not fail just because the AI is down.
var fallbackQuestions = []string{
	"Tell me about yourself.",
	"Why do you want this role?",
	"Describe a challenging problem you solved recently.",
}

// generateQuestionCount is the fixed output size of the standalone
// question-generation operation, regardless of any client-supplied
// count.
const generateQuestionCount = 7

// degradedSummary marks an evaluation whose JSON could not be parsed.
const degradedSummary = "AI evaluation failed to parse"

// Interviewer owns the interview session lifecycle:
// Start -> Answer* -> Finish.
type Interviewer struct {
	store     Store
	completer Completer
	generator *QuestionGenerator
	logger    *slog.Logger
}

// NewInterviewer creates the session service.
func NewInterviewer(store Store, completer Completer, generator *QuestionGenerator) *Interviewer {
	return &Interviewer{
		store:     store,
		completer: completer,
		generator: generator,
		logger:    slog.Default(),
	}
}

// WithLogger replaces the default logger.
func (iv *Interviewer) WithLogger(logger *slog.Logger) *Interviewer {
	iv.logger = logger
	return iv
}

// StartResult is returned by Start.
type StartResult struct {
	SessionID      string `json:"sessionId"`
	Question       string `json:"question"`
	TotalQuestions int    `json:"totalQuestions"`
}

// AnswerResult is returned by Answer. When Done is true the remaining
// fields are zero.
type AnswerResult struct {
	Done         bool   `json:"done"`
	NextQuestion string `json:"nextQuestion,omitempty"`
	Current      int    `json:"current,omitempty"`
	Total        int    `json:"total,omitempty"`
}

// Start creates a session from a stored setup, pre-generating the full
// question list. If generation fails entirely, the session is built
// from the fallback set instead of failing the request.
func (iv *Interviewer) Start(ctx context.Context, userID, setupID string) (*StartResult, error) {
	setup, err := iv.store.GetSetup(ctx, setupID)
	if err != nil {
		return nil, err
	}

	questions, err := iv.generator.Generate(ctx, setup.DesiredRole, setup.ExperienceLevel)
	if err != nil {
		iv.logger.Warn("question generation failed, using fallback set",
			"setup_id", setupID, "error", err)
		questions = fallbackQuestions
	}

	now := time.Now()
	session := &Session{
		ID:             uuid.New().String(),
		UserID:         userID,
		SetupID:        setupID,
		Questions:      make([]QuestionAnswer, 0, len(questions)),
		TotalQuestions: len(questions),
	}
	for _, q := range questions {
		session.Questions = append(session.Questions, QuestionAnswer{Question: q, AskedAt: now})
	}

	if err := iv.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &StartResult{
		SessionID:      session.ID,
		Question:       session.Questions[0].Question,
		TotalQuestions: session.TotalQuestions,
	}, nil
}

// Answer records the answer to the current question and advances the
// session. The write is version-guarded: a concurrent Answer on the
// same session loses with ErrVersionConflict instead of silently
// overwriting.
func (iv *Interviewer) Answer(ctx context.Context, userID, sessionID, answer string) (*AnswerResult, error) {
	session, err := iv.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrNotFound
	}
	if session.Completed {
		return nil, ErrSessionCompleted
	}

	session.Questions[session.CurrentIndex].Answer = answer
	session.CurrentIndex++

	if session.CurrentIndex >= session.TotalQuestions {
		session.Completed = true
		if err := iv.store.UpdateSession(ctx, session); err != nil {
			return nil, err
		}
		return &AnswerResult{Done: true}, nil
	}

	if err := iv.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AnswerResult{
		Done:         false,
		NextQuestion: session.Questions[session.CurrentIndex].Question,
		Current:      session.CurrentIndex + 1,
		Total:        session.TotalQuestions,
	}, nil
}

// Finish evaluates the session transcript and stores the result.
// Repeated calls return the stored evaluation without re-running the
// model. Upstream and parse failures degrade to a zero-filled
// evaluation; Finish does not fail on them.
func (iv *Interviewer) Finish(ctx context.Context, userID, sessionID string) (*Evaluation, error) {
	session, err := iv.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrNotFound
	}
	if session.Evaluated {
		eval := session.Evaluation
		return &eval, nil
	}

	res := iv.completer.Complete(ctx, UserMessage(evaluationPrompt(transcript(session))))
	eval := parseEvaluation(res)

	session.Evaluation = eval
	session.Evaluated = true
	session.Completed = true

	if err := iv.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &eval, nil
}

// GenerateQuestions produces a standalone question set, using the
// override setup when provided or falling back to the user's latest
// stored setup. Output size is fixed.
func (iv *Interviewer) GenerateQuestions(ctx context.Context, userID string, override *Setup) ([]string, error) {
	setup := override
	if setup == nil || setup.DesiredRole == "" {
		stored, err := iv.store.LatestSetup(ctx, userID)
		if err != nil {
			return nil, err
		}
		setup = stored
	}

	return iv.generator.GenerateCount(ctx, setup.DesiredRole, generateQuestionCount)
}

// LogEmotion appends a body-language sample to the session timeline.
func (iv *Interviewer) LogEmotion(ctx context.Context, sessionID string, sample EmotionSample) error {
	session, err := iv.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	session.EmotionTimeline = append(session.EmotionTimeline, sample)
	return iv.store.UpdateSession(ctx, session)
}

// AttachVideo records the uploaded recording location on the session.
func (iv *Interviewer) AttachVideo(ctx context.Context, sessionID, url string) error {
	session, err := iv.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	session.VideoURL = url
	return iv.store.UpdateSession(ctx, session)
}

// PerformanceSummary aggregates the user's completed sessions.
func (iv *Interviewer) PerformanceSummary(ctx context.Context, userID string) (*PerformanceSummary, error) {
	return iv.store.PerformanceSummary(ctx, userID)
}

// transcript flattens a session into "Q{n}: ...\nA{n}: ...\n\n" pairs.
func transcript(session *Session) string {
	var b strings.Builder
	for i, qa := range session.Questions {
		fmt.Fprintf(&b, "Q%d: %s\nA%d: %s\n\n", i+1, qa.Question, i+1, qa.Answer)
	}
	return b.String()
}

func evaluationPrompt(transcript string) string {
	return fmt.Sprintf(`Evaluate the following interview transcript and provide structured scoring.

Return ONLY pure JSON in this format:

{
  "technicalAccuracy": number(0-100),
  "completeness": number(0-100),
  "conciseness": number(0-100),
  "problemSolving": number(0-100),
  "summary": "string"
}

Transcript:
%s`, transcript)
}

// evaluationJSON tolerates models returning fractional scores; they
// are rounded into the integer Evaluation fields.
type evaluationJSON struct {
	TechnicalAccuracy float64 `json:"technicalAccuracy"`
	Completeness      float64 `json:"completeness"`
	Conciseness       float64 `json:"conciseness"`
	ProblemSolving    float64 `json:"problemSolving"`
	Summary           string  `json:"summary"`
}

// parseEvaluation turns a gateway result into an Evaluation. The
// fallback chain is explicit: direct JSON parse, then the first JSON
// object substring, then a zero-filled record. It never fails.
func parseEvaluation(res ChatResult) Evaluation {
	if !res.OK {
		return Evaluation{Summary: "AI unavailable: " + res.ErrMessage}
	}

	var raw evaluationJSON
	if err := json.Unmarshal([]byte(res.Text), &raw); err == nil {
		return clampEvaluation(raw)
	}

	if obj, ok := firstJSONObject(res.Text); ok {
		if err := json.Unmarshal([]byte(obj), &raw); err == nil {
			return clampEvaluation(raw)
		}
	}

	return Evaluation{Summary: degradedSummary}
}

// firstJSONObject locates the outermost {...} substring in free-form
// model output, for responses that wrap JSON in prose or code fences.
func firstJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func clampEvaluation(raw evaluationJSON) Evaluation {
	return Evaluation{
		TechnicalAccuracy: clampScore(raw.TechnicalAccuracy),
		Completeness:      clampScore(raw.Completeness),
		Conciseness:       clampScore(raw.Conciseness),
		ProblemSolving:    clampScore(raw.ProblemSolving),
		Summary:           raw.Summary,
	}
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}
