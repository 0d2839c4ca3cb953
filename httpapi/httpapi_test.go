package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mockmate/interview"
	"github.com/mockmate/interview/auth"
	"github.com/mockmate/interview/httpapi"
	"github.com/mockmate/interview/memstore"
)

// listCompleter answers question-generation prompts with unique
// numbered lines and evaluation prompts with a fixed JSON score.
type listCompleter struct {
	next int
}

func (c *listCompleter) Complete(ctx context.Context, messages []interview.ChatMessage) interview.ChatResult {
	prompt := messages[len(messages)-1].Content
	if strings.Contains(prompt, "transcript") {
		return interview.ChatResult{
			OK: true,
			Text: `{"technicalAccuracy": 82, "completeness": 70, "conciseness": 65,
				"problemSolving": 88, "summary": "Good structure, shallow on internals."}`,
			Model: "test",
		}
	}

	var b strings.Builder
	for i := 0; i < 12; i++ {
		c.next++
		fmt.Fprintf(&b, "%d. What is concept number %d for this role?\n", i+1, c.next)
	}
	return interview.ChatResult{OK: true, Text: b.String(), Model: "test"}
}

// downCompleter simulates a missing credential or dead upstream.
type downCompleter struct{}

func (downCompleter) Complete(ctx context.Context, messages []interview.ChatMessage) interview.ChatResult {
	return interview.ChatResult{OK: false, ErrMessage: "missing API key"}
}

func newTestServer(t *testing.T, completer interview.Completer) *httptest.Server {
	t.Helper()

	store := memstore.New()
	generator := interview.NewQuestionGenerator(completer)
	interviewer := interview.NewInterviewer(store, completer, generator)
	server := httpapi.New(store, interviewer, auth.NewTokens("test-secret"))

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// call sends a JSON request and decodes the JSON response into out.
func call(t *testing.T, ts *httptest.Server, method, path, token string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response from %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func register(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	var res struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	status := call(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Dana",
		"email":    "dana@example.com",
		"password": "hunter22",
	}, &res)
	if status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", status)
	}
	if res.Token == "" {
		t.Fatal("register: expected a token")
	}
	return res.Token
}

func createSetup(t *testing.T, ts *httptest.Server, token, role, level string) string {
	t.Helper()

	var res struct {
		Setup struct {
			ID string `json:"id"`
		} `json:"setup"`
	}
	status := call(t, ts, http.MethodPost, "/api/interview/setup", token, map[string]string{
		"desiredRole":     role,
		"experienceLevel": level,
	}, &res)
	if status != http.StatusCreated {
		t.Fatalf("create setup: expected 201, got %d", status)
	}
	return res.Setup.ID
}

func TestInterviewEndToEnd(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &listCompleter{})
	token := register(t, ts)
	setupID := createSetup(t, ts, token, "Backend Engineer", "entry level")

	var start struct {
		SessionID      string `json:"sessionId"`
		Question       string `json:"question"`
		TotalQuestions int    `json:"totalQuestions"`
	}
	status := call(t, ts, http.MethodPost, "/api/interview/start", token,
		map[string]string{"setupId": setupID}, &start)
	if status != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", status)
	}
	if start.TotalQuestions != 7 {
		t.Fatalf("entry level should yield 7 questions, got %d", start.TotalQuestions)
	}
	if start.Question == "" {
		t.Fatal("start: expected the first question")
	}

	for i := 0; i < start.TotalQuestions; i++ {
		var answer struct {
			Done         bool   `json:"done"`
			NextQuestion string `json:"nextQuestion"`
			Current      int    `json:"current"`
			Total        int    `json:"total"`
		}
		status := call(t, ts, http.MethodPost, "/api/interview/answer", token,
			map[string]string{"sessionId": start.SessionID, "answer": "N/A"}, &answer)
		if status != http.StatusOK {
			t.Fatalf("answer %d: expected 200, got %d", i+1, status)
		}

		last := i == start.TotalQuestions-1
		if answer.Done != last {
			t.Fatalf("answer %d: done = %v", i+1, answer.Done)
		}
		if !last && (answer.NextQuestion == "" || answer.Current != i+2) {
			t.Fatalf("answer %d: unexpected progression %+v", i+1, answer)
		}
	}

	// Answering past the end is a conflict.
	status = call(t, ts, http.MethodPost, "/api/interview/answer", token,
		map[string]string{"sessionId": start.SessionID, "answer": "one more"}, nil)
	if status != http.StatusConflict {
		t.Fatalf("answer after completion: expected 409, got %d", status)
	}

	var finish struct {
		Message           string `json:"message"`
		TechnicalAccuracy int    `json:"technicalAccuracy"`
		Completeness      int    `json:"completeness"`
		Conciseness       int    `json:"conciseness"`
		ProblemSolving    int    `json:"problemSolving"`
		Summary           string `json:"summary"`
	}
	status = call(t, ts, http.MethodPost, "/api/interview/finish", token,
		map[string]string{"sessionId": start.SessionID}, &finish)
	if status != http.StatusOK {
		t.Fatalf("finish: expected 200, got %d", status)
	}
	if finish.TechnicalAccuracy != 82 || finish.ProblemSolving != 88 {
		t.Fatalf("unexpected evaluation: %+v", finish)
	}
	if finish.Summary == "" {
		t.Fatal("finish: expected a summary")
	}

	var perf struct {
		Success bool `json:"success"`
		Summary struct {
			InterviewsCompleted int `json:"interviews_completed"`
			OverallScore        int `json:"overall_score"`
		} `json:"summary"`
	}
	status = call(t, ts, http.MethodGet, "/api/performance/summary", token, nil, &perf)
	if status != http.StatusOK {
		t.Fatalf("performance: expected 200, got %d", status)
	}
	if perf.Summary.InterviewsCompleted != 1 {
		t.Fatalf("expected 1 completed interview, got %d", perf.Summary.InterviewsCompleted)
	}
	if perf.Summary.OverallScore == 0 {
		t.Fatal("expected a non-zero overall score")
	}
}

func TestStartWithoutGatewayUsesFallback(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, downCompleter{})
	token := register(t, ts)
	setupID := createSetup(t, ts, token, "Backend Engineer", "entry level")

	var start struct {
		SessionID      string `json:"sessionId"`
		Question       string `json:"question"`
		TotalQuestions int    `json:"totalQuestions"`
	}
	status := call(t, ts, http.MethodPost, "/api/interview/start", token,
		map[string]string{"setupId": setupID}, &start)
	if status != http.StatusOK {
		t.Fatalf("start must not fail when the gateway is down, got %d", status)
	}
	if start.Question != "Tell me about yourself." {
		t.Fatalf("expected the fallback opener, got %q", start.Question)
	}
}

func TestGenerateQuestionsFixedCount(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &listCompleter{})
	token := register(t, ts)

	var res struct {
		Questions []struct {
			Question string `json:"question"`
		} `json:"questions"`
	}
	status := call(t, ts, http.MethodPost, "/api/interview/generate-questions", token,
		map[string]string{"desiredRole": "Data Scientist", "experienceLevel": "senior level"}, &res)
	if status != http.StatusOK {
		t.Fatalf("generate-questions: expected 200, got %d", status)
	}
	if len(res.Questions) != 7 {
		t.Fatalf("expected 7 questions, got %d", len(res.Questions))
	}
	for _, q := range res.Questions {
		if q.Question == "" {
			t.Fatal("empty question in response")
		}
	}
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &listCompleter{})

	status := call(t, ts, http.MethodGet, "/api/profile/me", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", status)
	}

	status = call(t, ts, http.MethodGet, "/api/profile/me", "not-a-real-token", nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", status)
	}
}

func TestLoginAndProfile(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &listCompleter{})
	register(t, ts)

	status := call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "dana@example.com",
		"password": "wrong-pass",
	}, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", status)
	}

	var login struct {
		Token string `json:"token"`
	}
	status = call(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "Dana@Example.com", // email lookup is case-insensitive
		"password": "hunter22",
	}, &login)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}

	var me struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	status = call(t, ts, http.MethodGet, "/api/profile/me", login.Token, nil, &me)
	if status != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", status)
	}
	if me.User.Email != "dana@example.com" {
		t.Fatalf("unexpected profile email %q", me.User.Email)
	}
}

func TestSetupOwnership(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &listCompleter{})
	owner := register(t, ts)
	setupID := createSetup(t, ts, owner, "Backend Engineer", "mid level")

	var other struct {
		Token string `json:"token"`
	}
	status := call(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Sam",
		"email":    "sam@example.com",
		"password": "hunter22",
	}, &other)
	if status != http.StatusCreated {
		t.Fatalf("second register: expected 201, got %d", status)
	}

	status = call(t, ts, http.MethodDelete, "/api/interview/setup/"+setupID, other.Token, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("foreign setup delete: expected 404, got %d", status)
	}

	status = call(t, ts, http.MethodDelete, "/api/interview/setup/"+setupID, owner, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", status)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &listCompleter{})

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing fields", map[string]string{"name": "Dana"}},
		{"bad email", map[string]string{"name": "Dana", "email": "not-an-email", "password": "hunter22"}},
		{"short password", map[string]string{"name": "Dana", "email": "dana@example.com", "password": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status := call(t, ts, http.MethodPost, "/api/auth/register", "", tt.body, nil)
			if status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", status)
			}
		})
	}
}

func TestDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &listCompleter{})
	register(t, ts)

	status := call(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Dana Again",
		"email":    "dana@example.com",
		"password": "hunter22",
	}, nil)
	if status != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", status)
	}
}

func TestVideoUploadDisabled(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &listCompleter{})
	token := register(t, ts)
	setupID := createSetup(t, ts, token, "Backend Engineer", "entry level")

	var start struct {
		SessionID string `json:"sessionId"`
	}
	call(t, ts, http.MethodPost, "/api/interview/start", token,
		map[string]string{"setupId": setupID}, &start)

	var res struct {
		Error     bool   `json:"error"`
		LocalPath string `json:"localPath"`
	}
	status := call(t, ts, http.MethodPost, "/api/interview/video", token,
		map[string]string{"sessionId": start.SessionID, "localPath": "/tmp/recording.webm"}, &res)
	if status != http.StatusOK {
		t.Fatalf("video: expected 200, got %d", status)
	}
	if !res.Error || res.LocalPath != "/tmp/recording.webm" {
		t.Fatalf("expected disabled-upload response, got %+v", res)
	}
}
