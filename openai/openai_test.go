package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mockmate/interview"
	"github.com/mockmate/interview/memstore"
	"github.com/mockmate/interview/openai"
)

type fakeUpstream struct {
	t *testing.T
	// respond maps a model ID to its canned handler.
	respond map[string]func(w http.ResponseWriter)
	models  []string // models seen, in request order
}

func (f *fakeUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			f.t.Errorf("decode upstream request: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		f.models = append(f.models, req.Model)

		respond, ok := f.respond[req.Model]
		if !ok {
			http.Error(w, `{"error": "model not found"}`, http.StatusNotFound)
			return
		}
		respond(w)
	}
}

func content(text string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": text}},
			},
		})
	}
}

func serverError(w http.ResponseWriter) {
	http.Error(w, `{"error": "overloaded"}`, http.StatusInternalServerError)
}

func TestCompleteModelFallback(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{t: t, respond: map[string]func(http.ResponseWriter){
		"fast":   serverError,
		"medium": content("The answer."),
	}}
	ts := httptest.NewServer(upstream.handler())
	defer ts.Close()

	client := openai.New("test-key", []string{"fast", "medium", "large"}).WithBaseURL(ts.URL)

	res := client.Complete(context.Background(), interview.UserMessage("hello"))
	if !res.OK {
		t.Fatalf("expected success, got %q", res.ErrMessage)
	}
	if res.Text != "The answer." {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if res.Model != "medium" {
		t.Fatalf("expected fallback to medium, got %q", res.Model)
	}
	if len(upstream.models) != 2 {
		t.Fatalf("expected 2 attempts, got %v", upstream.models)
	}
}

func TestCompleteSkipsEmptyContent(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{t: t, respond: map[string]func(http.ResponseWriter){
		"fast":   content("   "),
		"medium": content("Non-empty."),
	}}
	ts := httptest.NewServer(upstream.handler())
	defer ts.Close()

	client := openai.New("test-key", []string{"fast", "medium"}).WithBaseURL(ts.URL)

	res := client.Complete(context.Background(), interview.UserMessage("hello"))
	if !res.OK || res.Model != "medium" {
		t.Fatalf("expected medium to win over empty content, got %+v", res)
	}
}

func TestCompleteAllModelsExhausted(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{t: t, respond: map[string]func(http.ResponseWriter){}}
	ts := httptest.NewServer(upstream.handler())
	defer ts.Close()

	client := openai.New("test-key", []string{"fast", "medium"}).WithBaseURL(ts.URL)

	res := client.Complete(context.Background(), interview.UserMessage("hello"))
	if res.OK {
		t.Fatal("expected failure when every model fails")
	}
	if res.ErrMessage == "" {
		t.Fatal("expected the last underlying error to be reported")
	}
	if len(upstream.models) != 2 {
		t.Fatalf("expected every model to be tried, got %v", upstream.models)
	}
}

func TestCompleteWithoutCredential(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("disabled client must not reach the network")
	}))
	defer ts.Close()

	client := openai.New("", nil).WithBaseURL(ts.URL)

	res := client.Complete(context.Background(), interview.UserMessage("hello"))
	if res.OK {
		t.Fatal("expected failure without a credential")
	}
	if res.ErrMessage == "" {
		t.Fatal("expected an error message")
	}
}

func TestCompleteAuditsAttempts(t *testing.T) {
	t.Parallel()

	upstream := &fakeUpstream{t: t, respond: map[string]func(http.ResponseWriter){
		"medium": content("ok then"),
	}}
	ts := httptest.NewServer(upstream.handler())
	defer ts.Close()

	store := memstore.New()
	client := openai.New("test-key", []string{"fast", "medium"}).
		WithBaseURL(ts.URL).
		WithStore(store)

	if res := client.Complete(context.Background(), interview.UserMessage("hello")); !res.OK {
		t.Fatalf("expected success, got %q", res.ErrMessage)
	}

	logs := store.ChatLogs()
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(logs))
	}
	if logs[0].Model != "fast" || logs[0].Status != interview.ChatStatusFailed {
		t.Fatalf("unexpected first log: %+v", logs[0])
	}
	if logs[1].Model != "medium" || logs[1].Status != interview.ChatStatusOK {
		t.Fatalf("unexpected second log: %+v", logs[1])
	}
}
