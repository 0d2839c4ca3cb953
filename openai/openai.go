// Package openai implements the interview.Completer contract against
// an OpenAI-compatible chat-completions endpoint, with fallback across
// a prioritized model list.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mockmate/interview"
)

const defaultBaseURL = "https://api.openai.com/v1/chat/completions"

// temperature is fixed for all requests; the caller has no sampling
// control.
const temperature = 0.7

var errEmptyContent = errors.New("openai: response contained no text content")

// Client calls the chat-completions API. A Client constructed without
// an API key is permanently disabled: Complete returns a failed result
// without touching the network.
type Client struct {
	apiKey  string
	baseURL string
	models  []string
	client  *http.Client
	store   interview.Store
	logger  *slog.Logger
}

// New creates a client trying the given models in order. An empty key
// disables the client; the condition is logged once here, not on every
// call.
func New(apiKey string, models []string) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		models:  models,
		client:  &http.Client{},
		logger:  slog.Default(),
	}
	if len(c.models) == 0 {
		c.models = interview.DefaultModels
	}
	if apiKey == "" {
		c.logger.Warn("openai api key missing, AI features disabled")
	}
	return c
}

// WithStore enables per-attempt audit logging through the store.
func (c *Client) WithStore(store interview.Store) *Client {
	c.store = store
	return c
}

// WithLogger replaces the default logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// WithBaseURL points the client at a different endpoint. Used by tests
// and OpenAI-compatible proxies.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// Complete tries each model in priority order and accepts the first
// response with non-empty text content. It never returns a Go error:
// exhausting the list yields a failed ChatResult carrying the last
// underlying error.
func (c *Client) Complete(ctx context.Context, messages []interview.ChatMessage) interview.ChatResult {
	if c.apiKey == "" {
		return interview.ChatResult{OK: false, ErrMessage: "openai: API key is not configured"}
	}

	promptLen := 0
	for _, m := range messages {
		promptLen += len(m.Content)
	}

	var lastErr error
	for _, model := range c.models {
		text, err := c.sendOnce(ctx, model, messages)
		c.audit(ctx, model, promptLen, err)
		if err != nil {
			c.logger.Warn("chat completion attempt failed", "model", model, "error", err)
			lastErr = err
			continue
		}
		return interview.ChatResult{OK: true, Text: text, Model: model}
	}

	return interview.ChatResult{OK: false, ErrMessage: lastErr.Error()}
}

// sendOnce issues one completion request against one model. An empty
// content field is an error so the fallback loop moves on.
func (c *Client) sendOnce(ctx context.Context, model string, messages []interview.ChatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: model %s: status %d: %s", model, resp.StatusCode, string(respBody))
	}

	return parseResponse(respBody)
}

func (c *Client) audit(ctx context.Context, model string, promptLen int, callErr error) {
	if c.store == nil {
		return
	}

	log := interview.ChatLog{Model: model, PromptLen: promptLen, Status: interview.ChatStatusOK}
	if callErr != nil {
		log.Status = interview.ChatStatusFailed
		log.ErrMessage = callErr.Error()
	}
	if err := c.store.LogChatCall(ctx, log); err != nil {
		c.logger.Warn("chat call audit failed", "error", err)
	}
}

func parseResponse(body []byte) (string, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openai: parse response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errEmptyContent
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errEmptyContent
	}

	return text, nil
}

// Chat-completions API wire types.
type chatRequest struct {
	Model       string                  `json:"model"`
	Messages    []interview.ChatMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatChoiceMessage `json:"message"`
}

type chatChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Ensure Client implements interview.Completer at compile time.
var _ interview.Completer = (*Client)(nil)
