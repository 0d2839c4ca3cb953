package interview

import "context"

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single role-tagged turn sent to the gateway.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResult is the tagged outcome of a gateway call. The gateway
// never returns a Go error: callers branch on OK, and a failed call
// carries the last underlying error in ErrMessage.
type ChatResult struct {
	OK         bool   `json:"ok"`
	Text       string `json:"text,omitempty"`
	Model      string `json:"model,omitempty"`
	ErrMessage string `json:"error_message,omitempty"`
}

// Completer defines the contract for chat-completion gateways.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) ChatResult
}

// UserMessage wraps a single user-role prompt.
func UserMessage(content string) []ChatMessage {
	return []ChatMessage{{Role: RoleUser, Content: content}}
}
