package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mockmate/interview"
)

// LogChatCall records one gateway attempt for auditing the model
// fallback loop.
func (s *PGStore) LogChatCall(ctx context.Context, log interview.ChatLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO chat_logs (id, model, prompt_len, status, error_message)
		 VALUES ($1, $2, $3, $4, $5)`,
		log.ID, log.Model, log.PromptLen, log.Status, log.ErrMessage,
	)
	if err != nil {
		return fmt.Errorf("interview: log chat call: %w", err)
	}

	return nil
}
