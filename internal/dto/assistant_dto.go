package dto

import (
	"time"

	"github.com/google/uuid"
)

type StreamMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

type AssistantToolStepResponse struct {
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

type HistoryMessageResponse struct {
	Id             uuid.UUID                   `json:"id"`
	DatabaseId     *uuid.UUID                  `json:"database_id"`
	ConversationId uuid.UUID                   `json:"conversation_id"`
	Role           string                      `json:"role"`
	Content        string                      `json:"content"`
	Steps          []AssistantToolStepResponse `json:"steps,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
}

type GetHistoryResponse struct {
	Messages []HistoryMessageResponse `json:"messages"`
	Total    int64                    `json:"total"`
}

// PublishTurnCompletedMessage is the internal bus payload emitted after a
// human/AI turn pair has been committed.
type PublishTurnCompletedMessage struct {
	AccountId      uuid.UUID   `json:"account_id"`
	DatabaseId     *uuid.UUID  `json:"database_id"`
	ConversationId uuid.UUID   `json:"conversation_id"`
	MessageIds     []uuid.UUID `json:"message_ids"`
	CompletedAt    time.Time   `json:"completed_at"`
}
