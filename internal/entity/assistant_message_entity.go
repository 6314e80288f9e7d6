package entity

import (
	"time"

	"github.com/google/uuid"
)

// AssistantToolStep is one recorded trace entry attached to an AI turn:
// either a call the assistant made or the result it received, in arrival
// order.
type AssistantToolStep struct {
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

// AssistantMessage is a single turn within a conversation. A full exchange
// persists exactly two: one human turn and one AI turn sharing a
// conversation id.
type AssistantMessage struct {
	Id             uuid.UUID
	AccountId      uuid.UUID
	DatabaseId     *uuid.UUID
	ConversationId uuid.UUID
	Role           string
	Content        string
	Steps          []AssistantToolStep
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
