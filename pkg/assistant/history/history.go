package history

import (
	"redis-copilot-be/internal/constant"
	"redis-copilot-be/internal/entity"

	"github.com/google/uuid"
)

// Entry is one role/content pair in the history representation sent to the
// assistant backend.
type Entry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prepare flattens prior turns for the backend. An AI turn is followed by
// its recorded tool steps, in step order, so the backend can see its own
// prior reasoning trace.
func Prepare(turns []*entity.AssistantMessage) []Entry {
	entries := make([]Entry, 0, len(turns))
	for _, turn := range turns {
		entries = append(entries, Entry{Role: turn.Role, Content: turn.Content})
		if turn.Role != constant.MessageRoleAI {
			continue
		}
		for _, step := range turn.Steps {
			role := constant.MessageRoleTool
			if step.Kind == constant.ToolStepKindCall {
				role = constant.MessageRoleToolCall
			}
			entries = append(entries, Entry{Role: role, Content: step.Payload})
		}
	}
	return entries
}

// ConversationID ties a new turn to the existing conversation: the last
// turn's id when history exists, a fresh one otherwise.
func ConversationID(turns []*entity.AssistantMessage) uuid.UUID {
	if len(turns) > 0 {
		return turns[len(turns)-1].ConversationId
	}
	return uuid.New()
}
