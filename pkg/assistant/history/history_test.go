package history

import (
	"testing"

	"redis-copilot-be/internal/constant"
	"redis-copilot-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare_FlattensToolSteps(t *testing.T) {
	turns := []*entity.AssistantMessage{
		{Role: constant.MessageRoleHuman, Content: "How many users?"},
		{
			Role:    constant.MessageRoleAI,
			Content: "There are 42 users.",
			Steps: []entity.AssistantToolStep{
				{Kind: constant.ToolStepKindCall, Payload: `{"command":"FT.SEARCH"}`},
				{Kind: constant.ToolStepKindResult, Payload: `{"total":42}`},
			},
		},
	}

	entries := Prepare(turns)

	require.Len(t, entries, 4)
	assert.Equal(t, Entry{Role: constant.MessageRoleHuman, Content: "How many users?"}, entries[0])
	assert.Equal(t, Entry{Role: constant.MessageRoleAI, Content: "There are 42 users."}, entries[1])
	assert.Equal(t, Entry{Role: constant.MessageRoleToolCall, Content: `{"command":"FT.SEARCH"}`}, entries[2])
	assert.Equal(t, Entry{Role: constant.MessageRoleTool, Content: `{"total":42}`}, entries[3])
}

func TestPrepare_HumanStepsIgnored(t *testing.T) {
	// Steps only ever belong to AI turns; a stray step on a human turn is
	// not flattened.
	turns := []*entity.AssistantMessage{
		{
			Role:    constant.MessageRoleHuman,
			Content: "hi",
			Steps:   []entity.AssistantToolStep{{Kind: constant.ToolStepKindCall, Payload: "x"}},
		},
	}

	entries := Prepare(turns)
	require.Len(t, entries, 1)
}

func TestPrepare_Empty(t *testing.T) {
	assert.Empty(t, Prepare(nil))
}

func TestConversationID(t *testing.T) {
	fresh := ConversationID(nil)
	assert.NotEqual(t, uuid.Nil, fresh)

	conv := uuid.New()
	turns := []*entity.AssistantMessage{
		{ConversationId: uuid.New()},
		{ConversationId: conv},
	}
	assert.Equal(t, conv, ConversationID(turns))
}
