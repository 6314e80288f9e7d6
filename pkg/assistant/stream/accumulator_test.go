package stream

import (
	"testing"

	"redis-copilot-be/internal/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_ChunkOrder(t *testing.T) {
	acc := NewAccumulator()
	acc.AppendChunk("Hel")
	acc.AppendChunk("lo")

	assert.Equal(t, "Hello", acc.Content())
}

func TestAccumulator_StepOrder(t *testing.T) {
	acc := NewAccumulator()
	acc.AppendStep(constant.ToolStepKindCall, "call-1")
	acc.AppendStep(constant.ToolStepKindResult, "result-1")
	acc.AppendStep(constant.ToolStepKindCall, "call-2")

	steps := acc.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "call-1", steps[0].Payload)
	assert.Equal(t, constant.ToolStepKindResult, steps[1].Kind)
	assert.Equal(t, "call-2", steps[2].Payload)
}

func TestAccumulator_Empty(t *testing.T) {
	acc := NewAccumulator()
	assert.Empty(t, acc.Content())
	assert.Empty(t, acc.Steps())
}
