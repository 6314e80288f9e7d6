package stream

import (
	"strings"

	"redis-copilot-be/internal/entity"
)

// Accumulator is the AI turn in progress: chunks and tool steps are
// appended in arrival order while the turn streams, and the finished values
// are read once after the acknowledgement. It is owned by a single turn and
// the connection's ordered dispatch makes appends happen-before the reads,
// so no locking is needed.
type Accumulator struct {
	content strings.Builder
	steps   []entity.AssistantToolStep
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) AppendChunk(text string) {
	a.content.WriteString(text)
}

func (a *Accumulator) AppendStep(kind, payload string) {
	a.steps = append(a.steps, entity.AssistantToolStep{Kind: kind, Payload: payload})
}

func (a *Accumulator) Content() string {
	return a.content.String()
}

func (a *Accumulator) Steps() []entity.AssistantToolStep {
	return a.steps
}
