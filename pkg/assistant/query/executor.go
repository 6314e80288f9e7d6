package query

import (
	"context"
	"encoding/json"
	"fmt"

	"redis-copilot-be/internal/constant"
	"redis-copilot-be/pkg/database"
)

// Executor runs backend-requested commands inside the sandbox: data-consent
// gate first, then the whitelist, then execution with reply shaping. Every
// failure mode is converted into a reply string so one bad query never
// aborts the turn.
type Executor struct {
	guard      Guard
	maxResults int
	maxNested  int
}

func NewExecutor(guard Guard, maxResults, maxNested int) *Executor {
	if maxResults <= 0 {
		maxResults = constant.DefaultQueryReplyMaxResults
	}
	if maxNested <= 0 {
		maxNested = constant.DefaultQueryReplyMaxNested
	}
	return &Executor{
		guard:      guard,
		maxResults: maxResults,
		maxNested:  maxNested,
	}
}

// Run executes one sandboxed request and always returns a reply payload,
// never an error.
func (e *Executor) Run(ctx context.Context, runner database.CommandRunner, args []string, dataConsent bool) string {
	if !dataConsent {
		return constant.QueryNotPermittedReply
	}
	if len(args) == 0 || !e.guard.Allows(args[0]) {
		return constant.QueryNotAllowedReply
	}

	cmdArgs := make([]interface{}, len(args))
	for i, a := range args {
		cmdArgs[i] = a
	}

	result, err := runner.RunCommand(ctx, cmdArgs...)
	if err != nil {
		return err.Error()
	}

	return e.renderReply(result)
}

func (e *Executor) renderReply(result interface{}) string {
	shaped := truncateReply(result, e.maxResults, e.maxNested)
	if s, ok := shaped.(string); ok {
		return s
	}
	b, err := json.Marshal(shaped)
	if err != nil {
		return fmt.Sprintf("%v", shaped)
	}
	return string(b)
}

// truncateReply bounds the reply size before it crosses the transport:
// the top-level array is capped at topN elements and nested arrays are
// recursively capped at nestedN. Best-effort shaping, not a correctness
// guarantee.
func truncateReply(v interface{}, topN, nestedN int) interface{} {
	arr, ok := v.([]interface{})
	if !ok {
		return v
	}
	if len(arr) > topN {
		arr = arr[:topN]
	}
	out := make([]interface{}, len(arr))
	for i, item := range arr {
		out[i] = truncateNested(item, nestedN)
	}
	return out
}

func truncateNested(v interface{}, nestedN int) interface{} {
	switch t := v.(type) {
	case []interface{}:
		if len(t) > nestedN {
			t = t[:nestedN]
		}
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = truncateNested(item, nestedN)
		}
		return out
	case map[interface{}]interface{}:
		// go-redis map replies (RESP3) keyed by interface values; re-key
		// for JSON encoding.
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[fmt.Sprintf("%v", k)] = truncateNested(item, nestedN)
		}
		return out
	default:
		return v
	}
}
