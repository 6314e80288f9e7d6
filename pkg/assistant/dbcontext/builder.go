package dbcontext

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"redis-copilot-be/pkg/database"
)

// Builder computes context values from a live database. Results are opaque
// to the rest of the gateway beyond caching.
type Builder interface {
	DbContext(ctx context.Context, runner database.CommandRunner) (json.RawMessage, error)
	IndexContext(ctx context.Context, runner database.CommandRunner, index string) (json.RawMessage, error)
}

// maxIndexSummaries bounds how many search indexes the whole-db context
// describes; the backend can ask for the rest on demand.
const maxIndexSummaries = 10

type redisBuilder struct{}

func NewRedisBuilder() Builder {
	return &redisBuilder{}
}

type indexSummary struct {
	Name       string      `json:"name"`
	NumDocs    interface{} `json:"num_docs,omitempty"`
	Attributes []attribute `json:"attributes,omitempty"`
}

type attribute struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (b *redisBuilder) DbContext(ctx context.Context, runner database.CommandRunner) (json.RawMessage, error) {
	dbSize, err := runner.RunCommand(ctx, "DBSIZE")
	if err != nil {
		return nil, fmt.Errorf("failed to read db size: %w", err)
	}

	out := map[string]interface{}{
		"db_size": dbSize,
	}

	if info, err := runner.RunCommand(ctx, "INFO", "server"); err == nil {
		if s, ok := info.(string); ok {
			if version := parseInfoField(s, "redis_version"); version != "" {
				out["redis_version"] = version
			}
		}
	}

	// Index listing is best-effort: a database without the search module
	// still gets a usable context.
	if names, err := runner.RunCommand(ctx, "FT._LIST"); err == nil {
		if list, ok := names.([]interface{}); ok {
			summaries := make([]indexSummary, 0, len(list))
			for i, name := range list {
				if i >= maxIndexSummaries {
					break
				}
				idx := fmt.Sprintf("%v", name)
				summary := indexSummary{Name: idx}
				if raw, err := runner.RunCommand(ctx, "FT.INFO", idx); err == nil {
					fillIndexSummary(&summary, raw)
				}
				summaries = append(summaries, summary)
			}
			out["indexes"] = summaries
		}
	}

	return json.Marshal(out)
}

func (b *redisBuilder) IndexContext(ctx context.Context, runner database.CommandRunner, index string) (json.RawMessage, error) {
	raw, err := runner.RunCommand(ctx, "FT.INFO", index)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index %q: %w", index, err)
	}

	summary := indexSummary{Name: index}
	fillIndexSummary(&summary, raw)
	return json.Marshal(summary)
}

func parseInfoField(info, field string) string {
	for _, line := range strings.Split(info, "\r\n") {
		if strings.HasPrefix(line, field+":") {
			return strings.TrimPrefix(line, field+":")
		}
	}
	return ""
}

// fillIndexSummary extracts the interesting parts of an FT.INFO reply: an
// array of alternating key/value entries whose "attributes" value is itself
// an array of alternating key/value arrays.
func fillIndexSummary(summary *indexSummary, raw interface{}) {
	pairs := toPairMap(raw)
	if pairs == nil {
		return
	}

	if n, ok := pairs["num_docs"]; ok {
		summary.NumDocs = n
	}

	attrs, ok := pairs["attributes"].([]interface{})
	if !ok {
		return
	}
	for _, a := range attrs {
		attrPairs := toPairMap(a)
		if attrPairs == nil {
			continue
		}
		attr := attribute{}
		if v, ok := attrPairs["attribute"]; ok {
			attr.Name = fmt.Sprintf("%v", v)
		} else if v, ok := attrPairs["identifier"]; ok {
			attr.Name = fmt.Sprintf("%v", v)
		}
		if v, ok := attrPairs["type"]; ok {
			attr.Type = fmt.Sprintf("%v", v)
		}
		if attr.Name != "" {
			summary.Attributes = append(summary.Attributes, attr)
		}
	}
}

func toPairMap(v interface{}) map[string]interface{} {
	arr, ok := v.([]interface{})
	if !ok || len(arr)%2 != 0 {
		return nil
	}
	out := make(map[string]interface{}, len(arr)/2)
	for i := 0; i+1 < len(arr); i += 2 {
		out[fmt.Sprintf("%v", arr[i])] = arr[i+1]
	}
	return out
}
