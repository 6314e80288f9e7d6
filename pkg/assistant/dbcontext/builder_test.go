package dbcontext

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commandRunner replies from a canned table keyed by the full command line.
type commandRunner struct {
	replies map[string]interface{}
	errs    map[string]error
}

func (r *commandRunner) RunCommand(ctx context.Context, args ...interface{}) (interface{}, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.(string)
	}
	key := strings.Join(parts, " ")
	if err, ok := r.errs[key]; ok {
		return nil, err
	}
	return r.replies[key], nil
}

func ftInfoReply(numDocs interface{}, attrs ...[]interface{}) []interface{} {
	attrList := make([]interface{}, len(attrs))
	for i, a := range attrs {
		attrList[i] = a
	}
	return []interface{}{
		"index_name", "ignored",
		"num_docs", numDocs,
		"attributes", attrList,
	}
}

func TestRedisBuilder_DbContext(t *testing.T) {
	runner := &commandRunner{replies: map[string]interface{}{
		"DBSIZE":      int64(120),
		"INFO server": "# Server\r\nredis_version:7.4.0\r\nos:Linux\r\n",
		"FT._LIST":    []interface{}{"idx:users"},
		"FT.INFO idx:users": ftInfoReply(int64(42),
			[]interface{}{"identifier", "$.name", "attribute", "name", "type", "TEXT"},
			[]interface{}{"identifier", "$.age", "attribute", "age", "type", "NUMERIC"},
		),
	}}

	raw, err := NewRedisBuilder().DbContext(context.Background(), runner)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.EqualValues(t, 120, got["db_size"])
	assert.Equal(t, "7.4.0", got["redis_version"])

	indexes := got["indexes"].([]interface{})
	require.Len(t, indexes, 1)
	idx := indexes[0].(map[string]interface{})
	assert.Equal(t, "idx:users", idx["name"])
	assert.EqualValues(t, 42, idx["num_docs"])
	attrs := idx["attributes"].([]interface{})
	require.Len(t, attrs, 2)
	first := attrs[0].(map[string]interface{})
	assert.Equal(t, "name", first["name"])
	assert.Equal(t, "TEXT", first["type"])
}

func TestRedisBuilder_DbContextWithoutSearchModule(t *testing.T) {
	runner := &commandRunner{
		replies: map[string]interface{}{
			"DBSIZE": int64(3),
		},
		errs: map[string]error{
			"INFO server": errors.New("ERR unknown"),
			"FT._LIST":    errors.New("ERR unknown command 'FT._LIST'"),
		},
	}

	raw, err := NewRedisBuilder().DbContext(context.Background(), runner)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.EqualValues(t, 3, got["db_size"])
	assert.NotContains(t, got, "indexes")
}

func TestRedisBuilder_DbSizeFailureIsAnError(t *testing.T) {
	runner := &commandRunner{errs: map[string]error{
		"DBSIZE": errors.New("connection refused"),
	}}

	_, err := NewRedisBuilder().DbContext(context.Background(), runner)
	assert.Error(t, err)
}

func TestRedisBuilder_IndexContext(t *testing.T) {
	runner := &commandRunner{replies: map[string]interface{}{
		"FT.INFO idx:orders": ftInfoReply("15",
			[]interface{}{"identifier", "$.total", "attribute", "total", "type", "NUMERIC"},
		),
	}}

	raw, err := NewRedisBuilder().IndexContext(context.Background(), runner, "idx:orders")
	require.NoError(t, err)

	var got indexSummary
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "idx:orders", got.Name)
	require.Len(t, got.Attributes, 1)
	assert.Equal(t, "total", got.Attributes[0].Name)
	assert.Equal(t, "NUMERIC", got.Attributes[0].Type)
}

func TestRedisBuilder_IndexContextUnknownIndex(t *testing.T) {
	runner := &commandRunner{errs: map[string]error{
		"FT.INFO nope": errors.New("Unknown index name"),
	}}

	_, err := NewRedisBuilder().IndexContext(context.Background(), runner, "nope")
	assert.Error(t, err)
}
