package query

import (
	"context"
	"errors"
	"testing"

	"redis-copilot-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

type fakeRunner struct {
	result interface{}
	err    error
	calls  [][]interface{}
}

func (f *fakeRunner) RunCommand(ctx context.Context, args ...interface{}) (interface{}, error) {
	f.calls = append(f.calls, args)
	return f.result, f.err
}

func newTestExecutor() *Executor {
	return NewExecutor(NewGuard(constant.DefaultAllowedCommands), 3, 2)
}

func TestExecutor_DeniesWithoutDataConsent(t *testing.T) {
	runner := &fakeRunner{}
	reply := newTestExecutor().Run(context.Background(), runner, []string{"FT.SEARCH", "idx", "*"}, false)

	assert.Equal(t, constant.QueryNotPermittedReply, reply)
	assert.Empty(t, runner.calls, "denied command must never reach the database")
}

func TestExecutor_DeniesNonWhitelistedCommand(t *testing.T) {
	runner := &fakeRunner{}
	exec := newTestExecutor()

	for _, args := range [][]string{
		{"FLUSHALL"},
		{"SET", "k", "v"},
		{""},
		nil,
	} {
		reply := exec.Run(context.Background(), runner, args, true)
		assert.Equal(t, constant.QueryNotAllowedReply, reply)
	}
	assert.Empty(t, runner.calls)
}

func TestExecutor_ExecutesWhitelistedCommand(t *testing.T) {
	runner := &fakeRunner{result: int64(12)}
	reply := newTestExecutor().Run(context.Background(), runner, []string{"ft.search", "idx", "*"}, true)

	assert.Equal(t, "12", reply)
	assert.Len(t, runner.calls, 1)
	assert.Equal(t, []interface{}{"ft.search", "idx", "*"}, runner.calls[0])
}

func TestExecutor_StringReplyPassedThrough(t *testing.T) {
	runner := &fakeRunner{result: "OK"}
	reply := newTestExecutor().Run(context.Background(), runner, []string{"FT.INFO", "idx"}, true)
	assert.Equal(t, "OK", reply)
}

func TestExecutor_ExecutionErrorBecomesReply(t *testing.T) {
	runner := &fakeRunner{err: errors.New("ERR no such index")}
	reply := newTestExecutor().Run(context.Background(), runner, []string{"FT.SEARCH", "missing", "*"}, true)

	// Database-native errors are returned verbatim, without the gateway
	// denial prefix.
	assert.Equal(t, "ERR no such index", reply)
}

func TestExecutor_TruncatesTopLevelArray(t *testing.T) {
	runner := &fakeRunner{result: []interface{}{"a", "b", "c", "d", "e"}}
	reply := newTestExecutor().Run(context.Background(), runner, []string{"FT.SEARCH", "idx", "*"}, true)

	assert.JSONEq(t, `["a","b","c"]`, reply)
}

func TestExecutor_TruncatesNestedArraysRecursively(t *testing.T) {
	runner := &fakeRunner{result: []interface{}{
		"total",
		[]interface{}{"f1", "f2", "f3", "f4"},
		[]interface{}{[]interface{}{"x", "y", "z"}},
	}}
	reply := newTestExecutor().Run(context.Background(), runner, []string{"FT.AGGREGATE", "idx", "*"}, true)

	assert.JSONEq(t, `["total",["f1","f2"],[["x","y"]]]`, reply)
}

func TestExecutor_ConsentCheckedBeforeWhitelist(t *testing.T) {
	// A whitelisted command without consent still gets the consent denial.
	runner := &fakeRunner{}
	reply := newTestExecutor().Run(context.Background(), runner, []string{"FT.SEARCH", "idx", "*"}, false)
	assert.Equal(t, constant.QueryNotPermittedReply, reply)
}
