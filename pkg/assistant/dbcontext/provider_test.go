package dbcontext

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"redis-copilot-be/internal/constant"
	"redis-copilot-be/internal/pkg/logger"
	"redis-copilot-be/internal/repository/memory"
	"redis-copilot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type scriptedBuilder struct {
	results []json.RawMessage
	errs    []error
	calls   int
}

func (b *scriptedBuilder) next() (json.RawMessage, error) {
	i := b.calls
	b.calls++
	var err error
	if i < len(b.errs) {
		err = b.errs[i]
	}
	var res json.RawMessage
	if i < len(b.results) {
		res = b.results[i]
	}
	return res, err
}

func (b *scriptedBuilder) DbContext(ctx context.Context, runner database.CommandRunner) (json.RawMessage, error) {
	return b.next()
}

func (b *scriptedBuilder) IndexContext(ctx context.Context, runner database.CommandRunner, index string) (json.RawMessage, error) {
	return b.next()
}

type nopRunner struct{}

func (nopRunner) RunCommand(ctx context.Context, args ...interface{}) (interface{}, error) {
	return nil, nil
}

func TestProvider_ConsentShortCircuitsCacheAndBuilder(t *testing.T) {
	builder := &scriptedBuilder{}
	store := memory.NewContextRepository()
	provider := NewProvider(store, builder, logger.NewNopLogger())

	account, db := uuid.New(), uuid.New()
	got := provider.DbContext(context.Background(), account, db, nopRunner{}, false)

	assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, constant.ContextConsentError), string(got))
	assert.Zero(t, builder.calls, "builder must not run without consent")
	_, found := store.GetDbContext(account, db)
	assert.False(t, found, "denial marker must not be cached")
}

func TestProvider_IndexContext_ComputedThenCachedThenError(t *testing.T) {
	value := json.RawMessage(`{"name":"idx","num_docs":7}`)
	builder := &scriptedBuilder{
		results: []json.RawMessage{value, nil},
		errs:    []error{nil, errors.New("FT.INFO failed")},
	}
	store := memory.NewContextRepository()
	provider := NewProvider(store, builder, logger.NewNopLogger())

	account, db := uuid.New(), uuid.New()
	ctx := context.Background()

	// Miss: computed and stored.
	got := provider.IndexContext(ctx, account, db, nopRunner{}, "idx", true)
	assert.Equal(t, value, got)
	assert.Equal(t, 1, builder.calls)

	// Hit: served from cache, builder not re-invoked.
	got = provider.IndexContext(ctx, account, db, nopRunner{}, "idx", true)
	assert.Equal(t, value, got)
	assert.Equal(t, 1, builder.calls)

	// Reset, then a failing compute yields an ephemeral error marker that
	// is not cached.
	store.Reset(account, db)
	got = provider.IndexContext(ctx, account, db, nopRunner{}, "idx", true)
	assert.JSONEq(t, `{"error":"FT.INFO failed"}`, string(got))
	_, found := store.GetIndexContext(account, db, "idx")
	assert.False(t, found)
}

func TestProvider_DbContext_BuildFailureNotCached(t *testing.T) {
	builder := &scriptedBuilder{
		errs:    []error{errors.New("DBSIZE timed out"), nil},
		results: []json.RawMessage{nil, json.RawMessage(`{"db_size":1}`)},
	}
	store := memory.NewContextRepository()
	provider := NewProvider(store, builder, logger.NewNopLogger())

	account, db := uuid.New(), uuid.New()
	ctx := context.Background()

	got := provider.DbContext(ctx, account, db, nopRunner{}, true)
	assert.JSONEq(t, `{"error":"DBSIZE timed out"}`, string(got))

	// The next call retries the builder and caches the success.
	got = provider.DbContext(ctx, account, db, nopRunner{}, true)
	assert.JSONEq(t, `{"db_size":1}`, string(got))
	assert.Equal(t, 2, builder.calls)

	cached, found := store.GetDbContext(account, db)
	assert.True(t, found)
	assert.JSONEq(t, `{"db_size":1}`, string(cached))
}
