package memory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ContextRepository caches derived database/index context values. Entries
// live until Reset (or process restart); they are derived artifacts, so
// last-write-wins is acceptable and no cross-key locking is needed beyond
// what go-cache provides.
type ContextRepository struct {
	cache *cache.Cache
}

func NewContextRepository() *ContextRepository {
	return &ContextRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func dbKey(accountId, databaseId uuid.UUID) string {
	return fmt.Sprintf("db:%s:%s", accountId, databaseId)
}

func indexKey(accountId, databaseId uuid.UUID, index string) string {
	return fmt.Sprintf("index:%s:%s:%s", accountId, databaseId, index)
}

func (r *ContextRepository) GetDbContext(accountId, databaseId uuid.UUID) (json.RawMessage, bool) {
	if x, found := r.cache.Get(dbKey(accountId, databaseId)); found {
		return x.(json.RawMessage), true
	}
	return nil, false
}

func (r *ContextRepository) SetDbContext(accountId, databaseId uuid.UUID, value json.RawMessage) json.RawMessage {
	r.cache.Set(dbKey(accountId, databaseId), value, cache.NoExpiration)
	return value
}

func (r *ContextRepository) GetIndexContext(accountId, databaseId uuid.UUID, index string) (json.RawMessage, bool) {
	if x, found := r.cache.Get(indexKey(accountId, databaseId, index)); found {
		return x.(json.RawMessage), true
	}
	return nil, false
}

func (r *ContextRepository) SetIndexContext(accountId, databaseId uuid.UUID, index string, value json.RawMessage) json.RawMessage {
	r.cache.Set(indexKey(accountId, databaseId, index), value, cache.NoExpiration)
	return value
}

// Reset invalidates the whole-db context and every index context for the
// given database.
func (r *ContextRepository) Reset(accountId, databaseId uuid.UUID) {
	r.cache.Delete(dbKey(accountId, databaseId))
	prefix := fmt.Sprintf("index:%s:%s:", accountId, databaseId)
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
}
