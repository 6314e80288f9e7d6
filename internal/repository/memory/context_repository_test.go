package memory

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContextRepository_DbContext(t *testing.T) {
	repo := NewContextRepository()
	account := uuid.New()
	db := uuid.New()

	_, found := repo.GetDbContext(account, db)
	assert.False(t, found)

	value := json.RawMessage(`{"db_size":42}`)
	stored := repo.SetDbContext(account, db, value)
	assert.Equal(t, value, stored)

	got, found := repo.GetDbContext(account, db)
	assert.True(t, found)
	assert.Equal(t, value, got)

	// Different database, same account: no cross-key interference.
	_, found = repo.GetDbContext(account, uuid.New())
	assert.False(t, found)
}

func TestContextRepository_Reset(t *testing.T) {
	repo := NewContextRepository()
	account := uuid.New()
	db := uuid.New()
	other := uuid.New()

	repo.SetDbContext(account, db, json.RawMessage(`{}`))
	repo.SetIndexContext(account, db, "idx:users", json.RawMessage(`{}`))
	repo.SetIndexContext(account, db, "idx:orders", json.RawMessage(`{}`))
	repo.SetDbContext(account, other, json.RawMessage(`{}`))
	repo.SetIndexContext(account, other, "idx:users", json.RawMessage(`{}`))

	repo.Reset(account, db)

	_, found := repo.GetDbContext(account, db)
	assert.False(t, found)
	_, found = repo.GetIndexContext(account, db, "idx:users")
	assert.False(t, found)
	_, found = repo.GetIndexContext(account, db, "idx:orders")
	assert.False(t, found)

	// Other databases survive.
	_, found = repo.GetDbContext(account, other)
	assert.True(t, found)
	_, found = repo.GetIndexContext(account, other, "idx:users")
	assert.True(t, found)
}
