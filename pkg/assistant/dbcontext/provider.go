package dbcontext

import (
	"context"
	"encoding/json"

	"redis-copilot-be/internal/constant"
	"redis-copilot-be/internal/pkg/logger"
	"redis-copilot-be/pkg/database"

	"github.com/google/uuid"
)

// Store is the context cache: at most one value per key, idempotent upsert.
type Store interface {
	GetDbContext(accountId, databaseId uuid.UUID) (json.RawMessage, bool)
	SetDbContext(accountId, databaseId uuid.UUID, value json.RawMessage) json.RawMessage
	GetIndexContext(accountId, databaseId uuid.UUID, index string) (json.RawMessage, bool)
	SetIndexContext(accountId, databaseId uuid.UUID, index string, value json.RawMessage) json.RawMessage
	Reset(accountId, databaseId uuid.UUID)
}

// Provider answers context requests with the get-or-build flow. It never
// returns an error: a consent, cache or builder failure degrades to an
// `{"error": ...}` marker so the conversation continues with an error
// marker in place of context. Failed computes are not cached, so callers
// retry on the next request.
type Provider struct {
	store   Store
	builder Builder
	log     logger.ILogger
}

func NewProvider(store Store, builder Builder, log logger.ILogger) *Provider {
	return &Provider{
		store:   store,
		builder: builder,
		log:     log,
	}
}

func (p *Provider) DbContext(ctx context.Context, accountId, databaseId uuid.UUID, runner database.CommandRunner, dataConsent bool) json.RawMessage {
	if !dataConsent {
		return errorValue(constant.ContextConsentError)
	}
	if v, found := p.store.GetDbContext(accountId, databaseId); found {
		return v
	}

	v, err := p.builder.DbContext(ctx, runner)
	if err != nil {
		p.log.Warn("Context", "Failed to build database context", map[string]interface{}{
			"database_id": databaseId,
			"error":       err.Error(),
		})
		return errorValue(err.Error())
	}
	return p.store.SetDbContext(accountId, databaseId, v)
}

func (p *Provider) IndexContext(ctx context.Context, accountId, databaseId uuid.UUID, runner database.CommandRunner, index string, dataConsent bool) json.RawMessage {
	if !dataConsent {
		return errorValue(constant.ContextConsentError)
	}
	if v, found := p.store.GetIndexContext(accountId, databaseId, index); found {
		return v
	}

	v, err := p.builder.IndexContext(ctx, runner, index)
	if err != nil {
		p.log.Warn("Context", "Failed to build index context", map[string]interface{}{
			"database_id": databaseId,
			"index":       index,
			"error":       err.Error(),
		})
		return errorValue(err.Error())
	}
	return p.store.SetIndexContext(accountId, databaseId, index, v)
}

func errorValue(message string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"error": message})
	return b
}
