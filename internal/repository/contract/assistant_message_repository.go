package contract

import (
	"context"

	"redis-copilot-be/internal/entity"
	"redis-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AssistantMessageRepository interface {
	// CreateMany persists a set of turns in one write. Callers wrap it in a
	// unit-of-work transaction so a human/AI pair lands atomically.
	CreateMany(ctx context.Context, messages []*entity.AssistantMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AssistantMessage, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AssistantMessage, error)
	DeleteAll(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
