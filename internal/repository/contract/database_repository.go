package contract

import (
	"context"

	"redis-copilot-be/internal/entity"
	"redis-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DatabaseRepository interface {
	Create(ctx context.Context, database *entity.Database) error
	Update(ctx context.Context, database *entity.Database) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Database, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Database, error)
}
