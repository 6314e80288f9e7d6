package contract

import (
	"context"

	"redis-copilot-be/internal/entity"

	"github.com/google/uuid"
)

type AgreementRepository interface {
	// FindByAccount returns nil, nil when no agreement record exists.
	FindByAccount(ctx context.Context, accountId uuid.UUID) (*entity.Agreement, error)
	Upsert(ctx context.Context, agreement *entity.Agreement) error
}

type DatabaseAgreementRepository interface {
	// Find returns nil, nil when no record exists; callers treat that as
	// data consent not granted.
	Find(ctx context.Context, accountId, databaseId uuid.UUID) (*entity.DatabaseAgreement, error)
	Upsert(ctx context.Context, agreement *entity.DatabaseAgreement) error
	DeleteByDatabase(ctx context.Context, accountId, databaseId uuid.UUID) error
}
