package unitofwork

import (
	"context"

	"redis-copilot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MessageRepository() contract.AssistantMessageRepository
	AgreementRepository() contract.AgreementRepository
	DatabaseAgreementRepository() contract.DatabaseAgreementRepository
	DatabaseRepository() contract.DatabaseRepository
}
