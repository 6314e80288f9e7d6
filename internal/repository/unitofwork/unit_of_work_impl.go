package unitofwork

import (
	"context"
	"fmt"

	"redis-copilot-be/internal/repository/contract"
	"redis-copilot-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) MessageRepository() contract.AssistantMessageRepository {
	return implementation.NewAssistantMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgreementRepository() contract.AgreementRepository {
	return implementation.NewAgreementRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DatabaseAgreementRepository() contract.DatabaseAgreementRepository {
	return implementation.NewDatabaseAgreementRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DatabaseRepository() contract.DatabaseRepository {
	return implementation.NewDatabaseRepository(u.getDB())
}
