package implementation

import (
	"context"
	"errors"

	"redis-copilot-be/internal/entity"
	"redis-copilot-be/internal/mapper"
	"redis-copilot-be/internal/model"
	"redis-copilot-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AgreementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssistantMapper
}

func NewAgreementRepository(db *gorm.DB) contract.AgreementRepository {
	return &AgreementRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssistantMapper(),
	}
}

func (r *AgreementRepositoryImpl) FindByAccount(ctx context.Context, accountId uuid.UUID) (*entity.Agreement, error) {
	var m model.Agreement
	err := r.db.WithContext(ctx).Where("account_id = ?", accountId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AgreementToEntity(&m), nil
}

func (r *AgreementRepositoryImpl) Upsert(ctx context.Context, agreement *entity.Agreement) error {
	m := r.mapper.AgreementToModel(agreement)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"consent", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*agreement = *r.mapper.AgreementToEntity(m)
	return nil
}

type DatabaseAgreementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssistantMapper
}

func NewDatabaseAgreementRepository(db *gorm.DB) contract.DatabaseAgreementRepository {
	return &DatabaseAgreementRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssistantMapper(),
	}
}

func (r *DatabaseAgreementRepositoryImpl) Find(ctx context.Context, accountId, databaseId uuid.UUID) (*entity.DatabaseAgreement, error) {
	var m model.DatabaseAgreement
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND database_id = ?", accountId, databaseId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DatabaseAgreementToEntity(&m), nil
}

func (r *DatabaseAgreementRepositoryImpl) Upsert(ctx context.Context, agreement *entity.DatabaseAgreement) error {
	m := r.mapper.DatabaseAgreementToModel(agreement)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "database_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data_consent", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*agreement = *r.mapper.DatabaseAgreementToEntity(m)
	return nil
}

func (r *DatabaseAgreementRepositoryImpl) DeleteByDatabase(ctx context.Context, accountId, databaseId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("account_id = ? AND database_id = ?", accountId, databaseId).
		Delete(&model.DatabaseAgreement{}).Error
}
