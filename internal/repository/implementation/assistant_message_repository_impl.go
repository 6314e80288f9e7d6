package implementation

import (
	"context"
	"errors"

	"redis-copilot-be/internal/entity"
	"redis-copilot-be/internal/mapper"
	"redis-copilot-be/internal/model"
	"redis-copilot-be/internal/repository/contract"
	"redis-copilot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssistantMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssistantMapper
}

func NewAssistantMessageRepository(db *gorm.DB) contract.AssistantMessageRepository {
	return &AssistantMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssistantMapper(),
	}
}

func (r *AssistantMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AssistantMessageRepositoryImpl) CreateMany(ctx context.Context, messages []*entity.AssistantMessage) error {
	if len(messages) == 0 {
		return nil
	}
	models := make([]*model.AssistantMessage, len(messages))
	for i, msg := range messages {
		models[i] = r.mapper.MessageToModel(msg)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*messages[i] = *r.mapper.MessageToEntity(m)
	}
	return nil
}

func (r *AssistantMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AssistantMessage, error) {
	var m model.AssistantMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m), nil
}

func (r *AssistantMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AssistantMessage, error) {
	var models []*model.AssistantMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AssistantMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

func (r *AssistantMessageRepositoryImpl) DeleteAll(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID) error {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountId)
	if databaseId == nil {
		query = query.Where("database_id IS NULL")
	} else {
		query = query.Where("database_id = ?", *databaseId)
	}
	return query.Delete(&model.AssistantMessage{}).Error
}

func (r *AssistantMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AssistantMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
