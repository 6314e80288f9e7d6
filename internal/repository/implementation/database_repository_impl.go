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

type DatabaseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssistantMapper
}

func NewDatabaseRepository(db *gorm.DB) contract.DatabaseRepository {
	return &DatabaseRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssistantMapper(),
	}
}

func (r *DatabaseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DatabaseRepositoryImpl) Create(ctx context.Context, database *entity.Database) error {
	m := r.mapper.DatabaseToModel(database)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*database = *r.mapper.DatabaseToEntity(m)
	return nil
}

func (r *DatabaseRepositoryImpl) Update(ctx context.Context, database *entity.Database) error {
	m := r.mapper.DatabaseToModel(database)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*database = *r.mapper.DatabaseToEntity(m)
	return nil
}

func (r *DatabaseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Database{}, id).Error
}

func (r *DatabaseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Database, error) {
	var m model.Database
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DatabaseToEntity(&m), nil
}

func (r *DatabaseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Database, error) {
	var models []*model.Database
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Database, len(models))
	for i, m := range models {
		entities[i] = r.mapper.DatabaseToEntity(m)
	}
	return entities, nil
}
