package service

import (
	"context"
	"time"

	"redis-copilot-be/internal/dto"
	"redis-copilot-be/internal/entity"
	"redis-copilot-be/internal/pkg/serverutils"
	"redis-copilot-be/internal/repository/specification"
	"redis-copilot-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IDatabaseService manages stored database connections for the connection
// manager.
type IDatabaseService interface {
	Create(ctx context.Context, accountId uuid.UUID, request *dto.CreateDatabaseRequest) (*dto.CreateDatabaseResponse, error)
	Update(ctx context.Context, accountId uuid.UUID, request *dto.UpdateDatabaseRequest) (*dto.UpdateDatabaseResponse, error)
	Delete(ctx context.Context, accountId uuid.UUID, id uuid.UUID) error
	Show(ctx context.Context, accountId uuid.UUID, id uuid.UUID) (*dto.ShowDatabaseResponse, error)
	GetAll(ctx context.Context, accountId uuid.UUID) ([]*dto.ShowDatabaseResponse, error)
}

// ClientEvictor drops the pooled client of a removed database.
type ClientEvictor interface {
	Evict(databaseId uuid.UUID)
}

type databaseService struct {
	uowFactory unitofwork.RepositoryFactory
	clients    ClientEvictor
	contexts   ContextResetter
}

func NewDatabaseService(uowFactory unitofwork.RepositoryFactory, clients ClientEvictor, contexts ContextResetter) IDatabaseService {
	return &databaseService{
		uowFactory: uowFactory,
		clients:    clients,
		contexts:   contexts,
	}
}

func (s *databaseService) Create(ctx context.Context, accountId uuid.UUID, request *dto.CreateDatabaseRequest) (*dto.CreateDatabaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	db := &entity.Database{
		Id:        uuid.New(),
		AccountId: accountId,
		Name:      request.Name,
		Host:      request.Host,
		Port:      request.Port,
		Username:  request.Username,
		Password:  request.Password,
		TLS:       request.TLS,
		CreatedAt: time.Now(),
	}
	if err := uow.DatabaseRepository().Create(ctx, db); err != nil {
		return nil, err
	}

	return &dto.CreateDatabaseResponse{Id: db.Id}, nil
}

func (s *databaseService) Update(ctx context.Context, accountId uuid.UUID, request *dto.UpdateDatabaseRequest) (*dto.UpdateDatabaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	db, err := s.findOwned(ctx, uow, accountId, request.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	db.Name = request.Name
	db.Host = request.Host
	db.Port = request.Port
	db.Username = request.Username
	db.Password = request.Password
	db.TLS = request.TLS
	db.UpdatedAt = &now

	if err := uow.DatabaseRepository().Update(ctx, db); err != nil {
		return nil, err
	}

	// Connection details changed; the cached client and derived context are
	// both stale.
	s.clients.Evict(db.Id)
	s.contexts.Reset(accountId, db.Id)

	return &dto.UpdateDatabaseResponse{Id: db.Id}, nil
}

func (s *databaseService) Delete(ctx context.Context, accountId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	db, err := s.findOwned(ctx, uow, accountId, id)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DatabaseRepository().Delete(ctx, db.Id); err != nil {
		return err
	}
	if err := uow.DatabaseAgreementRepository().DeleteByDatabase(ctx, accountId, db.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.clients.Evict(db.Id)
	s.contexts.Reset(accountId, db.Id)
	return nil
}

func (s *databaseService) Show(ctx context.Context, accountId uuid.UUID, id uuid.UUID) (*dto.ShowDatabaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	db, err := s.findOwned(ctx, uow, accountId, id)
	if err != nil {
		return nil, err
	}
	return toShowDatabaseResponse(db), nil
}

func (s *databaseService) GetAll(ctx context.Context, accountId uuid.UUID) ([]*dto.ShowDatabaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	dbs, err := uow.DatabaseRepository().FindAll(ctx,
		specification.ByAccountID{AccountID: accountId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ShowDatabaseResponse, 0, len(dbs))
	for _, db := range dbs {
		response = append(response, toShowDatabaseResponse(db))
	}
	return response, nil
}

func (s *databaseService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, accountId, id uuid.UUID) (*entity.Database, error) {
	db, err := uow.DatabaseRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByAccountID{AccountID: accountId},
	)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, serverutils.NewAppError(fiber.StatusNotFound, "Database not found")
	}
	return db, nil
}

// toShowDatabaseResponse never exposes the stored password.
func toShowDatabaseResponse(db *entity.Database) *dto.ShowDatabaseResponse {
	return &dto.ShowDatabaseResponse{
		Id:        db.Id,
		Name:      db.Name,
		Host:      db.Host,
		Port:      db.Port,
		Username:  db.Username,
		TLS:       db.TLS,
		CreatedAt: db.CreatedAt,
		UpdatedAt: db.UpdatedAt,
	}
}
