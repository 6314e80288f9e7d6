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

// IAgreementService manages the two consent tiers: the account-level
// agreement and the per-database data consent.
type IAgreementService interface {
	GetAgreement(ctx context.Context, accountId uuid.UUID) (*dto.GetAgreementResponse, error)
	UpdateAgreement(ctx context.Context, accountId uuid.UUID, request *dto.UpdateAgreementRequest) (*dto.UpdateAgreementResponse, error)
	GetDatabaseAgreement(ctx context.Context, accountId uuid.UUID, databaseId uuid.UUID) (*dto.GetDatabaseAgreementResponse, error)
	UpdateDatabaseAgreement(ctx context.Context, accountId uuid.UUID, request *dto.UpdateDatabaseAgreementRequest) (*dto.UpdateDatabaseAgreementResponse, error)
}

// ContextResetter invalidates cached context when consent is withdrawn.
type ContextResetter interface {
	Reset(accountId, databaseId uuid.UUID)
}

type agreementService struct {
	uowFactory unitofwork.RepositoryFactory
	contexts   ContextResetter
}

func NewAgreementService(uowFactory unitofwork.RepositoryFactory, contexts ContextResetter) IAgreementService {
	return &agreementService{
		uowFactory: uowFactory,
		contexts:   contexts,
	}
}

func (s *agreementService) GetAgreement(ctx context.Context, accountId uuid.UUID) (*dto.GetAgreementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	agreement, err := uow.AgreementRepository().FindByAccount(ctx, accountId)
	if err != nil {
		return nil, err
	}

	// A missing record reads as consent not granted.
	consent := agreement != nil && agreement.Consent
	return &dto.GetAgreementResponse{Consent: consent}, nil
}

func (s *agreementService) UpdateAgreement(ctx context.Context, accountId uuid.UUID, request *dto.UpdateAgreementRequest) (*dto.UpdateAgreementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	agreement := &entity.Agreement{
		AccountId: accountId,
		Consent:   *request.Consent,
		CreatedAt: now,
		UpdatedAt: &now,
	}
	if err := uow.AgreementRepository().Upsert(ctx, agreement); err != nil {
		return nil, err
	}

	return &dto.UpdateAgreementResponse{Consent: agreement.Consent}, nil
}

func (s *agreementService) GetDatabaseAgreement(ctx context.Context, accountId uuid.UUID, databaseId uuid.UUID) (*dto.GetDatabaseAgreementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.verifyDatabase(ctx, uow, accountId, databaseId); err != nil {
		return nil, err
	}

	agreement, err := uow.DatabaseAgreementRepository().Find(ctx, accountId, databaseId)
	if err != nil {
		return nil, err
	}

	consent := agreement != nil && agreement.DataConsent
	return &dto.GetDatabaseAgreementResponse{
		DatabaseId:  databaseId,
		DataConsent: consent,
	}, nil
}

func (s *agreementService) UpdateDatabaseAgreement(ctx context.Context, accountId uuid.UUID, request *dto.UpdateDatabaseAgreementRequest) (*dto.UpdateDatabaseAgreementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.verifyDatabase(ctx, uow, accountId, request.DatabaseId); err != nil {
		return nil, err
	}

	now := time.Now()
	agreement := &entity.DatabaseAgreement{
		AccountId:   accountId,
		DatabaseId:  request.DatabaseId,
		DataConsent: *request.DataConsent,
		CreatedAt:   now,
		UpdatedAt:   &now,
	}
	if err := uow.DatabaseAgreementRepository().Upsert(ctx, agreement); err != nil {
		return nil, err
	}

	// Withdrawn consent also drops context already derived from the data.
	if !agreement.DataConsent {
		s.contexts.Reset(accountId, request.DatabaseId)
	}

	return &dto.UpdateDatabaseAgreementResponse{
		DatabaseId:  request.DatabaseId,
		DataConsent: agreement.DataConsent,
	}, nil
}

func (s *agreementService) verifyDatabase(ctx context.Context, uow unitofwork.UnitOfWork, accountId, databaseId uuid.UUID) error {
	db, err := uow.DatabaseRepository().FindOne(ctx,
		specification.ByID{ID: databaseId},
		specification.ByAccountID{AccountID: accountId},
	)
	if err != nil {
		return err
	}
	if db == nil {
		return serverutils.NewAppError(fiber.StatusNotFound, "Database not found")
	}
	return nil
}
