package service

import (
	"context"
	"encoding/json"
	"time"

	"redis-copilot-be/internal/constant"
	"redis-copilot-be/internal/dto"
	"redis-copilot-be/internal/entity"
	"redis-copilot-be/internal/pkg/logger"
	"redis-copilot-be/internal/pkg/serverutils"
	"redis-copilot-be/internal/repository/specification"
	"redis-copilot-be/internal/repository/unitofwork"
	"redis-copilot-be/pkg/assistant/dbcontext"
	"redis-copilot-be/pkg/assistant/history"
	"redis-copilot-be/pkg/assistant/query"
	"redis-copilot-be/pkg/assistant/socket"
	"redis-copilot-be/pkg/assistant/stream"
	"redis-copilot-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// StreamWriter receives each answer chunk as it arrives. A returned error
// means the caller's output stream is gone and aborts the turn.
type StreamWriter func(chunk string) error

// IAssistantService defines the conversation orchestrator interface
type IAssistantService interface {
	StreamMessage(ctx context.Context, auth *socket.Auth, databaseId uuid.UUID, request *dto.StreamMessageRequest, out StreamWriter) error
	StreamGeneralMessage(ctx context.Context, auth *socket.Auth, request *dto.StreamMessageRequest, out StreamWriter) error
	GetHistory(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID, limit, offset int) (*dto.GetHistoryResponse, error)
	ClearHistory(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID) error
}

// RunnerProvider hands out a live command runner for a stored database.
type RunnerProvider interface {
	Runner(ctx context.Context, db *entity.Database) (database.CommandRunner, error)
}

type assistantService struct {
	uowFactory       unitofwork.RepositoryFactory
	sockets          socket.Factory
	runners          RunnerProvider
	contexts         *dbcontext.Provider
	contextStore     dbcontext.Store
	executor         *query.Executor
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewAssistantService(
	uowFactory unitofwork.RepositoryFactory,
	sockets socket.Factory,
	runners RunnerProvider,
	contexts *dbcontext.Provider,
	contextStore dbcontext.Store,
	executor *query.Executor,
	publisherService IPublisherService,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		uowFactory:       uowFactory,
		sockets:          sockets,
		runners:          runners,
		contexts:         contexts,
		contextStore:     contextStore,
		executor:         executor,
		publisherService: publisherService,
		logger:           log,
	}
}

// turnScope carries the database binding of one turn. A nil databaseId is a
// general conversation: no context, no sandboxed execution.
type turnScope struct {
	accountId   uuid.UUID
	databaseId  *uuid.UUID
	runner      database.CommandRunner
	dataConsent bool
}

// turnRequest is the payload of the stream/general request frame.
type turnRequest struct {
	ConversationId uuid.UUID       `json:"conversation_id"`
	Content        string          `json:"content"`
	History        []history.Entry `json:"history"`
	DbContext      json.RawMessage `json:"db_context,omitempty"`
}

type indexContextRequest struct {
	Index string `json:"index"`
}

type runQueryRequest struct {
	Args []string `json:"args"`
}

// StreamMessage runs one database-scoped turn: consent gate, history load,
// connect, stream, persist.
func (s *assistantService) StreamMessage(ctx context.Context, auth *socket.Auth, databaseId uuid.UUID, request *dto.StreamMessageRequest, out StreamWriter) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.verifyConsent(ctx, uow, auth.AccountID); err != nil {
		return err
	}

	db, err := uow.DatabaseRepository().FindOne(ctx,
		specification.ByID{ID: databaseId},
		specification.ByAccountID{AccountID: auth.AccountID},
	)
	if err != nil {
		return err
	}
	if db == nil {
		return serverutils.NewAppError(fiber.StatusNotFound, "Database not found")
	}

	dbAgreement, err := uow.DatabaseAgreementRepository().Find(ctx, auth.AccountID, databaseId)
	if err != nil {
		return err
	}
	dataConsent := dbAgreement != nil && dbAgreement.DataConsent

	runner, err := s.runners.Runner(ctx, db)
	if err != nil {
		return err
	}

	scope := &turnScope{
		accountId:   auth.AccountID,
		databaseId:  &databaseId,
		runner:      runner,
		dataConsent: dataConsent,
	}
	return s.streamTurn(ctx, auth, scope, request.Content, out)
}

// StreamGeneralMessage runs one turn without a database binding.
func (s *assistantService) StreamGeneralMessage(ctx context.Context, auth *socket.Auth, request *dto.StreamMessageRequest, out StreamWriter) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.verifyConsent(ctx, uow, auth.AccountID); err != nil {
		return err
	}

	scope := &turnScope{accountId: auth.AccountID}
	return s.streamTurn(ctx, auth, scope, request.Content, out)
}

// verifyConsent enforces the account-level agreement. A missing record is
// treated the same as consent withdrawn.
func (s *assistantService) verifyConsent(ctx context.Context, uow unitofwork.UnitOfWork, accountId uuid.UUID) error {
	agreement, err := uow.AgreementRepository().FindByAccount(ctx, accountId)
	if err != nil {
		return err
	}
	if agreement == nil || !agreement.Consent {
		return serverutils.NewAppError(fiber.StatusForbidden, "Assistant consent has not been granted")
	}
	return nil
}

func (s *assistantService) streamTurn(ctx context.Context, auth *socket.Auth, scope *turnScope, content string, out StreamWriter) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.MessageRepository().FindAll(ctx,
		specification.ByAccountID{AccountID: scope.accountId},
		specification.ByDatabaseID{DatabaseID: scope.databaseId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return err
	}
	conversationId := history.ConversationID(turns)

	conn, err := s.sockets.Connect(ctx, auth)
	if err != nil {
		return err
	}
	defer conn.Close()

	acc := stream.NewAccumulator()
	s.registerHandlers(ctx, conn, scope, acc, out)

	payload := turnRequest{
		ConversationId: conversationId,
		Content:        content,
		History:        history.Prepare(turns),
	}
	event := socket.EventGeneral
	if scope.databaseId != nil {
		event = socket.EventStream
		payload.DbContext = s.contexts.DbContext(ctx, scope.accountId, *scope.databaseId, scope.runner, scope.dataConsent)
	}

	ack, err := conn.Request(ctx, event, payload)
	if err != nil {
		return err
	}
	if err := socket.AckError(ack); err != nil {
		return err
	}

	return s.finalizeTurn(ctx, scope, conversationId, content, acc)
}

// registerHandlers wires every inbound event before the request frame is
// sent, so no backend event can race past an unregistered handler.
func (s *assistantService) registerHandlers(ctx context.Context, conn socket.Conn, scope *turnScope, acc *stream.Accumulator, out StreamWriter) {
	conn.On(socket.EventChunk, func(data json.RawMessage) (interface{}, error) {
		text := decodeText(data)
		acc.AppendChunk(text)
		return nil, out(text)
	})
	conn.On(socket.EventToolCall, func(data json.RawMessage) (interface{}, error) {
		acc.AppendStep(constant.ToolStepKindCall, decodeText(data))
		return nil, nil
	})
	conn.On(socket.EventToolResult, func(data json.RawMessage) (interface{}, error) {
		acc.AppendStep(constant.ToolStepKindResult, decodeText(data))
		return nil, nil
	})

	if scope.databaseId == nil {
		return
	}

	conn.On(socket.EventIndexContext, func(data json.RawMessage) (interface{}, error) {
		var req indexContextRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, err
		}
		return s.contexts.IndexContext(ctx, scope.accountId, *scope.databaseId, scope.runner, req.Index, scope.dataConsent), nil
	})
	conn.On(socket.EventRunQuery, func(data json.RawMessage) (interface{}, error) {
		var req runQueryRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, err
		}
		return s.executor.Run(ctx, scope.runner, req.Args, scope.dataConsent), nil
	})
}

// finalizeTurn commits the human/AI pair as one write and announces the
// completed turn on the internal bus.
func (s *assistantService) finalizeTurn(ctx context.Context, scope *turnScope, conversationId uuid.UUID, content string, acc *stream.Accumulator) error {
	now := time.Now()
	humanTurn := &entity.AssistantMessage{
		Id:             uuid.New(),
		AccountId:      scope.accountId,
		DatabaseId:     scope.databaseId,
		ConversationId: conversationId,
		Role:           constant.MessageRoleHuman,
		Content:        content,
		CreatedAt:      now,
	}
	aiTurn := &entity.AssistantMessage{
		Id:             uuid.New(),
		AccountId:      scope.accountId,
		DatabaseId:     scope.databaseId,
		ConversationId: conversationId,
		Role:           constant.MessageRoleAI,
		Content:        acc.Content(),
		Steps:          acc.Steps(),
		CreatedAt:      now.Add(time.Millisecond),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().CreateMany(ctx, []*entity.AssistantMessage{humanTurn, aiTurn}); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.publishTurnCompleted(ctx, scope, conversationId, humanTurn.Id, aiTurn.Id)
	return nil
}

// publishTurnCompleted is auxiliary; a bus failure never fails a committed
// turn.
func (s *assistantService) publishTurnCompleted(ctx context.Context, scope *turnScope, conversationId uuid.UUID, messageIds ...uuid.UUID) {
	msgPayload := dto.PublishTurnCompletedMessage{
		AccountId:      scope.accountId,
		DatabaseId:     scope.databaseId,
		ConversationId: conversationId,
		MessageIds:     messageIds,
		CompletedAt:    time.Now(),
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		s.logger.Warn("Assistant", "Failed to marshal turn-completed payload", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		s.logger.Warn("Assistant", "Failed to publish turn-completed event", map[string]interface{}{"error": err.Error()})
	}
}

// GetHistory lists the turns in one scope, oldest first. A zero limit
// returns everything; Total always counts the whole scope so callers can
// page through it.
func (s *assistantService) GetHistory(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID, limit, offset int) (*dto.GetHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	scopeSpecs := []specification.Specification{
		specification.ByAccountID{AccountID: accountId},
		specification.ByDatabaseID{DatabaseID: databaseId},
	}

	total, err := uow.MessageRepository().Count(ctx, scopeSpecs...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(scopeSpecs, specification.OrderBy{Field: "created_at", Desc: false})
	if limit > 0 {
		listSpecs = append(listSpecs, specification.Pagination{Limit: limit, Offset: offset})
	}

	turns, err := uow.MessageRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	messages := make([]dto.HistoryMessageResponse, 0, len(turns))
	for _, turn := range turns {
		steps := make([]dto.AssistantToolStepResponse, 0, len(turn.Steps))
		for _, step := range turn.Steps {
			steps = append(steps, dto.AssistantToolStepResponse{Kind: step.Kind, Payload: step.Payload})
		}
		messages = append(messages, dto.HistoryMessageResponse{
			Id:             turn.Id,
			DatabaseId:     turn.DatabaseId,
			ConversationId: turn.ConversationId,
			Role:           turn.Role,
			Content:        turn.Content,
			Steps:          steps,
			CreatedAt:      turn.CreatedAt,
		})
	}

	return &dto.GetHistoryResponse{Messages: messages, Total: total}, nil
}

// ClearHistory removes every turn in the scope and, for a database scope,
// resets the cached context so the next turn recomputes it.
func (s *assistantService) ClearHistory(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteAll(ctx, accountId, databaseId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if databaseId != nil {
		s.contextStore.Reset(accountId, *databaseId)
	}
	return nil
}

// decodeText accepts either a JSON string or a raw payload; structured
// payloads are carried verbatim.
func decodeText(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return string(data)
}
