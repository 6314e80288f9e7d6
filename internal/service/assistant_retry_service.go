package service

import (
	"context"

	"redis-copilot-be/internal/dto"
	"redis-copilot-be/internal/pkg/logger"
	"redis-copilot-be/pkg/assistant/socket"

	"github.com/google/uuid"
)

// AuthResolver exchanges stale turn credentials for fresh ones.
type AuthResolver func(ctx context.Context, stale *socket.Auth) (*socket.Auth, error)

// retryAssistantService retries a turn exactly once when the backend
// rejects the session as expired. The retry only happens while the output
// stream is still untouched; once a chunk has been forwarded the turn is
// no longer safely repeatable.
type retryAssistantService struct {
	inner   IAssistantService
	resolve AuthResolver
	logger  logger.ILogger
}

func NewRetryAssistantService(inner IAssistantService, resolve AuthResolver, log logger.ILogger) IAssistantService {
	return &retryAssistantService{
		inner:   inner,
		resolve: resolve,
		logger:  log,
	}
}

func (s *retryAssistantService) StreamMessage(ctx context.Context, auth *socket.Auth, databaseId uuid.UUID, request *dto.StreamMessageRequest, out StreamWriter) error {
	return s.withRetry(ctx, auth, out, func(auth *socket.Auth, out StreamWriter) error {
		return s.inner.StreamMessage(ctx, auth, databaseId, request, out)
	})
}

func (s *retryAssistantService) StreamGeneralMessage(ctx context.Context, auth *socket.Auth, request *dto.StreamMessageRequest, out StreamWriter) error {
	return s.withRetry(ctx, auth, out, func(auth *socket.Auth, out StreamWriter) error {
		return s.inner.StreamGeneralMessage(ctx, auth, request, out)
	})
}

func (s *retryAssistantService) withRetry(ctx context.Context, auth *socket.Auth, out StreamWriter, turn func(*socket.Auth, StreamWriter) error) error {
	streamed := false
	guardedOut := func(chunk string) error {
		streamed = true
		return out(chunk)
	}

	err := turn(auth, guardedOut)
	if err == nil || streamed || !socket.IsSessionExpired(err) {
		return err
	}

	fresh, resolveErr := s.resolve(ctx, auth)
	if resolveErr != nil {
		s.logger.Warn("Assistant", "Failed to refresh session for retry", map[string]interface{}{"error": resolveErr.Error()})
		return err
	}

	s.logger.Info("Assistant", "Session expired, retrying turn with fresh credentials", map[string]interface{}{"account_id": auth.AccountID})
	return turn(fresh, out)
}

func (s *retryAssistantService) GetHistory(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID, limit, offset int) (*dto.GetHistoryResponse, error) {
	return s.inner.GetHistory(ctx, accountId, databaseId, limit, offset)
}

func (s *retryAssistantService) ClearHistory(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID) error {
	return s.inner.ClearHistory(ctx, accountId, databaseId)
}
