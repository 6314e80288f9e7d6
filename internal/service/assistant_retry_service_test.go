package service

import (
	"context"
	"errors"
	"testing"

	"redis-copilot-be/internal/dto"
	"redis-copilot-be/internal/pkg/logger"
	"redis-copilot-be/pkg/assistant/socket"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedAssistant struct {
	errs  []error
	calls int
	auths []*socket.Auth
	emit  string
}

func (s *scriptedAssistant) StreamMessage(ctx context.Context, auth *socket.Auth, databaseId uuid.UUID, request *dto.StreamMessageRequest, out StreamWriter) error {
	return s.run(auth, out)
}

func (s *scriptedAssistant) StreamGeneralMessage(ctx context.Context, auth *socket.Auth, request *dto.StreamMessageRequest, out StreamWriter) error {
	return s.run(auth, out)
}

func (s *scriptedAssistant) run(auth *socket.Auth, out StreamWriter) error {
	s.auths = append(s.auths, auth)
	err := s.errs[s.calls]
	s.calls++
	if s.emit != "" {
		if werr := out(s.emit); werr != nil {
			return werr
		}
	}
	return err
}

func (s *scriptedAssistant) GetHistory(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID, limit, offset int) (*dto.GetHistoryResponse, error) {
	return &dto.GetHistoryResponse{}, nil
}

func (s *scriptedAssistant) ClearHistory(ctx context.Context, accountId uuid.UUID, databaseId *uuid.UUID) error {
	return nil
}

func sessionExpired() error {
	return &socket.ProtocolError{Code: socket.ErrCodeSessionExpired, Message: "session expired"}
}

func TestRetryService_RetriesExpiredSessionOnce(t *testing.T) {
	inner := &scriptedAssistant{errs: []error{sessionExpired(), nil}}
	fresh := testAuth()
	svc := NewRetryAssistantService(inner, func(ctx context.Context, stale *socket.Auth) (*socket.Auth, error) {
		return fresh, nil
	}, logger.NewNopLogger())

	err := svc.StreamGeneralMessage(context.Background(), testAuth(), &dto.StreamMessageRequest{Content: "hi"}, collect(new([]string)))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Same(t, fresh, inner.auths[1])
}

func TestRetryService_NoSecondRetry(t *testing.T) {
	inner := &scriptedAssistant{errs: []error{sessionExpired(), sessionExpired()}}
	svc := NewRetryAssistantService(inner, func(ctx context.Context, stale *socket.Auth) (*socket.Auth, error) {
		return stale, nil
	}, logger.NewNopLogger())

	err := svc.StreamGeneralMessage(context.Background(), testAuth(), &dto.StreamMessageRequest{Content: "hi"}, collect(new([]string)))
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestRetryService_NoRetryAfterChunks(t *testing.T) {
	inner := &scriptedAssistant{errs: []error{sessionExpired()}, emit: "partial"}
	svc := NewRetryAssistantService(inner, func(ctx context.Context, stale *socket.Auth) (*socket.Auth, error) {
		t.Fatal("resolver must not run once output has been streamed")
		return nil, nil
	}, logger.NewNopLogger())

	var chunks []string
	err := svc.StreamGeneralMessage(context.Background(), testAuth(), &dto.StreamMessageRequest{Content: "hi"}, collect(&chunks))
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, []string{"partial"}, chunks)
}

func TestRetryService_OtherErrorsPassThrough(t *testing.T) {
	inner := &scriptedAssistant{errs: []error{errors.New("boom")}}
	svc := NewRetryAssistantService(inner, func(ctx context.Context, stale *socket.Auth) (*socket.Auth, error) {
		return stale, nil
	}, logger.NewNopLogger())

	err := svc.StreamGeneralMessage(context.Background(), testAuth(), &dto.StreamMessageRequest{Content: "hi"}, collect(new([]string)))
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, inner.calls)
}
