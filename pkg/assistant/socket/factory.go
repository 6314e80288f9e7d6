package socket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"redis-copilot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Auth is the turn-scoped credential set for one connection. It is resolved
// per call and never persisted by the gateway.
type Auth struct {
	AccountID    uuid.UUID
	SessionToken string
	CSRFToken    string
}

// Factory opens one connection to the assistant backend per turn. No
// pooling, no reuse, no automatic reconnection; the caller owns closing the
// connection exactly once per turn.
type Factory interface {
	Connect(ctx context.Context, auth *Auth) (Conn, error)
}

type wsFactory struct {
	url    string
	dialer *websocket.Dialer
	log    logger.ILogger
}

func NewFactory(backendURL string, log logger.ILogger) Factory {
	return &wsFactory{
		url: backendURL,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
		},
		log: log,
	}
}

func (f *wsFactory) Connect(ctx context.Context, auth *Auth) (Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+auth.SessionToken)
	header.Set("X-Csrf-Token", auth.CSRFToken)
	header.Set("X-Account-Id", auth.AccountID.String())

	ws, resp, err := f.dialer.DialContext(ctx, f.url, header)
	if err != nil {
		if resp != nil {
			return nil, &ConnectionError{Err: fmt.Errorf("handshake failed with status %d: %w", resp.StatusCode, err)}
		}
		return nil, &ConnectionError{Err: err}
	}

	f.log.Debug("Socket", "Assistant connection established", map[string]interface{}{"account_id": auth.AccountID})
	return newConn(ws, f.log), nil
}
