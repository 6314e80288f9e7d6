package socket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"redis-copilot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

// newTestBackend runs an in-process websocket backend and returns a factory
// pointed at it. The handler receives the upgraded server-side connection.
func newTestBackend(t *testing.T, handler func(ws *websocket.Conn)) Factory {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		handler(ws)
	}))
	t.Cleanup(srv.Close)
	return NewFactory("ws"+strings.TrimPrefix(srv.URL, "http"), logger.NewNopLogger())
}

func testAuth() *Auth {
	return &Auth{AccountID: uuid.New(), SessionToken: "session", CSRFToken: "csrf"}
}

func readFrame(t *testing.T, ws *websocket.Conn) frame {
	t.Helper()
	var f frame
	require.NoError(t, ws.ReadJSON(&f))
	return f
}

func writeFrame(t *testing.T, ws *websocket.Conn, f frame) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(f))
}

func TestConnect_HandshakeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	factory := NewFactory("ws"+strings.TrimPrefix(srv.URL, "http"), logger.NewNopLogger())
	_, err := factory.Connect(context.Background(), testAuth())

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestConnect_ForwardsAuthHeaders(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.Close()
	}))
	defer srv.Close()

	factory := NewFactory("ws"+strings.TrimPrefix(srv.URL, "http"), logger.NewNopLogger())
	conn, err := factory.Connect(context.Background(), testAuth())
	require.NoError(t, err)
	defer conn.Close()

	h := <-headers
	assert.Equal(t, "Bearer session", h.Get("Authorization"))
	assert.Equal(t, "csrf", h.Get("X-Csrf-Token"))
}

func TestRequest_AckRoundTrip(t *testing.T) {
	factory := newTestBackend(t, func(ws *websocket.Conn) {
		f := readFrame(t, ws)
		assert.Equal(t, frameEvent, f.Type)
		assert.Equal(t, EventGeneral, f.Event)
		writeFrame(t, ws, frame{Type: frameAck, ID: f.ID, Data: json.RawMessage(`{"status":"ok"}`)})
	})

	conn, err := factory.Connect(context.Background(), testAuth())
	require.NoError(t, err)
	defer conn.Close()

	ack, err := conn.Request(context.Background(), EventGeneral, map[string]string{"content": "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(ack))
	assert.NoError(t, AckError(ack))
}

func TestRequest_EventsDispatchedBeforeAck(t *testing.T) {
	factory := newTestBackend(t, func(ws *websocket.Conn) {
		f := readFrame(t, ws)
		writeFrame(t, ws, frame{Type: frameEvent, Event: EventChunk, Data: json.RawMessage(`"Hel"`)})
		writeFrame(t, ws, frame{Type: frameEvent, Event: EventChunk, Data: json.RawMessage(`"lo"`)})
		writeFrame(t, ws, frame{Type: frameAck, ID: f.ID})
	})

	conn, err := factory.Connect(context.Background(), testAuth())
	require.NoError(t, err)
	defer conn.Close()

	var got string
	conn.On(EventChunk, func(data json.RawMessage) (interface{}, error) {
		var text string
		require.NoError(t, json.Unmarshal(data, &text))
		got += text
		return nil, nil
	})

	_, err = conn.Request(context.Background(), EventStream, nil)
	require.NoError(t, err)

	// Both chunks arrived before the ack on the wire, so both handlers ran
	// before Request returned.
	assert.Equal(t, "Hello", got)
}

func TestRequest_ErrorFrameAbortsTurn(t *testing.T) {
	factory := newTestBackend(t, func(ws *websocket.Conn) {
		readFrame(t, ws)
		writeFrame(t, ws, frame{Type: frameError, Data: json.RawMessage(`{"code":"internal","message":"backend exploded"}`)})
	})

	conn, err := factory.Connect(context.Background(), testAuth())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Request(context.Background(), EventStream, nil)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, "backend exploded", protoErr.Message)
}

func TestRequest_RateLimitErrorType(t *testing.T) {
	factory := newTestBackend(t, func(ws *websocket.Conn) {
		f := readFrame(t, ws)
		writeFrame(t, ws, frame{Type: frameError, ID: f.ID, Data: json.RawMessage(`{"code":"rate_limit_exceeded","message":"slow down"}`)})
	})

	conn, err := factory.Connect(context.Background(), testAuth())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Request(context.Background(), EventStream, nil)
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
}

func TestBackendInitiatedRequestGetsReply(t *testing.T) {
	replies := make(chan frame, 1)
	factory := newTestBackend(t, func(ws *websocket.Conn) {
		f := readFrame(t, ws)
		writeFrame(t, ws, frame{Type: frameEvent, Event: EventRunQuery, ID: 99, Data: json.RawMessage(`["FT.SEARCH","idx","*"]`)})
		replies <- readFrame(t, ws)
		writeFrame(t, ws, frame{Type: frameAck, ID: f.ID})
	})

	conn, err := factory.Connect(context.Background(), testAuth())
	require.NoError(t, err)
	defer conn.Close()

	conn.On(EventRunQuery, func(data json.RawMessage) (interface{}, error) {
		return "result", nil
	})

	_, err = conn.Request(context.Background(), EventStream, nil)
	require.NoError(t, err)

	select {
	case reply := <-replies:
		assert.Equal(t, frameAck, reply.Type)
		assert.Equal(t, uint64(99), reply.ID)
		assert.JSONEq(t, `"result"`, string(reply.Data))
	case <-time.After(time.Second):
		t.Fatal("backend never received the reply")
	}
}

func TestRequest_ConnectionDropFailsPending(t *testing.T) {
	factory := newTestBackend(t, func(ws *websocket.Conn) {
		readFrame(t, ws)
		ws.Close()
	})

	conn, err := factory.Connect(context.Background(), testAuth())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Request(context.Background(), EventStream, nil)
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestAckError(t *testing.T) {
	assert.NoError(t, AckError(json.RawMessage(`{"status":"ok"}`)))
	assert.NoError(t, AckError(nil))

	err := AckError(json.RawMessage(`{"error":{"code":"internal","message":"boom"}}`))
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)

	err = AckError(json.RawMessage(`{"error":{"code":"rate_limit_exceeded","message":"throttled"}}`))
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
}
