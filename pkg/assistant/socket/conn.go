package socket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"redis-copilot-be/internal/pkg/logger"

	"github.com/gorilla/websocket"
)

// Event names multiplexed over one per-turn connection.
const (
	EventStream       = "stream"        // gateway to backend: database-scoped turn
	EventGeneral      = "general"       // gateway to backend: general turn
	EventChunk        = "chunk"         // backend to gateway: answer fragment
	EventToolCall     = "tool_call"     // backend to gateway: trace entry
	EventToolResult   = "tool_result"   // backend to gateway: trace entry
	EventIndexContext = "index_context" // backend to gateway: wants index context
	EventRunQuery     = "run_query"     // backend to gateway: wants a sandboxed query
)

const (
	frameEvent = "event"
	frameAck   = "ack"
	frameError = "error"
)

// frame is the wire envelope. Frames with an id expect a single ack (or
// error) carrying the same id; frames without one are fire-and-forget.
type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	ID    uint64          `json:"id,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Handler consumes one inbound event. A non-nil return value answers
// backend-initiated requests (frames carrying an id); for fire-and-forget
// events the return value is ignored. A returned error on a
// fire-and-forget event is treated as fatal to the connection, since it
// means the caller's output stream is gone.
type Handler func(data json.RawMessage) (interface{}, error)

// Conn is one duplex connection to the assistant backend, alive for a
// single turn. Handlers must be registered before the turn request is sent.
type Conn interface {
	On(event string, h Handler)
	Request(ctx context.Context, event string, payload interface{}) (json.RawMessage, error)
	Close() error
}

type pendingResult struct {
	data json.RawMessage
	err  error
}

type conn struct {
	ws  *websocket.Conn
	log logger.ILogger

	writeMu sync.Mutex

	handlersMu sync.RWMutex
	handlers   map[string]Handler

	pendingMu sync.Mutex
	pending   map[uint64]chan pendingResult
	seq       uint64

	// inbound carries every frame, in arrival order, from the read loop to
	// the dispatch loop. Routing acks through the same ordered queue as
	// events guarantees that when Request returns, every event the backend
	// sent before the ack has already been handled.
	inbound chan frame

	closeOnce sync.Once
	done      chan struct{}
}

func newConn(ws *websocket.Conn, log logger.ILogger) *conn {
	c := &conn{
		ws:       ws,
		log:      log,
		handlers: make(map[string]Handler),
		pending:  make(map[uint64]chan pendingResult),
		inbound:  make(chan frame, 256),
		done:     make(chan struct{}),
	}
	go c.readLoop()
	go c.dispatchLoop()
	return c
}

func (c *conn) On(event string, h Handler) {
	c.handlersMu.Lock()
	c.handlers[event] = h
	c.handlersMu.Unlock()
}

func (c *conn) Request(ctx context.Context, event string, payload interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	id := atomic.AddUint64(&c.seq, 1)
	ch := make(chan pendingResult, 1)

	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	if err := c.write(frame{Type: frameEvent, Event: event, ID: id, Data: data}); err != nil {
		return nil, &ConnectionError{Err: err}
	}

	select {
	case res := <-ch:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, &ConnectionError{Err: errors.New("connection closed")}
	}
}

func (c *conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.ws.Close()
	})
	return err
}

func (c *conn) write(f frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(f)
}

// readLoop is the only reader. It never runs handlers itself, so a slow
// handler cannot stall frame reading beyond the inbound buffer.
func (c *conn) readLoop() {
	defer close(c.inbound)
	for {
		var f frame
		if err := c.ws.ReadJSON(&f); err != nil {
			select {
			case <-c.done:
			default:
				c.log.Warn("Socket", "Read loop terminated", map[string]interface{}{"error": err.Error()})
			}
			c.failPending(&ConnectionError{Err: err})
			return
		}
		select {
		case c.inbound <- f:
		case <-c.done:
			return
		}
	}
}

// dispatchLoop handles frames strictly in arrival order: events run their
// handler to completion, acks resolve the matching pending request.
func (c *conn) dispatchLoop() {
	for f := range c.inbound {
		switch f.Type {
		case frameAck:
			c.resolve(f.ID, pendingResult{data: f.Data})
		case frameError:
			if f.ID != 0 {
				c.resolve(f.ID, pendingResult{err: protocolErrorFrom(f.Data)})
			} else {
				// Backend-signaled protocol error: aborts the turn.
				c.failPending(protocolErrorFrom(f.Data))
			}
		case frameEvent:
			c.dispatchEvent(f)
		}
	}
}

func (c *conn) dispatchEvent(f frame) {
	c.handlersMu.RLock()
	h, ok := c.handlers[f.Event]
	c.handlersMu.RUnlock()
	if !ok {
		c.log.Warn("Socket", "No handler registered for event", map[string]interface{}{"event": f.Event})
		return
	}

	res, err := h(f.Data)
	if f.ID == 0 {
		if err != nil {
			// The only fire-and-forget handler failure is a dead output
			// stream; tear the connection down so the turn aborts.
			c.log.Warn("Socket", "Handler failed, closing connection", map[string]interface{}{"event": f.Event, "error": err.Error()})
			c.Close()
		}
		return
	}

	reply := frame{Type: frameAck, ID: f.ID}
	if err != nil {
		reply.Type = frameError
		reply.Data, _ = json.Marshal(errorPayload{Message: err.Error()})
	} else if raw, isRaw := res.(json.RawMessage); isRaw {
		reply.Data = raw
	} else if res != nil {
		reply.Data, _ = json.Marshal(res)
	}
	if werr := c.write(reply); werr != nil {
		c.log.Warn("Socket", "Failed to answer backend request", map[string]interface{}{"event": f.Event, "error": werr.Error()})
	}
}

func (c *conn) resolve(id uint64, res pendingResult) {
	c.pendingMu.Lock()
	ch, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()
	if ok {
		ch <- res
	}
}

func (c *conn) failPending(err error) {
	c.pendingMu.Lock()
	for id, ch := range c.pending {
		delete(c.pending, id)
		ch <- pendingResult{err: err}
	}
	c.pendingMu.Unlock()
}
