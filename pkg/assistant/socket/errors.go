package socket

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ConnectionError wraps a transport-level failure: the handshake never
// completed or the connection dropped mid-turn.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("assistant connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProtocolError is an error the assistant backend reported in-band: either
// an error frame or an acknowledgement carrying an error payload. It is
// fatal to the current turn.
type ProtocolError struct {
	Code    string
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("assistant protocol error [%s]: %s", e.Code, e.Message)
}

// RateLimitError is the throttling variant of ProtocolError, surfaced as a
// distinct type so callers can tell throttling from generic failure.
type RateLimitError struct {
	ProtocolError
}

// ErrCodeRateLimit is the in-band marker the backend uses when rejecting a
// turn for throttling.
const ErrCodeRateLimit = "rate_limit_exceeded"

// ErrCodeSessionExpired is the in-band marker for a rejected session token.
// Callers may retry once with freshly resolved credentials.
const ErrCodeSessionExpired = "session_expired"

// IsSessionExpired reports whether the backend rejected the turn because the
// session token is no longer valid.
func IsSessionExpired(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe) && pe.Code == ErrCodeSessionExpired
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// protocolErrorFrom decodes an in-band error payload into the matching
// error type.
func protocolErrorFrom(data json.RawMessage) error {
	var p errorPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Message == "" {
		p.Message = string(data)
	}
	pe := ProtocolError{Code: p.Code, Message: p.Message}
	if p.Code == ErrCodeRateLimit {
		return &RateLimitError{ProtocolError: pe}
	}
	return &pe
}

// AckError inspects an acknowledgement payload; a non-nil return means the
// backend closed the turn with an error.
func AckError(data json.RawMessage) error {
	if len(data) == 0 {
		return nil
	}
	var ack struct {
		Error *errorPayload `json:"error"`
	}
	if err := json.Unmarshal(data, &ack); err != nil || ack.Error == nil {
		return nil
	}
	pe := ProtocolError{Code: ack.Error.Code, Message: ack.Error.Message}
	if ack.Error.Code == ErrCodeRateLimit {
		return &RateLimitError{ProtocolError: pe}
	}
	return &pe
}
