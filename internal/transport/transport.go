// Package transport owns the socket connection to the sync peer.
//
// Ownership boundary:
// - Conn and Dialer abstractions the engine is tested against
// - websocket dialer and endpoint URL construction
package transport

import (
	"context"
	"errors"
)

var (
	ErrInvalidEndpoint = errors.New("transport: invalid endpoint")
	ErrConnClosed      = errors.New("transport: connection closed")
)

// Conn is one live connection. Read blocks until the next frame or an
// error; after an error the connection is unusable. *wsConn satisfies
// this, and tests substitute an in-memory implementation.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Params carries the handshake query parameters.
type Params struct {
	SessionID     string
	ParticipantID string
	Token         string
}

// Dialer opens connections. The engine never dials directly so tests
// can run against a scripted transport.
type Dialer interface {
	Dial(ctx context.Context, endpoint string, params Params) (Conn, error)
}
