package transport

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"nhooyr.io/websocket"
)

// defaultReadLimit bounds a single inbound websocket frame. Sync
// envelopes are small; anything near this size is malformed.
const defaultReadLimit = 4 * 1024 * 1024

// WebsocketDialer dials the sync endpoint over websocket, carrying the
// handshake parameters as query parameters and the token additionally
// as a bearer header.
type WebsocketDialer struct {
	ReadLimit int64
}

func (d *WebsocketDialer) Dial(ctx context.Context, endpoint string, params Params) (Conn, error) {
	target, err := buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if params.Token != "" {
		header.Set("Authorization", "Bearer "+params.Token)
	}

	conn, _, err := websocket.Dial(ctx, target, &websocket.DialOptions{ //nolint:bodyclose // websocket.Dial closes the response body internally
		HTTPHeader: header,
	})
	if err != nil {
		return nil, err
	}

	limit := d.ReadLimit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	conn.SetReadLimit(limit)
	return &wsConn{conn: conn}, nil
}

// BuildURL is exported for tests and diagnostics; Dial uses it.
func BuildURL(endpoint string, params Params) (string, error) {
	return buildURL(endpoint, params)
}

func buildURL(endpoint string, params Params) (string, error) {
	if strings.TrimSpace(endpoint) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidEndpoint)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEndpoint, err)
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidEndpoint, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}

	q := u.Query()
	q.Set("sessionId", params.SessionID)
	q.Set("participantId", params.ParticipantID)
	if params.Token != "" {
		q.Set("token", params.Token)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *wsConn) Write(ctx context.Context, data []byte) error {
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (c *wsConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "disconnect")
}
