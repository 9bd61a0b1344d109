package session

import "errors"

var (
	ErrNetworkUnavailable = errors.New("session: network unavailable")
	ErrNotConnected       = errors.New("session: not connected")
	ErrAlreadyConnected   = errors.New("session: connect not allowed in current state")
	ErrConnectionFailed   = errors.New("session: connection failed")
	ErrSendFailed         = errors.New("session: send failed")
	ErrAckTimeout         = errors.New("session: acknowledgment timeout")
	ErrDialerRequired     = errors.New("session: dialer required")
)
