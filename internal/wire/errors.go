package wire

import "errors"

var (
	ErrEncode          = errors.New("wire: encoding failed")
	ErrDecode          = errors.New("wire: decoding failed")
	ErrInvalidMessage  = errors.New("wire: invalid message")
	ErrUnknownType     = errors.New("wire: unknown message type")
	ErrMessageTooLarge = errors.New("wire: message too large")
)
