package wire

import (
	"encoding/json"
	"fmt"
)

// MaxEncodedSize bounds a single encoded frame. Oversized inbound
// frames are rejected before allocation-heavy decoding.
const MaxEncodedSize = 1 << 20

// Encode serializes msg into its JSON wire envelope.
func Encode(msg Message) ([]byte, error) {
	if err := msg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncode, err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncode, err)
	}
	if len(data) > MaxEncodedSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(data))
	}
	return data, nil
}

// Decode parses one wire envelope. Malformed frames are a local,
// non-fatal condition for the caller.
func Decode(data []byte) (Message, error) {
	if len(data) > MaxEncodedSize {
		return Message{}, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(data))
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %s", ErrDecode, err)
	}
	if err := msg.Validate(); err != nil {
		return Message{}, fmt.Errorf("%w: %s", ErrDecode, err)
	}
	return msg, nil
}

// AckPayload is the payload of acknowledgment and pong messages,
// correlating them with the sequence number they answer.
type AckPayload struct {
	SequenceNumber uint64 `json:"sequenceNumber"`
}

func EncodeAckPayload(seq uint64) ([]byte, error) {
	data, err := json.Marshal(AckPayload{SequenceNumber: seq})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncode, err)
	}
	return data, nil
}

func DecodeAckPayload(data []byte) (AckPayload, error) {
	var p AckPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return AckPayload{}, fmt.Errorf("%w: %s", ErrDecode, err)
	}
	if p.SequenceNumber == 0 {
		return AckPayload{}, fmt.Errorf("%w: missing sequenceNumber", ErrDecode)
	}
	return p, nil
}
