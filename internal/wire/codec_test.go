package wire

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	msg := Message{
		ID:             NewID(),
		SequenceNumber: 7,
		Timestamp:      time.Unix(1700000000, 0).UTC(),
		Type:           TypeDocumentChanged,
		Payload:        []byte(`{"docId":"d.1"}`),
		SenderID:       "participant.a",
		RequiresAck:    true,
	}
	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != msg.ID || got.SequenceNumber != 7 || got.Type != TypeDocumentChanged {
		t.Fatalf("unexpected message: %+v", got)
	}
	if !bytes.Equal(got.Payload, msg.Payload) {
		t.Fatalf("payload mismatch: %q", got.Payload)
	}
	if !got.RequiresAck {
		t.Fatalf("requiresAcknowledgment lost")
	}
}

func TestEncodeRejectsUnknownType(t *testing.T) {
	_, err := Encode(Message{
		ID:             NewID(),
		SequenceNumber: 1,
		Type:           MessageType("bogus"),
		SenderID:       "p.1",
	})
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}
}

func TestEncodeRejectsMissingID(t *testing.T) {
	_, err := Encode(Message{SequenceNumber: 1, Type: TypeHeartbeat})
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("not json at all")},
		{"empty object", []byte(`{}`)},
		{"unknown type", []byte(`{"id":"x","sequenceNumber":1,"type":"nope","senderId":"p"}`)},
		{"zero sequence", []byte(`{"id":"x","sequenceNumber":0,"type":"heartbeat","senderId":"p"}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.data); !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestAckPayloadRoundTrip(t *testing.T) {
	data, err := EncodeAckPayload(42)
	if err != nil {
		t.Fatalf("encode ack payload: %v", err)
	}
	p, err := DecodeAckPayload(data)
	if err != nil {
		t.Fatalf("decode ack payload: %v", err)
	}
	if p.SequenceNumber != 42 {
		t.Fatalf("unexpected sequence: %d", p.SequenceNumber)
	}
}

func TestDecodeAckPayloadMissingSequence(t *testing.T) {
	if _, err := DecodeAckPayload([]byte(`{}`)); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestControlTypes(t *testing.T) {
	for _, typ := range []MessageType{TypeHeartbeat, TypePing, TypePong, TypeAcknowledgment} {
		if !typ.Control() {
			t.Fatalf("%s should be control", typ)
		}
	}
	for _, typ := range []MessageType{TypeContextUpdate, TypeDecisionProposed, TypeError} {
		if typ.Control() {
			t.Fatalf("%s should not be control", typ)
		}
	}
}
