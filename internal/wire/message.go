package wire

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the semantic kind of a message. The payload of
// non-control types is opaque to this layer.
type MessageType string

const (
	TypeContextUpdate       MessageType = "context_update"
	TypeParticipantJoined   MessageType = "participant_joined"
	TypeParticipantLeft     MessageType = "participant_left"
	TypeDocumentChanged     MessageType = "document_changed"
	TypeDecisionProposed    MessageType = "decision_proposed"
	TypeDecisionVoted       MessageType = "decision_voted"
	TypeVoiceCommandQueued  MessageType = "voice_command_queued"
	TypeAIResponseGenerated MessageType = "ai_response_generated"
	TypeConflictDetected    MessageType = "conflict_detected"
	TypeConflictResolved    MessageType = "conflict_resolved"
	TypeHeartbeat           MessageType = "heartbeat"
	TypePing                MessageType = "ping"
	TypePong                MessageType = "pong"
	TypeAcknowledgment      MessageType = "acknowledgment"
	TypeError               MessageType = "error"
)

var knownTypes = map[MessageType]struct{}{
	TypeContextUpdate:       {},
	TypeParticipantJoined:   {},
	TypeParticipantLeft:     {},
	TypeDocumentChanged:     {},
	TypeDecisionProposed:    {},
	TypeDecisionVoted:       {},
	TypeVoiceCommandQueued:  {},
	TypeAIResponseGenerated: {},
	TypeConflictDetected:    {},
	TypeConflictResolved:    {},
	TypeHeartbeat:           {},
	TypePing:                {},
	TypePong:                {},
	TypeAcknowledgment:      {},
	TypeError:               {},
}

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// Control reports whether t is transport-internal and never dispatched
// to the collaborator.
func (t MessageType) Control() bool {
	switch t {
	case TypeHeartbeat, TypePing, TypePong, TypeAcknowledgment:
		return true
	}
	return false
}

// Message is the wire envelope. Immutable once constructed.
type Message struct {
	ID             string          `json:"id"`
	SequenceNumber uint64          `json:"sequenceNumber"`
	Timestamp      time.Time       `json:"timestamp"`
	Type           MessageType     `json:"type"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	SenderID       string          `json:"senderId"`
	RequiresAck    bool            `json:"requiresAcknowledgment"`
}

func (m Message) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidMessage)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, string(m.Type))
	}
	if m.SequenceNumber == 0 {
		return fmt.Errorf("%w: missing sequenceNumber", ErrInvalidMessage)
	}
	return nil
}

// NewID returns a fresh message id.
func NewID() string {
	return uuid.NewString()
}
