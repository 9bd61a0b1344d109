package session

import "github.com/collabroom/roomsync/internal/wire"

// Callbacks is the collaborator-facing boundary. The engine holds this
// one-directional handle; collaborators never hold the engine back.
// Nil fields are skipped. Callbacks run on engine goroutines and must
// not block.
type Callbacks struct {
	OnMessage                func(wire.Message)
	OnDeliveryFailure        func(wire.Message)
	OnConnectionStatusChange func(State)
	OnQualityChange          func(Quality)
}

func (c Callbacks) onMessage(m wire.Message) {
	if c.OnMessage != nil {
		c.OnMessage(m)
	}
}

func (c Callbacks) onDeliveryFailure(m wire.Message) {
	if c.OnDeliveryFailure != nil {
		c.OnDeliveryFailure(m)
	}
}

func (c Callbacks) onConnectionStatusChange(s State) {
	if c.OnConnectionStatusChange != nil {
		c.OnConnectionStatusChange(s)
	}
}

func (c Callbacks) onQualityChange(q Quality) {
	if c.OnQualityChange != nil {
		c.OnQualityChange(q)
	}
}
