package session

import (
	"context"
	"time"

	"github.com/collabroom/roomsync/internal/observability"
	"github.com/collabroom/roomsync/internal/transport"
	"github.com/collabroom/roomsync/internal/wire"
)

// readLoop is the perpetual receive path for one connection: block for
// the next frame, process it, re-issue the wait. It exits when the
// session context is cancelled or the transport errors out.
func (e *Engine) readLoop(ctx context.Context, conn transport.Conn, gen uint64) {
	for {
		data, err := conn.Read(ctx)
		if err != nil {
			e.handleReadError(gen, err)
			return
		}
		e.handleInbound(ctx, conn, gen, data)
	}
}

// handleReadError routes a broken receive loop into the reconnection
// supervisor. Errors from superseded connections are ignored.
func (e *Engine) handleReadError(gen uint64, err error) {
	e.mu.Lock()
	if gen != e.gen || e.state != StateConnected {
		e.mu.Unlock()
		return
	}
	e.log.Warn().Err(err).Msg("receive loop failed, entering reconnect")
	e.teardownLocked(StateReconnecting)
	e.armReconnectLocked(e.opts.ReconnectInterval)
	e.mu.Unlock()

	e.cb.onConnectionStatusChange(StateReconnecting)
}

// handleInbound processes one frame: decode, deduplicate, acknowledge,
// and dispatch. Malformed frames are logged and dropped; the
// connection is unaffected.
func (e *Engine) handleInbound(ctx context.Context, conn transport.Conn, gen uint64, data []byte) {
	msg, err := wire.Decode(data)
	if err != nil {
		e.log.Warn().Err(err).Int("bytes", len(data)).Msg("dropping malformed frame")
		return
	}

	var replies [][]byte
	var deliver *wire.Message
	var qualityChanged *Quality
	var rtt time.Duration
	var rttRecorded bool

	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	e.received++
	session := e.params.SessionID

	// The peer may not have received our earlier ack, so duplicates
	// are re-acknowledged even though they never reach the
	// collaborator again.
	if msg.RequiresAck {
		if ack, aerr := e.buildControlLocked(wire.TypeAcknowledgment, msg.SequenceNumber); aerr == nil {
			replies = append(replies, ack)
		}
	}

	if e.dedup.seen(msg.ID) {
		e.duplicates++
		e.mu.Unlock()

		observability.RecordMessageReceived(session, string(msg.Type))
		observability.RecordDuplicateDropped(session)
		e.log.Debug().Str("id", msg.ID).Msg("duplicate inbound message discarded")
		e.writeReplies(ctx, conn, replies)
		return
	}
	e.dedup.observe(msg.ID)

	switch msg.Type {
	case wire.TypeAcknowledgment, wire.TypePong:
		if p, perr := wire.DecodeAckPayload(msg.Payload); perr == nil {
			rtt, rttRecorded, qualityChanged = e.resolveAckLocked(p.SequenceNumber)
		} else {
			e.log.Warn().Err(perr).Str("type", string(msg.Type)).Msg("dropping ack with bad payload")
		}
	case wire.TypePing:
		if pong, perr := e.buildControlLocked(wire.TypePong, msg.SequenceNumber); perr == nil {
			replies = append(replies, pong)
		}
	case wire.TypeHeartbeat:
		// Liveness only.
	default:
		deliver = &msg
	}
	e.mu.Unlock()

	observability.RecordMessageReceived(session, string(msg.Type))
	if rttRecorded {
		observability.RecordRoundTrip(session, rtt)
	}
	e.writeReplies(ctx, conn, replies)
	if qualityChanged != nil {
		e.cb.onQualityChange(*qualityChanged)
	}
	if deliver != nil {
		e.cb.onMessage(*deliver)
	}
}

// buildControlLocked constructs and encodes an internal control
// message answering sequence number seq.
func (e *Engine) buildControlLocked(msgType wire.MessageType, seq uint64) ([]byte, error) {
	payload, err := wire.EncodeAckPayload(seq)
	if err != nil {
		return nil, err
	}
	msg := wire.Message{
		ID:             wire.NewID(),
		SequenceNumber: e.seq.Next(),
		Timestamp:      time.Now(),
		Type:           msgType,
		Payload:        payload,
		SenderID:       e.params.ParticipantID,
	}
	data, err := wire.Encode(msg)
	if err != nil {
		return nil, err
	}
	e.sent++
	return data, nil
}

// writeReplies sends control responses best effort. A failed reply is
// not queued: the peer redelivers whatever it never saw acknowledged.
func (e *Engine) writeReplies(ctx context.Context, conn transport.Conn, replies [][]byte) {
	for _, data := range replies {
		if err := conn.Write(ctx, data); err != nil {
			e.log.Debug().Err(err).Msg("control reply failed")
			return
		}
	}
}
