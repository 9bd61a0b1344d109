package session

import (
	"context"
	"time"

	"github.com/collabroom/roomsync/internal/observability"
	"github.com/collabroom/roomsync/internal/wire"
)

// runTimers owns the periodic heartbeat and latency probe for one
// connection. Both run only while that connection is live; the session
// context tears them down as a unit.
func (e *Engine) runTimers(ctx context.Context, gen uint64) {
	heartbeat := time.NewTicker(e.opts.HeartbeatInterval)
	defer heartbeat.Stop()
	probe := time.NewTicker(e.opts.LatencyCheckInterval)
	defer probe.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			// Keeps intermediary connections and their idle timeouts
			// alive; no ack expected.
			e.sendControl(gen, wire.TypeHeartbeat, false)
		case <-probe.C:
			// The ack round trip of the ping is the latency sample.
			e.sendControl(gen, wire.TypePing, true)
		}
	}
}

// sendControl emits one internally generated message on the live
// connection. Unlike Send, control traffic is never queued: it is
// meaningful only while this connection exists.
func (e *Engine) sendControl(gen uint64, msgType wire.MessageType, requiresAck bool) {
	e.mu.Lock()
	if gen != e.gen || e.state != StateConnected {
		e.mu.Unlock()
		return
	}
	msg := wire.Message{
		ID:             wire.NewID(),
		SequenceNumber: e.seq.Next(),
		Timestamp:      time.Now(),
		Type:           msgType,
		SenderID:       e.params.ParticipantID,
		RequiresAck:    requiresAck,
	}
	data, err := wire.Encode(msg)
	if err != nil {
		e.mu.Unlock()
		e.log.Warn().Err(err).Str("type", string(msgType)).Msg("control encode failed")
		return
	}
	if requiresAck {
		e.registerPendingLocked(msg, 0, time.Now())
	}
	e.sent++
	conn, sctx := e.conn, e.sessCtx
	session := e.params.SessionID
	e.mu.Unlock()

	observability.RecordMessageSent(session, string(msgType))
	if werr := conn.Write(sctx, data); werr != nil {
		// A dead connection surfaces through the receive loop; the
		// pending ping, if any, rides the reconnect migration.
		e.log.Debug().Err(werr).Str("type", string(msgType)).Msg("control send failed")
	}
}
