package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/collabroom/roomsync/internal/observability"
	"github.com/collabroom/roomsync/internal/wire"
)

// pendingSend tracks one in-flight message awaiting acknowledgment.
// Owned exclusively by the engine; exists only between first send and
// ack receipt or retry exhaustion.
type pendingSend struct {
	msg         wire.Message
	attempts    int
	lastAttempt time.Time
	timer       *time.Timer
}

// registerPendingLocked arms the acknowledgment timeout for msg.
// attempts carries the retry count accumulated before this send.
func (e *Engine) registerPendingLocked(msg wire.Message, attempts int, at time.Time) {
	p := &pendingSend{msg: msg, attempts: attempts, lastAttempt: at}
	gen := e.gen
	seq := msg.SequenceNumber
	p.timer = time.AfterFunc(e.opts.AckTimeout, func() {
		e.onAckTimeout(gen, seq)
	})
	e.pending[seq] = p
}

// onAckTimeout drives the bounded fixed-interval retry. The retry
// policy is deliberately conservative: a missing ack is the signal for
// a broken connection, not merely a slow one.
func (e *Engine) onAckTimeout(gen, seq uint64) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	p, ok := e.pending[seq]
	if !ok {
		e.mu.Unlock()
		return
	}

	p.attempts++
	if p.attempts > e.opts.MaxRetryAttempts {
		delete(e.pending, seq)
		e.failures++
		msg := p.msg
		session := e.params.SessionID
		e.mu.Unlock()

		e.log.Warn().
			Err(fmt.Errorf("%w: seq=%d attempts=%d", ErrAckTimeout, seq, p.attempts)).
			Str("type", string(msg.Type)).
			Msg("delivery abandoned")
		observability.RecordDeliveryFailure(session)
		e.cb.onDeliveryFailure(msg)
		return
	}

	p.lastAttempt = time.Now()
	p.timer.Reset(e.opts.AckTimeout)
	conn, sctx := e.conn, e.sessCtx
	data, err := wire.Encode(p.msg)
	e.mu.Unlock()

	if err != nil || conn == nil {
		return
	}
	e.log.Debug().Uint64("seq", seq).Int("attempt", p.attempts).Msg("resending unacknowledged message")
	if werr := conn.Write(sctx, data); werr != nil {
		// The receive loop observes the broken connection and migrates
		// the pending set through the reconnect path.
		e.log.Debug().Err(werr).Uint64("seq", seq).Msg("resend failed")
	}
}

// resolveAckLocked settles the pending entry for seq and records the
// round trip as a latency sample. Returns the new quality tier when
// the sample moved it, and the measured round trip.
func (e *Engine) resolveAckLocked(seq uint64) (rtt time.Duration, resolved bool, changed *Quality) {
	p, ok := e.pending[seq]
	if !ok {
		return 0, false, nil
	}
	p.timer.Stop()
	delete(e.pending, seq)

	rtt = time.Since(p.lastAttempt)
	e.window.add(rtt)
	if q := e.qualityLocked(); q != e.quality {
		e.quality = q
		changed = &q
	}
	return rtt, true, changed
}

// migratePendingLocked moves every unresolved pending send onto the
// outbound queue in sequence order, stopping its timer. Keeps the
// ack-required invariant: pending or queued, never neither.
func (e *Engine) migratePendingLocked() {
	if len(e.pending) == 0 {
		return
	}
	moved := make([]queuedMessage, 0, len(e.pending))
	for _, p := range e.pending {
		p.timer.Stop()
		if p.msg.Type.Control() {
			// Pings are meaningful only on the connection that sent
			// them; they are not replayed.
			continue
		}
		moved = append(moved, queuedMessage{
			msg:         p.msg,
			attempts:    p.attempts,
			lastAttempt: p.lastAttempt,
		})
	}
	clear(e.pending)
	sort.Slice(moved, func(i, j int) bool {
		return moved[i].msg.SequenceNumber < moved[j].msg.SequenceNumber
	})
	for _, qm := range moved {
		e.enqueueLocked(qm)
	}
}
