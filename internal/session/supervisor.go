package session

import (
	"context"
	"time"

	"github.com/collabroom/roomsync/internal/observability"
)

// armReconnectLocked schedules one reconnect attempt after delay,
// replacing any attempt already waiting. The state machine keeps the
// at-most-one-connect invariant: only a Reconnecting engine can enter
// Connecting through this path.
func (e *Engine) armReconnectLocked(delay time.Duration) {
	if !e.auto || !e.haveParams {
		return
	}
	if e.reconCancel != nil {
		e.reconCancel()
	}
	rctx, cancel := context.WithCancel(context.Background())
	e.reconCancel = cancel
	go e.reconnectLoop(rctx, delay)
}

// reconnectLoop waits the fixed interval, then retries the last-known
// connect parameters. Repeated failures repeat the cycle until the
// caller disconnects explicitly or a connect succeeds. The interval
// does not grow between attempts.
func (e *Engine) reconnectLoop(ctx context.Context, delay time.Duration) {
	for {
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		delay = e.opts.ReconnectInterval

		e.mu.Lock()
		if ctx.Err() != nil || !e.auto || e.state != StateReconnecting {
			e.mu.Unlock()
			return
		}
		e.state = StateConnecting
		e.reconnects++
		endpoint, params := e.endpoint, e.params
		e.mu.Unlock()

		e.cb.onConnectionStatusChange(StateConnecting)
		observability.RecordReconnectAttempt(params.SessionID)
		e.log.Info().Str("endpoint", endpoint).Msg("reconnect attempt")

		dctx, cancel := context.WithTimeout(ctx, e.opts.ConnectTimeout)
		conn, err := e.dialer.Dial(dctx, endpoint, params)
		cancel()

		if err == nil {
			if ierr := e.installConn(conn); ierr != nil {
				e.log.Debug().Err(ierr).Msg("reconnect superseded")
			}
			return
		}

		e.log.Warn().Err(err).Dur("retry_in", e.opts.ReconnectInterval).Msg("reconnect failed")
		e.mu.Lock()
		if ctx.Err() != nil || !e.auto || e.state != StateConnecting {
			e.mu.Unlock()
			return
		}
		e.state = StateReconnecting
		e.mu.Unlock()
		e.cb.onConnectionStatusChange(StateReconnecting)
	}
}

// onReachability reacts to reachability transitions: unreachable
// forces quality to Unknown, and a recovery while Disconnected or
// Failed re-enters the reconnect path when connect parameters are
// known and the caller has not disconnected explicitly.
func (e *Engine) onReachability(reachable bool) {
	var qualityChanged *Quality
	var reconnecting bool

	e.mu.Lock()
	if q := e.qualityLocked(); q != e.quality {
		e.quality = q
		qualityChanged = &q
	}
	if reachable && e.auto && e.haveParams &&
		(e.state == StateDisconnected || e.state == StateFailed) {
		e.state = StateReconnecting
		e.armReconnectLocked(e.opts.ReconnectInterval)
		reconnecting = true
	}
	e.mu.Unlock()

	e.log.Info().Bool("reachable", reachable).Msg("reachability changed")
	if qualityChanged != nil {
		e.cb.onQualityChange(*qualityChanged)
	}
	if reconnecting {
		e.cb.onConnectionStatusChange(StateReconnecting)
	}
}
