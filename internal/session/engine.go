package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabroom/roomsync/internal/observability"
	"github.com/collabroom/roomsync/internal/reach"
	"github.com/collabroom/roomsync/internal/transport"
	"github.com/collabroom/roomsync/internal/wire"
)

// EngineConfig wires an Engine to its collaborators.
type EngineConfig struct {
	Dialer    transport.Dialer
	Monitor   reach.Monitor
	Callbacks Callbacks
	Options   Options
	Logger    zerolog.Logger
}

// Engine orchestrates the synchronization session: it owns the single
// authoritative connection state and every reliability primitive.
// All mutable shared state lives behind one mutex; the receive loop,
// timer ticks, and acknowledgment timeouts re-enter that guarded
// region and never race on it.
type Engine struct {
	opts    Options
	log     zerolog.Logger
	dialer  transport.Dialer
	monitor reach.Monitor
	cb      Callbacks

	seq Sequencer

	mu          sync.Mutex
	state       State
	lastErr     error
	conn        transport.Conn
	sessCtx     context.Context
	sessCancel  context.CancelFunc
	gen         uint64
	reconCancel context.CancelFunc

	endpoint   string
	params     transport.Params
	haveParams bool
	auto       bool

	pending map[uint64]*pendingSend
	queue   *outboundQueue
	dedup   *dedupWindow
	window  *latencyWindow
	quality Quality

	sent       uint64
	received   uint64
	duplicates uint64
	failures   uint64
	reconnects uint64
}

// NewEngine builds an Engine. Monitor defaults to an always-reachable
// flag when nil.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Dialer == nil {
		return nil, ErrDialerRequired
	}
	if cfg.Monitor == nil {
		cfg.Monitor = reach.AlwaysUp()
	}
	opts := cfg.Options.WithDefaults()

	e := &Engine{
		opts:    opts,
		log:     cfg.Logger,
		dialer:  cfg.Dialer,
		monitor: cfg.Monitor,
		cb:      cfg.Callbacks,
		state:   StateDisconnected,
		quality: QualityUnknown,
		pending: make(map[uint64]*pendingSend),
		queue:   newOutboundQueue(opts.QueueCapacity, opts.QueueEvictBatch),
		dedup:   newDedupWindow(opts.DedupCapacity, opts.DedupEvictBatch),
		window:  newLatencyWindow(opts.LatencyWindow, opts.LatencyEvictBatch),
	}
	cfg.Monitor.Subscribe(e.onReachability)
	return e, nil
}

// Connect opens a session against endpoint. Accepted only from the
// Disconnected and Failed states, and refused outright while the
// network is unreachable.
func (e *Engine) Connect(ctx context.Context, endpoint, sessionID, participantID, token string) error {
	params := transport.Params{
		SessionID:     sessionID,
		ParticipantID: participantID,
		Token:         token,
	}

	e.mu.Lock()
	switch e.state {
	case StateDisconnected, StateFailed:
	default:
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyConnected, state)
	}
	if !e.monitor.Reachable() {
		e.mu.Unlock()
		return ErrNetworkUnavailable
	}
	e.endpoint = endpoint
	e.params = params
	e.haveParams = true
	e.auto = true
	e.state = StateConnecting
	e.lastErr = nil
	e.mu.Unlock()
	e.cb.onConnectionStatusChange(StateConnecting)

	return e.dialAndInstall(ctx)
}

func (e *Engine) dialAndInstall(ctx context.Context) error {
	dctx, cancel := context.WithTimeout(ctx, e.opts.ConnectTimeout)
	defer cancel()

	conn, err := e.dialer.Dial(dctx, e.endpoint, e.params)
	if err != nil {
		wrapped := fmt.Errorf("%w: %s", ErrConnectionFailed, err)
		e.mu.Lock()
		changed := e.state == StateConnecting
		if changed {
			e.state = StateFailed
			e.lastErr = wrapped
		}
		e.mu.Unlock()
		if changed {
			e.log.Warn().Err(err).Str("endpoint", e.endpoint).Msg("connect failed")
			e.cb.onConnectionStatusChange(StateFailed)
		}
		return wrapped
	}
	return e.installConn(conn)
}

// installConn promotes a freshly dialed connection to the live
// session: receive loop, heartbeat and latency timers, queue flush.
func (e *Engine) installConn(conn transport.Conn) error {
	e.mu.Lock()
	if e.state != StateConnecting {
		e.mu.Unlock()
		_ = conn.Close()
		return fmt.Errorf("%w: superseded", ErrConnectionFailed)
	}
	e.gen++
	gen := e.gen
	e.conn = conn
	sctx, cancel := context.WithCancel(context.Background())
	e.sessCtx = sctx
	e.sessCancel = cancel
	e.state = StateConnected
	e.lastErr = nil
	backlog := e.queue.takeAll()
	e.mu.Unlock()

	e.log.Info().Str("session", e.params.SessionID).Str("participant", e.params.ParticipantID).Msg("connected")
	e.cb.onConnectionStatusChange(StateConnected)

	go e.readLoop(sctx, conn, gen)
	go e.runTimers(sctx, gen)

	e.flush(sctx, conn, gen, backlog)
	return nil
}

// flush drains the outbound backlog in insertion order. Entries that
// fail to send go back to the front of the queue, order preserved.
func (e *Engine) flush(ctx context.Context, conn transport.Conn, gen uint64, backlog []queuedMessage) {
	if len(backlog) == 0 {
		return
	}

	var failed []queuedMessage
	var delivered []queuedMessage
	now := time.Now()
	for _, qm := range backlog {
		data, err := wire.Encode(qm.msg)
		if err != nil {
			e.log.Warn().Err(err).Uint64("seq", qm.msg.SequenceNumber).Msg("dropping unencodable queued message")
			continue
		}
		qm.lastAttempt = now
		if err := conn.Write(ctx, data); err != nil {
			e.log.Warn().Err(fmt.Errorf("%w: %s", ErrSendFailed, err)).Uint64("seq", qm.msg.SequenceNumber).Msg("flush send failed, requeueing")
			failed = append(failed, qm)
			continue
		}
		delivered = append(delivered, qm)
	}

	e.mu.Lock()
	if gen != e.gen {
		// Connection turned over mid-flush; everything unresolved goes
		// back through the queue on the next session.
		for _, qm := range delivered {
			if qm.msg.RequiresAck {
				failed = append(failed, qm)
			}
		}
		e.queue.prepend(failed)
		e.mu.Unlock()
		return
	}
	e.queue.prepend(failed)
	for _, qm := range delivered {
		e.sent++
		if qm.msg.RequiresAck {
			e.registerPendingLocked(qm.msg, qm.attempts, qm.lastAttempt)
		}
	}
	session := e.params.SessionID
	e.mu.Unlock()

	for _, qm := range delivered {
		observability.RecordMessageSent(session, string(qm.msg.Type))
	}
	e.log.Debug().Int("delivered", len(delivered)).Int("requeued", len(failed)).Msg("outbound queue flushed")
}

// Send assigns a sequence number and either hands the message to the
// transport or queues it. Send never blocks on connection state: when
// not connected the message is queued and Send returns nil. Encoding
// failures are returned directly since the transport never saw the
// message.
func (e *Engine) Send(msgType wire.MessageType, payload []byte, requiresAck bool) error {
	e.mu.Lock()
	msg := wire.Message{
		ID:             wire.NewID(),
		SequenceNumber: e.seq.Next(),
		Timestamp:      time.Now(),
		Type:           msgType,
		Payload:        payload,
		SenderID:       e.params.ParticipantID,
		RequiresAck:    requiresAck,
	}

	data, err := wire.Encode(msg)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	if e.state != StateConnected {
		e.enqueueLocked(queuedMessage{msg: msg})
		e.mu.Unlock()
		return nil
	}

	conn, sctx, gen := e.conn, e.sessCtx, e.gen
	e.mu.Unlock()

	werr := conn.Write(sctx, data)

	e.mu.Lock()
	if werr != nil {
		e.log.Warn().Err(fmt.Errorf("%w: %s", ErrSendFailed, werr)).Uint64("seq", msg.SequenceNumber).Msg("transport send failed, queueing")
		e.enqueueLocked(queuedMessage{msg: msg, attempts: 1, lastAttempt: time.Now()})
		e.mu.Unlock()
		return nil
	}
	if gen != e.gen {
		// Connection turned over during the write; the delivery is
		// unverifiable, so ack-required messages go back on the queue.
		if requiresAck {
			e.enqueueLocked(queuedMessage{msg: msg, attempts: 1, lastAttempt: time.Now()})
		}
		e.mu.Unlock()
		return nil
	}
	e.sent++
	if requiresAck {
		e.registerPendingLocked(msg, 0, time.Now())
	}
	session := e.params.SessionID
	e.mu.Unlock()

	observability.RecordMessageSent(session, string(msgType))
	return nil
}

// enqueueLocked buffers qm and reports any ack-required entries the
// bounded queue had to abandon to admit it.
func (e *Engine) enqueueLocked(qm queuedMessage) {
	evicted := e.queue.append(qm)
	if len(evicted) == 0 {
		return
	}
	var abandoned []wire.Message
	for _, old := range evicted {
		if old.msg.RequiresAck {
			e.failures++
			abandoned = append(abandoned, old.msg)
		}
	}
	session := e.params.SessionID
	e.log.Warn().Int("evicted", len(evicted)).Msg("outbound queue full, evicting oldest")
	if len(abandoned) == 0 {
		return
	}
	go func() {
		for _, m := range abandoned {
			observability.RecordDeliveryFailure(session)
			e.cb.onDeliveryFailure(m)
		}
	}()
}

// Disconnect tears the session down: every timer is cancelled, the
// transport closed, and state left at Disconnected. Idempotent.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	e.auto = false
	if e.reconCancel != nil {
		e.reconCancel()
		e.reconCancel = nil
	}
	changed := e.state != StateDisconnected
	e.teardownLocked(StateDisconnected)
	e.mu.Unlock()

	if changed {
		e.log.Info().Msg("disconnected")
		e.cb.onConnectionStatusChange(StateDisconnected)
	}
}

// ForceReconnect drops the current connection and immediately runs the
// supervisor's attempt path with the last-known parameters.
func (e *Engine) ForceReconnect() error {
	e.mu.Lock()
	if !e.haveParams {
		e.mu.Unlock()
		return ErrNotConnected
	}
	e.auto = true
	changed := e.state != StateReconnecting
	e.teardownLocked(StateReconnecting)
	e.armReconnectLocked(0)
	e.mu.Unlock()

	if changed {
		e.cb.onConnectionStatusChange(StateReconnecting)
	}
	return nil
}

// teardownLocked invalidates the live session as a unit: generation
// bump, timer cancellation, transport close, and migration of every
// unresolved pending send back onto the queue so no ack-required
// message is lost between states.
func (e *Engine) teardownLocked(next State) {
	e.gen++
	if e.sessCancel != nil {
		e.sessCancel()
		e.sessCancel = nil
		e.sessCtx = nil
	}
	if e.conn != nil {
		_ = e.conn.Close()
		e.conn = nil
	}
	e.migratePendingLocked()
	e.state = next
}

// State returns the current connection state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastError returns the reason for the most recent Failed transition.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Quality returns the current connection quality tier.
func (e *Engine) Quality() Quality {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.qualityLocked()
}

func (e *Engine) qualityLocked() Quality {
	if !e.monitor.Reachable() {
		return QualityUnknown
	}
	avg, ok := e.window.average()
	if !ok {
		return QualityUnknown
	}
	return qualityFor(avg)
}

// Statistics returns a snapshot of the engine counters and the derived
// latency figures.
func (e *Engine) Statistics() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	avg, _ := e.window.average()
	return Statistics{
		MessagesSent:      e.sent,
		MessagesReceived:  e.received,
		DuplicatesDropped: e.duplicates,
		DeliveryFailures:  e.failures,
		ReconnectAttempts: e.reconnects,
		QueuedMessages:    e.queue.len(),
		PendingAcks:       len(e.pending),
		LatencySamples:    e.window.len(),
		AverageLatency:    avg,
		Quality:           e.qualityLocked(),
	}
}
