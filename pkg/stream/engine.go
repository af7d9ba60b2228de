// Copyright 2025 ChainCodec Authors
//
// Package stream implements a reconnecting subscription engine:
// Start/Stop lifecycle, a source-task goroutine and a separate decode
// goroutine joined by sync.WaitGroup, driving an explicit reconnect
// state machine over an abstract LogSource.
package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/chaincodec/chaincodec/pkg/decode"
	"github.com/chaincodec/chaincodec/pkg/metrics"
	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// Config tunes one ChainStream's behavior.
type Config struct {
	RawQueueSize      int
	SubscriberBufSize int
	HandshakeTimeout  time.Duration
	BackoffBase       time.Duration
	BackoffCap        time.Duration
	AllowList         []string // schema names; empty means no filtering
	OnStateChange     func(slug string, state ConnState)

	// Recorder receives connection-state, reconnect, decode, and
	// subscriber-lag observability events. Nil is treated as
	// metrics.NoOp.
	Recorder metrics.Recorder
}

func (c Config) withDefaults() Config {
	if c.RawQueueSize <= 0 {
		c.RawQueueSize = 256
	}
	if c.SubscriberBufSize <= 0 {
		c.SubscriberBufSize = 64
	}
	if c.HandshakeTimeout <= 0 {
		c.HandshakeTimeout = 30 * time.Second
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 500 * time.Millisecond
	}
	if c.BackoffCap <= 0 {
		c.BackoffCap = 64 * time.Second
	}
	if c.Recorder == nil {
		c.Recorder = metrics.NoOp
	}
	return c
}

// ChainStream runs one chain's source task and decode worker: a raw
// queue, a decode worker, and a broadcast bus.
type ChainStream struct {
	slug       string
	source     LogSource
	filter     Filter
	dispatcher *decode.Dispatcher
	registry   *schema.Registry
	cfg        Config
	allow      map[string]bool

	rawQueue  chan value.RawEvent
	broadcast *Broadcaster
	state     connFlag

	logger *log.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewChainStream wires slug's source into a stream that decodes through
// dispatcher/registry and fans out via its own Broadcaster.
func NewChainStream(slug string, source LogSource, filter Filter, dispatcher *decode.Dispatcher, registry *schema.Registry, cfg Config, logger *log.Logger) *ChainStream {
	cfg = cfg.withDefaults()

	var allow map[string]bool
	if len(cfg.AllowList) > 0 {
		allow = make(map[string]bool, len(cfg.AllowList))
		for _, name := range cfg.AllowList {
			allow[name] = true
		}
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[stream:"+slug+"] ", log.LstdFlags)
	}

	broadcast := NewBroadcaster(cfg.SubscriberBufSize)
	broadcast.withRecorder(slug, cfg.Recorder)

	return &ChainStream{
		slug:       slug,
		source:     source,
		filter:     filter,
		dispatcher: dispatcher,
		registry:   registry,
		cfg:        cfg,
		allow:      allow,
		rawQueue:   make(chan value.RawEvent, cfg.RawQueueSize),
		broadcast:  broadcast,
		logger:     logger,
	}
}

// State returns the current connection state.
func (cs *ChainStream) State() ConnState { return cs.state.get() }

// Subscribe registers a new consumer of cs's decoded events.
func (cs *ChainStream) Subscribe() (<-chan BroadcastMessage, func()) {
	return cs.broadcast.Subscribe()
}

// Start launches the source task and decode worker. Start must be
// called at most once per ChainStream.
func (cs *ChainStream) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	cs.cancel = cancel
	cs.wg.Add(2)
	go cs.sourceLoop(ctx)
	go cs.decodeLoop(ctx)
}

// Stop signals an engine-wide shutdown: the source task stops and
// closes its transport, the decode worker drains and exits, and the
// broadcast closes so every subscriber observes end-of-stream.
func (cs *ChainStream) Stop() {
	if cs.cancel != nil {
		cs.cancel()
	}
	cs.wg.Wait()
	_ = cs.source.Close()
	cs.broadcast.Close()
}

func (cs *ChainStream) setState(s ConnState) {
	cs.state.set(s)
	cs.cfg.Recorder.StreamStateChanged(cs.slug, s.String())
	if cs.cfg.OnStateChange != nil {
		cs.cfg.OnStateChange(cs.slug, s)
	}
}

// sourceLoop drives the Connecting -> Subscribed -> Running ->
// Disconnected -> (backoff) -> Connecting state machine.
func (cs *ChainStream) sourceLoop(ctx context.Context) {
	defer cs.wg.Done()
	attempt := 0
	for {
		if ctx.Err() != nil {
			cs.setState(StateDisconnected)
			return
		}

		cs.setState(StateConnecting)
		handshakeCtx, cancel := context.WithTimeout(ctx, cs.cfg.HandshakeTimeout)
		rawCh, err := cs.source.Subscribe(handshakeCtx, cs.filter)
		cancel()
		if err != nil {
			cs.logger.Printf("subscribe failed: %v", err)
			cs.setState(StateDisconnected)
			if !cs.waitBackoff(ctx, &attempt) {
				return
			}
			continue
		}

		cs.setState(StateSubscribed)
		cs.setState(StateRunning)
		attempt = 0

		if cs.pump(ctx, rawCh) {
			return // engine-wide shutdown
		}
		cs.setState(StateDisconnected)
		if !cs.waitBackoff(ctx, &attempt) {
			return
		}
	}
}

// pump copies rawCh into the bounded raw queue, applying backpressure
// to the source whenever the decode worker falls behind, until rawCh
// closes (this attempt ended; the caller reconnects) or ctx is
// canceled (engine-wide shutdown, reported via the bool return).
func (cs *ChainStream) pump(ctx context.Context, rawCh <-chan value.RawEvent) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case raw, ok := <-rawCh:
			if !ok {
				return false
			}
			select {
			case cs.rawQueue <- raw:
			case <-ctx.Done():
				return true
			}
		}
	}
}

// waitBackoff sleeps the reconnect delay for *attempt, then advances
// it. It returns false if ctx was canceled during the wait.
func (cs *ChainStream) waitBackoff(ctx context.Context, attempt *int) bool {
	delay := backoffDelay(*attempt, cs.cfg.BackoffBase, cs.cfg.BackoffCap)
	cs.cfg.Recorder.StreamReconnect(cs.slug, *attempt, delay)
	*attempt++
	select {
	case <-time.After(delay):
		return true
	case <-ctx.Done():
		return false
	}
}

// decodeLoop is the single CPU task per chain: it drains the raw
// queue, drops reorg-removed records and records whose schema fails
// the allow-list, and publishes everything else to the broadcast.
func (cs *ChainStream) decodeLoop(ctx context.Context) {
	defer cs.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-cs.rawQueue:
			if !ok {
				return
			}
			if raw.Removed {
				continue
			}
			decodeStart := time.Now()
			evt, err := cs.dispatcher.DecodeEvent(raw, cs.registry)
			if err != nil {
				if _, ok := err.(*decode.SchemaNotFoundError); ok {
					cs.cfg.Recorder.DecodeSkipped(cs.slug)
					continue
				}
				cs.cfg.Recorder.DecodeAttempt(cs.slug, "", false, time.Since(decodeStart))
				cs.logger.Printf("decode error: %v", err)
				continue
			}
			cs.cfg.Recorder.DecodeAttempt(cs.slug, evt.SchemaName, true, time.Since(decodeStart))
			if cs.allow != nil && !cs.allow[evt.SchemaName] {
				continue
			}
			cs.broadcast.Publish(evt)
		}
	}
}
