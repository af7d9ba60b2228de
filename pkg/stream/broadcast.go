// Copyright 2025 ChainCodec Authors

package stream

import (
	"sync"

	"github.com/google/uuid"

	"github.com/chaincodec/chaincodec/pkg/metrics"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// BroadcastMessage is one item delivered to a stream subscriber.
// LaggedBy is nonzero when the broadcast had to drop that many earlier
// messages for this subscriber to make room, under the oldest-drop
// rule. The subscriber never loses the notice, only the dropped events
// themselves.
type BroadcastMessage struct {
	Event    value.DecodedEvent
	LaggedBy int
}

type subscriber struct {
	ch     chan BroadcastMessage
	lagged int
}

// Broadcaster fans one chain's decoded events out to N subscribers with
// oldest-drop-on-overflow semantics per subscriber: a slow subscriber
// never blocks the pipeline or any other subscriber. Publish is only
// ever called from the single decode worker that owns a Broadcaster,
// so the per-subscriber lag counter needs no locking of its own: the
// map mutex alone protects concurrent Subscribe/Close.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[uuid.UUID]*subscriber
	bufSize int
	closed  bool

	slug string
	rec  metrics.Recorder
}

// NewBroadcaster returns a Broadcaster whose per-subscriber buffer
// holds bufSize messages before the oldest-drop rule kicks in.
func NewBroadcaster(bufSize int) *Broadcaster {
	if bufSize <= 0 {
		bufSize = 1
	}
	return &Broadcaster{subs: make(map[uuid.UUID]*subscriber), bufSize: bufSize, rec: metrics.NoOp}
}

// withRecorder attaches slug/rec so Publish can report subscriber-lag
// events; ChainStream calls this once, right after construction.
func (b *Broadcaster) withRecorder(slug string, rec metrics.Recorder) {
	if rec == nil {
		rec = metrics.NoOp
	}
	b.slug = slug
	b.rec = rec
}

// Subscribe registers a new subscriber and returns its channel plus an
// unsubscribe function. The channel is closed either by calling the
// unsubscribe function or by Close (end-of-stream).
func (b *Broadcaster) Subscribe() (<-chan BroadcastMessage, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	sub := &subscriber{ch: make(chan BroadcastMessage, b.bufSize)}
	if b.closed {
		close(sub.ch)
		return sub.ch, func() {}
	}
	b.subs[id] = sub
	return sub.ch, func() { b.unsubscribe(id) }
}

func (b *Broadcaster) unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.ch)
}

// Publish delivers evt to every current subscriber. A subscriber whose
// buffer is full has its oldest queued message dropped to make room,
// and the dropped count accumulates in LaggedBy until a send finally
// succeeds. A dropped message's own LaggedBy is added to the count, so
// the notice carries forward to the next message that is queued.
func (b *Broadcaster) Publish(evt value.DecodedEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		msg := BroadcastMessage{Event: evt, LaggedBy: sub.lagged}
		select {
		case sub.ch <- msg:
			sub.lagged = 0
			continue
		default:
		}

		select {
		case dropped := <-sub.ch:
			sub.lagged += dropped.LaggedBy
		default:
		}
		sub.lagged++
		b.rec.SubscriberLagged(b.slug, 1)
		msg.LaggedBy = sub.lagged
		select {
		case sub.ch <- msg:
			sub.lagged = 0
		default:
			// Channel refilled between the drop and the retry; the lag
			// count simply carries forward to the next Publish.
		}
	}
}

// Close ends the broadcast: every subscriber channel is closed, which
// each subscriber observes as end-of-stream. Any subscriber registered
// after Close gets an already-closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}
