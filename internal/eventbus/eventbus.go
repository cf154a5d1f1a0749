package eventbus

import (
	"context"
	"sync"
	"time"
)

// Envelope is the wire shape every broadcast fan-out message takes,
// regardless of transport. EventType is one of "action.broadcast" (a
// generate_message result queued for delivery, spec.md §4.3) or
// "snapshot.invalidate" (a cache entry the game singleton has just
// superseded, internal/cache).
type Envelope struct {
	ID            string            // Globally unique id (UUID).
	Timestamp     time.Time         // Creation time (UTC).
	Source        string            // Originating game singleton instance.
	EventType     string            // "action.broadcast" | "snapshot.invalidate".
	Version       int               // Payload schema version.
	CorrelationID string            // Links a reaction chain back to its root action.
	Tenant        string            // Reserved for multi-world-cluster deployments; empty today.
	Priority      int               // 0=Low … 9=Critical, used for backpressure.
	Payload       []byte            // JSON (optionally zstd-compressed) message body.
	Metadata      map[string]string // Free-form metadata (e.g. world id, scope).
}

// Filter restricts a subscription to matching events; an empty slice means
// "all".
type Filter struct {
	Types   []string
	Sources []string
}

// Subscription is returned by Subscribe; Unsubscribe stops delivery.
type Subscription interface {
	Unsubscribe()
}

// Handler consumes one delivered event.
type Handler func(ctx context.Context, ev *Envelope)

// Stats is a snapshot of bus-wide counters.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus abstracts the fan-out transport; NewMemoryBus backs local/test
// use, jetstream_bus.go backs a NATS JetStream deployment.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]subscriber
	nextID      int
	stats       Stats
	buffer      chan *Envelope
	capacity    int
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMemoryBus creates an in-memory bus with the given buffer capacity.
func NewMemoryBus(capacity int) EventBus {
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, capacity),
		capacity:    capacity,
	}
	go mb.dispatchLoop()
	return mb
}

func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	select {
	case mb.buffer <- ev:
		mb.mu.Lock()
		mb.stats.Published++
		mb.mu.Unlock()
		return nil
	default:
		// Buffer full: drop low-priority events (<5) rather than block.
		if ev.Priority < 5 {
			mb.mu.Lock()
			mb.stats.Dropped++
			mb.mu.Unlock()
			return nil
		}
		// High-priority events block until space frees or ctx is cancelled.
		select {
		case mb.buffer <- ev:
			mb.mu.Lock()
			mb.stats.Published++
			mb.mu.Unlock()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	mb.mu.Lock()
	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	mb.subscribers[id] = subscriber{filter: f, handler: h, ctx: cctx, cancel: cancel}
	mb.mu.Unlock()

	return &memSub{bus: mb, id: id}, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// dispatchLoop fans out buffered events to matching subscribers.
func (mb *memoryBus) dispatchLoop() {
	for ev := range mb.buffer {
		mb.mu.RLock()
		subs := make([]subscriber, 0, len(mb.subscribers))
		for _, sub := range mb.subscribers {
			subs = append(subs, sub)
		}
		mb.mu.RUnlock()

		for _, sub := range subs {
			if !matchFilter(ev, sub.filter) {
				continue
			}
			// Deliver on a fresh goroutine per subscriber.
			go func(s subscriber) {
				select {
				case <-s.ctx.Done():
					return
				default:
					s.handler(s.ctx, ev)
					mb.mu.Lock()
					mb.stats.Consumed++
					mb.mu.Unlock()
				}
			}(sub)
		}
	}
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources)
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.mu.Lock()
	if sub, ok := s.bus.subscribers[s.id]; ok {
		sub.cancel()
		delete(s.bus.subscribers, s.id)
	}
	s.bus.mu.Unlock()
}
