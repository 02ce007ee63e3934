package bridge

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/pushkit/pkg/logger"
)

// Subscription receives events from a MemoryBridge.
type Subscription struct {
	ch     chan Event
	mu     sync.RWMutex
	closed bool
}

// Events returns the channel events arrive on. It is closed when the
// subscription or the bridge is closed.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close is idempotent.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

func (s *Subscription) send(ev Event) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// MemoryBridge delivers events to in-process subscribers without blocking.
// A subscriber whose buffer is full is dropped.
type MemoryBridge struct {
	mu          sync.RWMutex
	subscribers map[*Subscription]struct{}
	bufferSize  int
	closed      bool
	ready       atomic.Bool
	logger      *slog.Logger
	done        chan struct{}
	cleanupWg   sync.WaitGroup
}

// MemoryOption configures a MemoryBridge.
type MemoryOption func(*MemoryBridge)

// WithBufferSize sets the per-subscriber buffer. Minimum 1.
func WithBufferSize(n int) MemoryOption {
	return func(b *MemoryBridge) { b.bufferSize = max(n, 1) }
}

// WithReady sets the initial readiness.
func WithReady(ready bool) MemoryOption {
	return func(b *MemoryBridge) { b.ready.Store(ready) }
}

// WithMemoryLogger sets the logger for dropped events.
func WithMemoryLogger(l *slog.Logger) MemoryOption {
	return func(b *MemoryBridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewMemoryBridge returns a bridge with no subscribers.
func NewMemoryBridge(opts ...MemoryOption) *MemoryBridge {
	b := &MemoryBridge{
		subscribers: make(map[*Subscription]struct{}),
		bufferSize:  16,
		logger:      logger.Discard(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetReady marks the application as able (or unable) to accept events.
func (b *MemoryBridge) SetReady(ready bool) {
	b.ready.Store(ready)
}

// Ready reports the readiness flag.
func (b *MemoryBridge) Ready() bool {
	return b.ready.Load()
}

// Subscribe registers a subscriber that is removed when ctx is done.
func (b *MemoryBridge) Subscribe(ctx context.Context) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{ch: make(chan Event, b.bufferSize)}
	if b.closed {
		_ = sub.Close()
		return sub
	}
	b.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			select {
			case <-ctx.Done():
				b.unsubscribe(sub)
			case <-b.done:
			}
		}()
	}
	return sub
}

// Deliver sends ev to every subscriber. Delivery to a full subscriber is
// dropped and the subscriber removed.
func (b *MemoryBridge) Deliver(ctx context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBridgeClosed
	}
	for sub := range b.subscribers {
		if !sub.send(ev) {
			b.logger.LogAttrs(ctx, slog.LevelWarn, "slow bridge subscriber dropped",
				logger.Component("bridge"),
				logger.EventType(string(ev.Kind)),
			)
			go b.unsubscribe(sub)
		}
	}
	return nil
}

// Subscribers returns the number of active subscribers.
func (b *MemoryBridge) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes every subscription. Further deliveries fail with ErrBridgeClosed.
func (b *MemoryBridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	for sub := range b.subscribers {
		_ = sub.Close()
	}
	clear(b.subscribers)
	b.mu.Unlock()

	b.cleanupWg.Wait()
	return nil
}

func (b *MemoryBridge) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, sub)
	_ = sub.Close()
}
