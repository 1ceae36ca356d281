package feed

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by a broker after Close.
var ErrClosed = errors.New("broker closed")

// MemoryBroker is an in-process Broker for single-instance deployments and tests.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[string]map[*subscription]struct{}
	closed bool
}

type subscription struct {
	ch   chan Event
	once sync.Once
}

var _ Broker = (*MemoryBroker)(nil)

// NewMemoryBroker creates an empty broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[*subscription]struct{})}
}

// Publish delivers events to current subscribers without blocking.
func (b *MemoryBroker) Publish(ctx context.Context, events ...Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	for _, ev := range events {
		for sub := range b.subs[ev.UserID] {
			select {
			case sub.ch <- ev:
			default:
				// Subscriber is behind; it will catch up on the next event.
			}
		}
	}
	return nil
}

// Subscribe registers a subscriber for userID.
func (b *MemoryBroker) Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, nil, ErrClosed
	}
	sub := &subscription{ch: make(chan Event, subscriberBuffer)}
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[*subscription]struct{})
	}
	b.subs[userID][sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[userID]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(b.subs, userID)
				}
			}
			b.mu.Unlock()
			close(sub.ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return sub.ch, cancel, nil
}

// Close drops every subscription.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var all []*subscription
	for _, set := range b.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	b.subs = make(map[string]map[*subscription]struct{})
	b.mu.Unlock()

	for _, sub := range all {
		sub.once.Do(func() { close(sub.ch) })
	}
	return nil
}

// subscribers reports how many live subscriptions exist for userID.
func (b *MemoryBroker) subscribers(userID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[userID])
}
