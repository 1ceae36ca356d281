package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces the per-user pub/sub channels.
const channelPrefix = "khatabook:changes:"

// RedisBroker fans events out across server instances with Redis pub/sub.
type RedisBroker struct {
	rdb *redis.Client

	mu     sync.Mutex
	closed bool
}

var _ Broker = (*RedisBroker)(nil)

// NewRedisBroker connects to addr and verifies the connection.
func NewRedisBroker(ctx context.Context, addr string) (*RedisBroker, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisBroker{rdb: rdb}, nil
}

func channelFor(userID string) string {
	return channelPrefix + userID
}

func encodeEvent(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	return payload, nil
}

func decodeEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if ev.UserID == "" || ev.Collection == "" {
		return Event{}, fmt.Errorf("failed to decode event: missing user or collection")
	}
	return ev, nil
}

// Publish sends each event on its user's channel.
func (b *RedisBroker) Publish(ctx context.Context, events ...Event) error {
	if b.isClosed() {
		return ErrClosed
	}
	for _, ev := range events {
		payload, err := encodeEvent(ev)
		if err != nil {
			return err
		}
		if err := b.rdb.Publish(ctx, channelFor(ev.UserID), payload).Err(); err != nil {
			return fmt.Errorf("failed to publish event: %w", err)
		}
	}
	return nil
}

// Subscribe opens a pub/sub subscription on userID's channel.
func (b *RedisBroker) Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error) {
	if b.isClosed() {
		return nil, nil, ErrClosed
	}

	ctx, cancelCtx := context.WithCancel(ctx)
	pubsub := b.rdb.Subscribe(ctx, channelFor(userID))
	// Wait for the subscription confirmation so events published after
	// Subscribe returns are not lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		cancelCtx()
		pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Event, subscriberBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				ev, err := decodeEvent(msg.Payload)
				if err != nil {
					slog.Warn("Dropping malformed change event", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()

	return out, cancelCtx, nil
}

// Close closes the Redis client. Open subscriptions end.
func (b *RedisBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.rdb.Close()
}

func (b *RedisBroker) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}
