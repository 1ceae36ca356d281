package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/naveen-gthb/khatabook/internal/feed"
)

// LiveQuery streams the full result set of a transaction query: once on
// subscribe, and again after every committed change to the user's
// transactions or contacts.
type LiveQuery struct {
	updates chan []TransactionView
	cancel  context.CancelFunc
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// Updates delivers result sets. It is closed when the query ends.
func (q *LiveQuery) Updates() <-chan []TransactionView {
	return q.updates
}

// Close ends the query and releases its subscription. It is safe to call more than once.
func (q *LiveQuery) Close() {
	q.cancel()
	<-q.done
}

// Err returns the error that ended the query, if any.
func (q *LiveQuery) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

func (q *LiveQuery) fail(err error) {
	q.mu.Lock()
	q.err = err
	q.mu.Unlock()
}

// WatchTransactions starts a live query. The query ends when ctx is done or
// Close is called.
func (s *Service) WatchTransactions(ctx context.Context, userID string, f Filter) (*LiveQuery, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	// Subscribe before the first read so no change slips between them.
	events, unsubscribe, err := s.broker.Subscribe(ctx, userID)
	if err != nil {
		cancel()
		return nil, err
	}

	initial, err := s.ListTransactions(ctx, userID, f)
	if err != nil {
		unsubscribe()
		cancel()
		return nil, err
	}

	q := &LiveQuery{
		updates: make(chan []TransactionView, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	q.updates <- initial

	go func() {
		defer close(q.done)
		defer close(q.updates)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if !affectsTransactions(ev) {
					continue
				}
				drain(events)

				views, err := s.ListTransactions(ctx, userID, f)
				if err != nil {
					if ctx.Err() == nil {
						slog.Error("Live query refresh failed", "user_id", userID, "error", err)
						q.fail(err)
					}
					return
				}
				select {
				case q.updates <- views:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return q, nil
}

func affectsTransactions(ev feed.Event) bool {
	return ev.Collection == feed.CollectionTransactions || ev.Collection == feed.CollectionContacts
}

// drain discards queued events; one refresh covers all of them.
func drain(events <-chan feed.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
