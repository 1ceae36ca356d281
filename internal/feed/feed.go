// Package feed fans out committed document changes to live queries.
package feed

import "context"

// Collection names a document collection.
type Collection string

const (
	CollectionTransactions Collection = "transactions"
	CollectionContacts     Collection = "contacts"
	CollectionTotals       Collection = "totals"
	CollectionOrders       Collection = "orders"
)

// Kind describes what happened to a document.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
)

// Event announces a committed change to one document.
type Event struct {
	UserID     string     `json:"userId"`
	Collection Collection `json:"collection"`
	DocID      string     `json:"docId"`
	Kind       Kind       `json:"kind"`
}

// Broker delivers events to subscribers of the same user.
// Delivery is best effort: a slow subscriber misses events rather than
// blocking publishers, so subscribers must re-read state on each event.
type Broker interface {
	Publish(ctx context.Context, events ...Event) error

	// Subscribe returns a channel of events for userID and a cancel func that
	// releases the subscription and closes the channel. The subscription is
	// also released when ctx is done.
	Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error)

	Close() error
}

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 16
