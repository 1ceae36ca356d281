// Package ledger implements the KhataBook domain: contacts, loans and their
// repayments, aggregate totals, live transaction queries and orders.
//
// Every operation is scoped to the acting user. Mutations run inside a single
// store transaction and publish change events only after the commit.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/naveen-gthb/khatabook/internal/calculator"
	"github.com/naveen-gthb/khatabook/internal/feed"
	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

var (
	// ErrNotFound is returned when a document does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("invalid argument")

	// ErrFailedPrecondition is returned when a document is in the wrong state for the operation.
	ErrFailedPrecondition = errors.New("failed precondition")

	// ErrConflict is returned when a transaction kept losing races with concurrent writers.
	ErrConflict = errors.New("failed to add payment, please try again")

	// ErrPermissionDenied is returned when no user is acting.
	ErrPermissionDenied = errors.New("permission denied")
)

// Service is the Loan Ledger Service.
type Service struct {
	store  storage.Store
	broker feed.Broker
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service. A nil broker gets an in-process one.
func New(store storage.Store, broker feed.Broker, opts ...Option) *Service {
	if broker == nil {
		broker = feed.NewMemoryBroker()
	}
	s := &Service{store: store, broker: broker, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: no acting user", ErrPermissionDenied)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func precondition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFailedPrecondition, fmt.Sprintf(format, args...))
}

// translate maps store and calculator errors onto the ledger's sentinels.
// Errors that already carry a ledger sentinel pass through.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation),
		errors.Is(err, ErrFailedPrecondition), errors.Is(err, ErrConflict),
		errors.Is(err, ErrPermissionDenied):
		return err
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, calculator.ErrInvalidAmount), errors.Is(err, calculator.ErrBelowPaid):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	case errors.Is(err, calculator.ErrAlreadySettled):
		return fmt.Errorf("%w: %w", ErrFailedPrecondition, err)
	}
	return err
}

// changes collects the events produced by one transaction attempt.
type changes struct {
	userID string
	events []feed.Event
}

func (c *changes) add(collection feed.Collection, docID string, kind feed.Kind) {
	c.events = append(c.events, feed.Event{
		UserID:     c.userID,
		Collection: collection,
		DocID:      docID,
		Kind:       kind,
	})
}

// runInTx runs fn atomically and publishes its events after commit. fn gets a
// fresh change set on every attempt.
func (s *Service) runInTx(ctx context.Context, userID string, fn func(ctx context.Context, tx storage.Tx, c *changes) error) error {
	var c *changes
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		c = &changes{userID: userID}
		return fn(ctx, tx, c)
	})
	if err != nil {
		return translate(err)
	}
	s.publish(ctx, c.events)
	return nil
}

func (s *Service) publish(ctx context.Context, events []feed.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.broker.Publish(ctx, events...); err != nil {
		// The write is committed; live views refresh on the next change.
		slog.Warn("Failed to publish change events", "count", len(events), "error", err)
	}
}

// getOwnedTransaction reads a transaction and hides documents owned by others.
func getOwnedTransaction(ctx context.Context, tx storage.TransactionStore, userID, txnID string) (*models.Transaction, error) {
	if txnID == "" {
		return nil, invalid("transaction id is required")
	}
	txn, err := tx.GetTransaction(ctx, txnID)
	if err != nil {
		return nil, translate(err)
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, txnID)
	}
	return txn, nil
}

// getOwnedContact reads a contact and hides documents owned by others.
func getOwnedContact(ctx context.Context, tx storage.ContactStore, userID, contactID string) (*models.Contact, error) {
	if contactID == "" {
		return nil, invalid("contact id is required")
	}
	contact, err := tx.GetContact(ctx, contactID)
	if err != nil {
		return nil, translate(err)
	}
	if contact.UserID != userID {
		return nil, fmt.Errorf("%w: contact %s", ErrNotFound, contactID)
	}
	return contact, nil
}

// adjustTotals applies deltas to the user's totals record and writes it back.
func (s *Service) adjustTotals(ctx context.Context, tx storage.TotalsStore, c *changes, remove, add []*models.Transaction) error {
	totals, err := tx.GetTotals(ctx, c.userID)
	if err != nil {
		return fmt.Errorf("failed to read totals: %w", err)
	}
	for _, t := range remove {
		totals.Apply(t, -1)
	}
	for _, t := range add {
		totals.Apply(t, 1)
	}
	totals.TotalLent = calculator.Round(totals.TotalLent)
	totals.TotalReceived = calculator.Round(totals.TotalReceived)
	totals.UpdatedAt = s.now().Unix()
	if err := tx.PutTotals(ctx, totals); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}
	c.add(feed.CollectionTotals, c.userID, feed.KindUpdated)
	return nil
}
