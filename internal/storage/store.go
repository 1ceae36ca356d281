// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/naveen-gthb/khatabook/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when a write lost an optimistic concurrency race,
	// or when RunInTx gave up retrying.
	ErrConflict = errors.New("concurrent modification")
)

// TransactionQuery selects transactions for a user. Zero-valued fields do not filter.
type TransactionQuery struct {
	UserID    string
	ContactID string
	Type      models.TransactionType

	// ExcludeChildPayments drops received transactions that repay a loan.
	ExcludeChildPayments bool
}

// ContactStore persists contacts.
type ContactStore interface {
	// CreateContact persists a new contact. ID and timestamps are assigned when empty.
	CreateContact(ctx context.Context, contact *models.Contact) error

	// GetContact returns ErrNotFound if the contact does not exist.
	GetContact(ctx context.Context, contactID string) (*models.Contact, error)

	// ListContacts returns a user's contacts ordered by name.
	ListContacts(ctx context.Context, userID string) ([]*models.Contact, error)

	// UpdateContact overwrites the editable fields and bumps UpdatedAt.
	UpdateContact(ctx context.Context, contact *models.Contact) error

	DeleteContact(ctx context.Context, contactID string) error
}

// TransactionStore persists ledger transactions.
type TransactionStore interface {
	// CreateTransaction persists a new transaction. ID and CreatedAt are
	// assigned when empty; Version starts at 1.
	CreateTransaction(ctx context.Context, txn *models.Transaction) error

	// GetTransaction returns ErrNotFound if the transaction does not exist.
	GetTransaction(ctx context.Context, txnID string) (*models.Transaction, error)

	// ListTransactions returns matching transactions ordered by date, newest first.
	ListTransactions(ctx context.Context, q TransactionQuery) ([]*models.Transaction, error)

	// ListPayments returns the repayments linked to a loan, oldest first.
	ListPayments(ctx context.Context, parentID string) ([]*models.Transaction, error)

	// UpdateTransaction writes txn if its Version still matches the stored one,
	// then increments txn.Version. Returns ErrConflict on a version mismatch.
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error

	DeleteTransaction(ctx context.Context, txnID string) error
}

// TotalsStore persists the per-user materialized totals.
type TotalsStore interface {
	// GetTotals returns zero totals for a user that has none yet.
	GetTotals(ctx context.Context, userID string) (*models.Totals, error)

	PutTotals(ctx context.Context, totals *models.Totals) error

	// ListTotalsUsers returns every user that owns at least one transaction or totals record.
	ListTotalsUsers(ctx context.Context) ([]string, error)
}

// OrderStore persists purchase orders.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, orderID string) error
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil and no error if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Tx is the document API available inside an atomic transaction.
type Tx interface {
	ContactStore
	TransactionStore
	TotalsStore
	OrderStore
}

// Store defines the interface for document storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	Tx
	UserStore

	// RunInTx runs fn inside an atomic transaction. Either every write made
	// through tx commits or none does. fn may be invoked more than once when
	// the transaction conflicts with a concurrent one, so it must not have
	// side effects outside tx.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}
