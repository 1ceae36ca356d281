package models

import (
	"errors"
	"fmt"
	"math"
)

// TransactionType distinguishes money given out from money coming back.
type TransactionType string

const (
	TypeLent     TransactionType = "lent"
	TypeReceived TransactionType = "received"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeLent || t == TypeReceived
}

// Status is the repayment state of a lent transaction.
type Status string

const (
	StatusPending Status = "pending"
	StatusPartial Status = "partial"
	StatusPaid    Status = "paid"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// Epsilon is the tolerance used when comparing monetary amounts.
const Epsilon = 0.01

// DeriveStatus computes a loan's status from how much of it has been repaid.
func DeriveStatus(paidAmount, amount float64) Status {
	switch {
	case paidAmount <= 0:
		return StatusPending
	case amount-paidAmount <= Epsilon/2:
		return StatusPaid
	default:
		return StatusPartial
	}
}

// PaymentHistoryItem records one repayment applied to a loan.
type PaymentHistoryItem struct {
	// TransactionID is the ID of the received transaction created for the payment.
	TransactionID string `json:"transactionId"`

	// Amount is the amount applied to the loan.
	Amount float64 `json:"amount"`

	// Date is the Unix timestamp of the payment.
	Date int64 `json:"date"`

	// Details is optional free text entered with the payment.
	Details string `json:"details,omitempty"`
}

// Transaction is the central ledger record.
//
// A lent transaction is a loan and carries its repayment state. A received
// transaction is either standalone money received, or, when ParentTransactionID
// is set, a repayment against that loan.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// UserID is the owner of this transaction.
	UserID string

	// ContactID references the Contact on the other side.
	ContactID string

	// Amount is the principal for a loan or the payment amount for a received transaction.
	Amount float64

	// Type is lent or received.
	Type TransactionType

	// Purpose is free text describing the transaction.
	Purpose string

	// Date is the Unix timestamp of the event. User editable.
	Date int64

	// CreatedAt is the Unix timestamp when the record was created. Immutable.
	CreatedAt int64

	// Status is only meaningful for lent transactions.
	Status Status

	// PaidAmount is the cumulative amount repaid so far.
	PaidAmount float64

	// RemainingAmount is Amount - PaidAmount, kept for query and sort convenience.
	RemainingAmount float64

	// ParentTransactionID is set on received transactions that repay a loan.
	ParentTransactionID string

	// PaymentHistory lists the repayments applied to a loan, oldest first.
	PaymentHistory []PaymentHistoryItem

	// Version is incremented by the store on every write.
	Version int64
}

// IsLoan reports whether t is a lent transaction.
func (t *Transaction) IsLoan() bool {
	return t.Type == TypeLent
}

// IsChildPayment reports whether t is a repayment linked to a loan.
func (t *Transaction) IsChildPayment() bool {
	return t.Type == TypeReceived && t.ParentTransactionID != ""
}

var errMalformed = errors.New("malformed transaction")

// Validate checks that a decoded transaction is well formed. It rejects
// documents instead of silently defaulting unknown values.
func (t *Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", errMalformed, t.Type)
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) || t.Amount <= 0 {
		return fmt.Errorf("%w: amount %v", errMalformed, t.Amount)
	}
	if t.Type == TypeLent {
		if !t.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q", errMalformed, t.Status)
		}
		if t.PaidAmount < 0 || t.RemainingAmount < 0 {
			return fmt.Errorf("%w: negative payment state paid=%v remaining=%v", errMalformed, t.PaidAmount, t.RemainingAmount)
		}
	}
	if t.Type == TypeLent && t.ParentTransactionID != "" {
		return fmt.Errorf("%w: lent transaction with parent %s", errMalformed, t.ParentTransactionID)
	}
	return nil
}
