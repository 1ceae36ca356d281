package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/naveen-gthb/khatabook/internal/models"
)

var (
	// ErrInvalidAmount is returned for zero, negative or non-finite amounts.
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrAlreadySettled is returned when a payment targets a loan with nothing left to pay.
	ErrAlreadySettled = errors.New("loan is already paid")

	// ErrBelowPaid is returned when a loan's principal is edited below what was already repaid.
	ErrBelowPaid = errors.New("amount cannot be less than the amount already paid")
)

// PaymentOutcome describes the loan state after a payment is applied.
type PaymentOutcome struct {
	// Applied is the amount actually credited to the loan. It differs from
	// the requested amount only when the request exceeded the remaining balance.
	Applied float64

	// Clamped is true when the requested amount was reduced to the remaining balance.
	Clamped bool

	PaidAmount      float64
	RemainingAmount float64
	Status          models.Status

	// ClosesLoan is true when the payment brings the remaining balance to zero.
	ClosesLoan bool
}

// Round rounds an amount to cents.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// MaxAmount is the largest amount accepted for a single transaction or payment.
const MaxAmount = 1e12

// ValidateAmount checks that v is usable as a monetary amount once rounded
// to cents: it must be at least one cent and no more than MaxAmount.
func ValidateAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, v)
	}
	if r := Round(v); r <= 0 || r > MaxAmount {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, v)
	}
	return nil
}

// Remaining returns amount - paid, never negative.
func Remaining(amount, paid float64) float64 {
	r := Round(amount - paid)
	if r < 0 {
		return 0
	}
	return r
}

// ApplyPayment computes the loan state after crediting payment against a loan
// of the given principal that already has paidAmount repaid.
//
// A payment larger than the remaining balance is clamped to it, so the loan
// closes and PaidAmount never exceeds the principal.
func ApplyPayment(amount, paidAmount, payment float64) (PaymentOutcome, error) {
	if err := ValidateAmount(payment); err != nil {
		return PaymentOutcome{}, err
	}

	remaining := Remaining(amount, paidAmount)
	if remaining < models.Epsilon {
		return PaymentOutcome{}, ErrAlreadySettled
	}

	out := PaymentOutcome{Applied: Round(payment)}
	if out.Applied >= remaining-models.Epsilon/2 {
		out.Clamped = out.Applied > remaining
		out.Applied = remaining
		out.PaidAmount = Round(amount)
		out.RemainingAmount = 0
	} else {
		out.PaidAmount = Round(paidAmount + out.Applied)
		out.RemainingAmount = Remaining(amount, out.PaidAmount)
	}
	out.Status = models.DeriveStatus(out.PaidAmount, amount)
	out.ClosesLoan = out.Status == models.StatusPaid
	return out, nil
}

// ReversePayment computes the loan state after a previously applied payment is removed.
func ReversePayment(amount, paidAmount, payment float64) (paid, remaining float64, status models.Status) {
	paid = Round(paidAmount - payment)
	if paid < 0 {
		paid = 0
	}
	remaining = Remaining(amount, paid)
	return paid, remaining, models.DeriveStatus(paid, amount)
}

// Reprice computes the loan state after its principal is edited.
func Reprice(amount, paidAmount float64) (remaining float64, status models.Status, err error) {
	if err := ValidateAmount(amount); err != nil {
		return 0, "", err
	}
	if Round(amount) < Round(paidAmount) {
		return 0, "", fmt.Errorf("%w: amount %.2f, paid %.2f", ErrBelowPaid, amount, paidAmount)
	}
	remaining = Remaining(amount, paidAmount)
	return remaining, models.DeriveStatus(paidAmount, amount), nil
}
