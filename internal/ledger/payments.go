package ledger

import (
	"context"
	"log/slog"

	"github.com/naveen-gthb/khatabook/internal/calculator"
	"github.com/naveen-gthb/khatabook/internal/feed"
	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

// paymentPurposePrefix prefixes the purpose of every repayment with its loan's purpose.
const paymentPurposePrefix = "Payment for: "

// markAsPaidDetails is the history note recorded by MarkAsPaid.
const markAsPaidDetails = "Marked as paid"

// PaymentInput describes a repayment against a loan.
type PaymentInput struct {
	LoanID  string
	Amount  float64
	Date    int64 // Unix seconds; zero means now
	Details string
}

// PaymentResult is the committed outcome of a repayment.
type PaymentResult struct {
	// Loan is the loan after the payment.
	Loan *models.Transaction

	// Payment is the received transaction created for the payment. MarkAsPaid
	// leaves it nil when the loan was already settled.
	Payment *models.Transaction

	// Applied is the amount credited, after clamping to the remaining balance.
	Applied float64
	Clamped bool
}

// PaymentPreview is what a payment would do, without writing anything.
type PaymentPreview struct {
	Loan *models.Transaction
	calculator.PaymentOutcome
}

// RecordPayment applies a repayment to a loan. Inside one store transaction it
// re-reads the loan, creates the received child, appends the history entry
// and updates the loan's paid and remaining amounts and status. A payment
// larger than the remaining balance is clamped to it.
func (s *Service) RecordPayment(ctx context.Context, userID string, in PaymentInput) (*PaymentResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := calculator.ValidateAmount(in.Amount); err != nil {
		return nil, translate(err)
	}
	if in.Date < 0 {
		return nil, invalid("date must not be negative")
	}
	if in.Date == 0 {
		in.Date = s.now().Unix()
	}

	var result *PaymentResult
	err := s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		loan, err := getPayableLoan(ctx, tx, userID, in.LoanID)
		if err != nil {
			return err
		}
		outcome, err := calculator.ApplyPayment(loan.Amount, loan.PaidAmount, in.Amount)
		if err != nil {
			return translate(err)
		}
		result, err = s.applyPayment(ctx, tx, c, loan, outcome, in.Date, in.Details)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Payment recorded",
		"loan_id", result.Loan.ID,
		"payment_id", result.Payment.ID,
		"applied", result.Applied,
		"clamped", result.Clamped,
		"status", result.Loan.Status,
	)
	return result, nil
}

// MarkAsPaid settles a loan by recording a payment of its current remaining
// balance, read inside the same store transaction. A loan with nothing left
// to pay is returned unchanged with a nil Payment.
func (s *Service) MarkAsPaid(ctx context.Context, userID, loanID string) (*PaymentResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	date := s.now().Unix()

	var result *PaymentResult
	err := s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		loan, err := getPayableLoan(ctx, tx, userID, loanID)
		if err != nil {
			return err
		}
		remaining := calculator.Remaining(loan.Amount, loan.PaidAmount)
		if remaining < models.Epsilon {
			result = &PaymentResult{Loan: loan}
			return nil
		}
		outcome, err := calculator.ApplyPayment(loan.Amount, loan.PaidAmount, remaining)
		if err != nil {
			return translate(err)
		}
		result, err = s.applyPayment(ctx, tx, c, loan, outcome, date, markAsPaidDetails)
		return err
	})
	if err != nil {
		return nil, err
	}

	if result.Payment == nil {
		slog.Info("MarkAsPaid skipped, loan already settled", "loan_id", loanID)
		return result, nil
	}
	slog.Info("Loan marked as paid", "loan_id", loanID, "payment_id", result.Payment.ID, "applied", result.Applied)
	return result, nil
}

// PreviewPayment reports what RecordPayment would do for amount, so callers
// can confirm a payment that closes the loan before committing it.
func (s *Service) PreviewPayment(ctx context.Context, userID, loanID string, amount float64) (*PaymentPreview, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	loan, err := getPayableLoan(ctx, s.store, userID, loanID)
	if err != nil {
		return nil, err
	}
	outcome, err := calculator.ApplyPayment(loan.Amount, loan.PaidAmount, amount)
	if err != nil {
		return nil, translate(err)
	}
	return &PaymentPreview{Loan: loan, PaymentOutcome: outcome}, nil
}

// ListPayments returns the repayments made against a loan, oldest first.
func (s *Service) ListPayments(ctx context.Context, userID, loanID string) ([]*models.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	loan, err := getPayableLoan(ctx, s.store, userID, loanID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPayments(ctx, loan.ID)
	if err != nil {
		return nil, translate(err)
	}
	return payments, nil
}

func getPayableLoan(ctx context.Context, tx storage.TransactionStore, userID, loanID string) (*models.Transaction, error) {
	loan, err := getOwnedTransaction(ctx, tx, userID, loanID)
	if err != nil {
		return nil, err
	}
	if !loan.IsLoan() {
		return nil, precondition("transaction %s is not a loan", loanID)
	}
	return loan, nil
}

// applyPayment writes the child payment and the updated loan. The child and
// the history entry are created together; the loan write is version checked
// so a concurrent payment forces a retry against fresh state.
func (s *Service) applyPayment(ctx context.Context, tx storage.Tx, c *changes, loan *models.Transaction, outcome calculator.PaymentOutcome, date int64, details string) (*PaymentResult, error) {
	payment := &models.Transaction{
		UserID:              loan.UserID,
		ContactID:           loan.ContactID,
		Amount:              outcome.Applied,
		Type:                models.TypeReceived,
		Purpose:             paymentPurposePrefix + loan.Purpose,
		Date:                date,
		CreatedAt:           s.now().Unix(),
		ParentTransactionID: loan.ID,
	}
	if err := tx.CreateTransaction(ctx, payment); err != nil {
		return nil, err
	}
	c.add(feed.CollectionTransactions, payment.ID, feed.KindCreated)

	loan.PaidAmount = outcome.PaidAmount
	loan.RemainingAmount = outcome.RemainingAmount
	loan.Status = outcome.Status
	loan.PaymentHistory = append(loan.PaymentHistory, models.PaymentHistoryItem{
		TransactionID: payment.ID,
		Amount:        outcome.Applied,
		Date:          date,
		Details:       details,
	})
	if err := tx.UpdateTransaction(ctx, loan); err != nil {
		return nil, err
	}
	c.add(feed.CollectionTransactions, loan.ID, feed.KindUpdated)

	return &PaymentResult{
		Loan:    loan,
		Payment: payment,
		Applied: outcome.Applied,
		Clamped: outcome.Clamped,
	}, nil
}
