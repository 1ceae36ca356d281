package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/naveen-gthb/khatabook/internal/calculator"
	"github.com/naveen-gthb/khatabook/internal/feed"
	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

// TransactionInput describes a new transaction.
type TransactionInput struct {
	ContactID string
	Amount    float64
	Type      models.TransactionType
	Purpose   string
	Date      int64 // Unix seconds; zero means now
}

// TransactionUpdate lists the fields an edit may change. Nil fields are left alone.
type TransactionUpdate struct {
	ContactID *string
	Amount    *float64
	Type      *models.TransactionType
	Purpose   *string
	Date      *int64
}

// Filter narrows ListTransactions and WatchTransactions.
type Filter struct {
	ContactID            string
	Type                 models.TransactionType
	ExcludeChildPayments bool
}

// TransactionView is a transaction with its contact's display name.
type TransactionView struct {
	*models.Transaction
	ContactName string
}

// CreateLoan records money lent to a contact.
func (s *Service) CreateLoan(ctx context.Context, userID, contactID string, amount float64, purpose string, date int64) (*models.Transaction, error) {
	return s.CreateTransaction(ctx, userID, TransactionInput{
		ContactID: contactID,
		Amount:    amount,
		Type:      models.TypeLent,
		Purpose:   purpose,
		Date:      date,
	})
}

// CreateTransaction records a loan or a standalone received transaction and
// adds it to the user's totals.
func (s *Service) CreateTransaction(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, invalid("unknown transaction type %q", in.Type)
	}
	if err := calculator.ValidateAmount(in.Amount); err != nil {
		return nil, translate(err)
	}
	if in.Date < 0 {
		return nil, invalid("date must not be negative")
	}

	now := s.now().Unix()
	if in.Date == 0 {
		in.Date = now
	}

	var created *models.Transaction
	err := s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		if _, err := getOwnedContact(ctx, tx, userID, in.ContactID); err != nil {
			return err
		}

		txn := &models.Transaction{
			UserID:    userID,
			ContactID: in.ContactID,
			Amount:    calculator.Round(in.Amount),
			Type:      in.Type,
			Purpose:   in.Purpose,
			Date:      in.Date,
			CreatedAt: now,
		}
		if txn.IsLoan() {
			txn.Status = models.StatusPending
			txn.RemainingAmount = txn.Amount
		}
		if err := tx.CreateTransaction(ctx, txn); err != nil {
			return err
		}
		c.add(feed.CollectionTransactions, txn.ID, feed.KindCreated)

		if err := s.adjustTotals(ctx, tx, c, nil, []*models.Transaction{txn}); err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Transaction created",
		"transaction_id", created.ID,
		"type", created.Type,
		"amount", created.Amount,
	)
	return created, nil
}

// GetTransaction returns one of the user's transactions.
func (s *Service) GetTransaction(ctx context.Context, userID, txnID string) (*models.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return getOwnedTransaction(ctx, s.store, userID, txnID)
}

// EditTransaction changes a transaction's fields and moves its contribution
// in the totals from the old values to the new ones.
//
// A loan's amount can shrink only down to what has been repaid. A loan's type
// is fixed once repayments exist. Repayments only accept purpose and date edits.
func (s *Service) EditTransaction(ctx context.Context, userID, txnID string, upd TransactionUpdate) (*models.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if upd.Type != nil && !upd.Type.Valid() {
		return nil, invalid("unknown transaction type %q", *upd.Type)
	}
	if upd.Amount != nil {
		if err := calculator.ValidateAmount(*upd.Amount); err != nil {
			return nil, translate(err)
		}
	}
	if upd.Date != nil && *upd.Date <= 0 {
		return nil, invalid("date must be positive")
	}

	var edited *models.Transaction
	err := s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		txn, err := getOwnedTransaction(ctx, tx, userID, txnID)
		if err != nil {
			return err
		}
		before := *txn

		if txn.IsChildPayment() {
			if changesContact(upd, txn) || changesAmount(upd, txn) || changesType(upd, txn) {
				return precondition("a repayment only accepts purpose and date edits")
			}
		}

		if changesContact(upd, txn) {
			if _, err := getOwnedContact(ctx, tx, userID, *upd.ContactID); err != nil {
				return err
			}
			txn.ContactID = *upd.ContactID
			if txn.IsLoan() {
				if err := moveRepayments(ctx, tx, c, txn); err != nil {
					return err
				}
			}
		}
		if upd.Purpose != nil {
			txn.Purpose = *upd.Purpose
		}
		if upd.Date != nil {
			txn.Date = *upd.Date
		}

		if changesType(upd, txn) {
			if txn.IsLoan() && (len(txn.PaymentHistory) > 0 || txn.PaidAmount > 0) {
				return precondition("cannot change the type of a loan with repayments")
			}
			txn.Type = *upd.Type
			if txn.IsLoan() {
				txn.PaidAmount = 0
				txn.PaymentHistory = nil
			} else {
				txn.Status = ""
				txn.PaidAmount = 0
				txn.RemainingAmount = 0
			}
		}
		if upd.Amount != nil {
			txn.Amount = calculator.Round(*upd.Amount)
		}
		if txn.IsLoan() {
			remaining, status, err := calculator.Reprice(txn.Amount, txn.PaidAmount)
			if err != nil {
				return translate(err)
			}
			txn.RemainingAmount = remaining
			txn.Status = status
		}

		if err := tx.UpdateTransaction(ctx, txn); err != nil {
			return err
		}
		c.add(feed.CollectionTransactions, txn.ID, feed.KindUpdated)

		if before.Amount != txn.Amount || before.Type != txn.Type {
			if err := s.adjustTotals(ctx, tx, c, []*models.Transaction{&before}, []*models.Transaction{txn}); err != nil {
				return err
			}
		}
		edited = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Transaction edited", "transaction_id", edited.ID, "version", edited.Version)
	return edited, nil
}

// moveRepayments reassigns a loan's repayments to the loan's contact.
func moveRepayments(ctx context.Context, tx storage.TransactionStore, c *changes, loan *models.Transaction) error {
	payments, err := tx.ListPayments(ctx, loan.ID)
	if err != nil {
		return err
	}
	for _, p := range payments {
		if p.ContactID == loan.ContactID {
			continue
		}
		p.ContactID = loan.ContactID
		if err := tx.UpdateTransaction(ctx, p); err != nil {
			return err
		}
		c.add(feed.CollectionTransactions, p.ID, feed.KindUpdated)
	}
	return nil
}

func changesContact(upd TransactionUpdate, txn *models.Transaction) bool {
	return upd.ContactID != nil && *upd.ContactID != txn.ContactID
}

func changesAmount(upd TransactionUpdate, txn *models.Transaction) bool {
	return upd.Amount != nil && calculator.Round(*upd.Amount) != txn.Amount
}

func changesType(upd TransactionUpdate, txn *models.Transaction) bool {
	return upd.Type != nil && *upd.Type != txn.Type
}

// DeleteTransaction removes a transaction and keeps the ledger consistent:
// deleting a loan removes its repayments, and deleting a repayment reverses
// it on its loan.
func (s *Service) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	var removed int
	err := s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		txn, err := getOwnedTransaction(ctx, tx, userID, txnID)
		if err != nil {
			return err
		}
		removed = 0

		switch {
		case txn.IsLoan():
			children, err := tx.ListPayments(ctx, txn.ID)
			if err != nil {
				return err
			}
			for _, child := range children {
				if err := tx.DeleteTransaction(ctx, child.ID); err != nil {
					return err
				}
				c.add(feed.CollectionTransactions, child.ID, feed.KindDeleted)
				removed++
			}
		case txn.IsChildPayment():
			if err := reverseOnParent(ctx, tx, c, txn); err != nil {
				return err
			}
		}

		if err := tx.DeleteTransaction(ctx, txn.ID); err != nil {
			return err
		}
		c.add(feed.CollectionTransactions, txn.ID, feed.KindDeleted)
		removed++

		if txn.IsChildPayment() {
			return nil
		}
		return s.adjustTotals(ctx, tx, c, []*models.Transaction{txn}, nil)
	})
	if err != nil {
		return err
	}

	slog.Info("Transaction deleted", "transaction_id", txnID, "documents_removed", removed)
	return nil
}

// reverseOnParent undoes a repayment on its loan. A repayment whose loan is
// already gone is simply dropped.
func reverseOnParent(ctx context.Context, tx storage.Tx, c *changes, child *models.Transaction) error {
	parent, err := tx.GetTransaction(ctx, child.ParentTransactionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	history := parent.PaymentHistory[:0:0]
	for _, item := range parent.PaymentHistory {
		if item.TransactionID != child.ID {
			history = append(history, item)
		}
	}
	parent.PaymentHistory = history
	parent.PaidAmount, parent.RemainingAmount, parent.Status =
		calculator.ReversePayment(parent.Amount, parent.PaidAmount, child.Amount)

	if err := tx.UpdateTransaction(ctx, parent); err != nil {
		return fmt.Errorf("failed to reverse payment on loan %s: %w", parent.ID, err)
	}
	c.add(feed.CollectionTransactions, parent.ID, feed.KindUpdated)
	return nil
}

// ListTransactions returns the user's transactions, newest first, with
// contact names resolved. Transactions whose contact was deleted show
// models.UnknownContactName.
func (s *Service) ListTransactions(ctx context.Context, userID string, f Filter) ([]TransactionView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, invalid("unknown transaction type %q", f.Type)
	}

	txns, err := s.store.ListTransactions(ctx, storage.TransactionQuery{
		UserID:               userID,
		ContactID:            f.ContactID,
		Type:                 f.Type,
		ExcludeChildPayments: f.ExcludeChildPayments,
	})
	if err != nil {
		return nil, translate(err)
	}

	contacts, err := s.store.ListContacts(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	names := make(map[string]string, len(contacts))
	for _, contact := range contacts {
		names[contact.ID] = contact.Name
	}

	views := make([]TransactionView, len(txns))
	for i, txn := range txns {
		name, ok := names[txn.ContactID]
		if !ok {
			name = models.UnknownContactName
		}
		views[i] = TransactionView{Transaction: txn, ContactName: name}
	}
	return views, nil
}
