package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

const transactionColumns = `id, user_id, contact_id, amount, type, purpose, date, created_at,
	status, paid_amount, remaining_amount, parent_transaction_id, payment_history, version`

// CreateTransaction persists a new transaction to the database.
func (d *docs) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	// Generate ID if not set
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt == 0 {
		txn.CreatedAt = time.Now().Unix()
	}
	txn.Version = 1

	args, err := paymentArgs(txn)
	if err != nil {
		return err
	}

	_, err = d.q.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.UserID, txn.ContactID, txn.Amount, string(txn.Type), txn.Purpose,
		txn.Date, txn.CreatedAt,
		args.status, args.paid, args.remaining, nullString(txn.ParentTransactionID), args.history,
		txn.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (d *docs) GetTransaction(ctx context.Context, txnID string) (*models.Transaction, error) {
	row := d.q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, txnID)
	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("transaction %s: %w", txnID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions retrieves a user's transactions, newest first.
func (d *docs) ListTransactions(ctx context.Context, q storage.TransactionQuery) ([]*models.Transaction, error) {
	if q.UserID == "" {
		return nil, fmt.Errorf("failed to list transactions: user id required")
	}

	var where strings.Builder
	where.WriteString("user_id = ?")
	args := []any{q.UserID}

	if q.ContactID != "" {
		where.WriteString(" AND contact_id = ?")
		args = append(args, q.ContactID)
	}
	if q.Type != "" {
		where.WriteString(" AND type = ?")
		args = append(args, string(q.Type))
	}
	if q.ExcludeChildPayments {
		where.WriteString(" AND (parent_transaction_id IS NULL OR parent_transaction_id = '')")
	}

	return d.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE `+where.String()+
			` ORDER BY date DESC, created_at DESC, id DESC`,
		args...,
	)
}

// ListPayments retrieves the repayments recorded against a loan, oldest first.
func (d *docs) ListPayments(ctx context.Context, parentID string) ([]*models.Transaction, error) {
	return d.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE parent_transaction_id = ?
		 ORDER BY date ASC, created_at ASC, id ASC`,
		parentID,
	)
}

// UpdateTransaction writes txn guarded by its version.
func (d *docs) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	args, err := paymentArgs(txn)
	if err != nil {
		return err
	}

	res, err := d.q.ExecContext(ctx,
		`UPDATE transactions SET contact_id = ?, amount = ?, type = ?, purpose = ?, date = ?,
		 status = ?, paid_amount = ?, remaining_amount = ?, parent_transaction_id = ?,
		 payment_history = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		txn.ContactID, txn.Amount, string(txn.Type), txn.Purpose, txn.Date,
		args.status, args.paid, args.remaining, nullString(txn.ParentTransactionID), args.history,
		txn.ID, txn.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		// Distinguish a vanished document from a stale version
		var exists int
		err := d.q.QueryRowContext(ctx, "SELECT 1 FROM transactions WHERE id = ?", txn.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("transaction %s: %w", txn.ID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check transaction existence: %w", err)
		}
		return fmt.Errorf("transaction %s version %d: %w", txn.ID, txn.Version, storage.ErrConflict)
	}

	txn.Version++
	return nil
}

// DeleteTransaction removes a transaction by ID.
func (d *docs) DeleteTransaction(ctx context.Context, txnID string) error {
	res, err := d.q.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", txnID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return checkAffected(res, "transaction", txnID)
}

func (d *docs) queryTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := d.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

type paymentColumns struct {
	status    any
	paid      any
	remaining any
	history   any
}

// paymentArgs encodes the loan-only columns. Received transactions store NULLs.
func paymentArgs(txn *models.Transaction) (paymentColumns, error) {
	var cols paymentColumns
	if txn.Type == models.TypeLent {
		cols.status = string(txn.Status)
		cols.paid = txn.PaidAmount
		cols.remaining = txn.RemainingAmount
	}
	if len(txn.PaymentHistory) > 0 {
		raw, err := json.Marshal(txn.PaymentHistory)
		if err != nil {
			return cols, fmt.Errorf("failed to encode payment history: %w", err)
		}
		cols.history = string(raw)
	}
	return cols, nil
}

// scanTransaction decodes a row. Documents written before repayment tracking
// lack the payment columns; those default to nothing paid. Anything else that
// does not decode is an error.
func scanTransaction(row scanner) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var (
		txnType   string
		status    sql.NullString
		paid      sql.NullFloat64
		remaining sql.NullFloat64
		parent    sql.NullString
		history   sql.NullString
	)
	if err := row.Scan(&txn.ID, &txn.UserID, &txn.ContactID, &txn.Amount, &txnType, &txn.Purpose,
		&txn.Date, &txn.CreatedAt, &status, &paid, &remaining, &parent, &history, &txn.Version); err != nil {
		return nil, err
	}
	txn.Type = models.TransactionType(txnType)
	txn.ParentTransactionID = parent.String

	if history.Valid && history.String != "" {
		if err := json.Unmarshal([]byte(history.String), &txn.PaymentHistory); err != nil {
			return nil, fmt.Errorf("transaction %s: malformed payment history: %w", txn.ID, err)
		}
	}

	if txn.Type == models.TypeLent {
		if paid.Valid {
			txn.PaidAmount = paid.Float64
		}
		if remaining.Valid {
			txn.RemainingAmount = remaining.Float64
		} else {
			txn.RemainingAmount = txn.Amount - txn.PaidAmount
		}
		if status.Valid {
			txn.Status = models.Status(status.String)
		} else {
			txn.Status = models.DeriveStatus(txn.PaidAmount, txn.Amount)
		}
	}

	if err := txn.Validate(); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", txn.ID, err)
	}
	return txn, nil
}
