package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

func newTestStore(t *testing.T, opts ...Option) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "khatabook-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"), opts...)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newLoan(userID, contactID string, amount float64) *models.Transaction {
	return &models.Transaction{
		UserID:          userID,
		ContactID:       contactID,
		Amount:          amount,
		Type:            models.TypeLent,
		Purpose:         "rent",
		Date:            time.Now().Unix(),
		Status:          models.StatusPending,
		RemainingAmount: amount,
	}
}

func TestSQLiteStore_Contacts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateContact generates ID and timestamps", func(t *testing.T) {
		contact := &models.Contact{UserID: "u1", Name: "Alice", Phone: "555-0100"}
		if err := store.CreateContact(ctx, contact); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}
		if contact.ID == "" {
			t.Error("Expected contact ID to be generated")
		}
		if contact.CreatedAt == 0 || contact.UpdatedAt == 0 {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("ListContacts is scoped and ordered by name", func(t *testing.T) {
		for _, name := range []string{"charlie", "Bob"} {
			if err := store.CreateContact(ctx, &models.Contact{UserID: "u1", Name: name, Phone: "1"}); err != nil {
				t.Fatalf("CreateContact failed: %v", err)
			}
		}
		if err := store.CreateContact(ctx, &models.Contact{UserID: "u2", Name: "Aaron", Phone: "1"}); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}

		contacts, err := store.ListContacts(ctx, "u1")
		if err != nil {
			t.Fatalf("ListContacts failed: %v", err)
		}
		var names []string
		for _, c := range contacts {
			names = append(names, c.Name)
		}
		want := []string{"Alice", "Bob", "charlie"}
		if len(names) != len(want) {
			t.Fatalf("names = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("names = %v, want %v", names, want)
				break
			}
		}
	})

	t.Run("UpdateContact and DeleteContact", func(t *testing.T) {
		contact := &models.Contact{UserID: "u1", Name: "Dave", Phone: "1", Email: "dave@example.com"}
		if err := store.CreateContact(ctx, contact); err != nil {
			t.Fatalf("CreateContact failed: %v", err)
		}

		contact.Phone = "2"
		contact.Notes = "pays late"
		if err := store.UpdateContact(ctx, contact); err != nil {
			t.Fatalf("UpdateContact failed: %v", err)
		}
		got, err := store.GetContact(ctx, contact.ID)
		if err != nil {
			t.Fatalf("GetContact failed: %v", err)
		}
		if got.Phone != "2" || got.Notes != "pays late" || got.Email != "dave@example.com" {
			t.Errorf("unexpected contact after update: %+v", got)
		}

		if err := store.DeleteContact(ctx, contact.ID); err != nil {
			t.Fatalf("DeleteContact failed: %v", err)
		}
		if _, err := store.GetContact(ctx, contact.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteContact(ctx, contact.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound deleting twice, got %v", err)
		}
	})
}

func TestSQLiteStore_Transactions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTransaction round trips payment state", func(t *testing.T) {
		loan := newLoan("u1", "c1", 500)
		loan.PaidAmount = 200
		loan.RemainingAmount = 300
		loan.Status = models.StatusPartial
		loan.PaymentHistory = []models.PaymentHistoryItem{
			{TransactionID: "p1", Amount: 200, Date: 1700000000, Details: "cash"},
		}
		if err := store.CreateTransaction(ctx, loan); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
		if loan.Version != 1 {
			t.Errorf("Version = %d, want 1", loan.Version)
		}

		got, err := store.GetTransaction(ctx, loan.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got.PaidAmount != 200 || got.RemainingAmount != 300 || got.Status != models.StatusPartial {
			t.Errorf("payment state mismatch: %+v", got)
		}
		if len(got.PaymentHistory) != 1 || got.PaymentHistory[0].Details != "cash" {
			t.Errorf("PaymentHistory = %+v", got.PaymentHistory)
		}
	})

	t.Run("GetTransaction returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetTransaction(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateTransaction enforces version", func(t *testing.T) {
		loan := newLoan("u1", "c1", 100)
		if err := store.CreateTransaction(ctx, loan); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		stale := *loan
		loan.Purpose = "groceries"
		if err := store.UpdateTransaction(ctx, loan); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		if loan.Version != 2 {
			t.Errorf("Version = %d, want 2", loan.Version)
		}

		stale.Purpose = "stale write"
		if err := store.UpdateTransaction(ctx, &stale); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("expected ErrConflict for stale version, got %v", err)
		}

		missing := newLoan("u1", "c1", 1)
		missing.ID = "missing"
		missing.Version = 1
		if err := store.UpdateTransaction(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for missing doc, got %v", err)
		}
	})

	t.Run("ListTransactions filters and orders", func(t *testing.T) {
		user := "u-list"
		older := newLoan(user, "c1", 10)
		older.Date = 1000
		newer := newLoan(user, "c2", 20)
		newer.Date = 2000
		child := &models.Transaction{UserID: user, ContactID: "c1", Amount: 5, Type: models.TypeReceived,
			Date: 3000, ParentTransactionID: older.ID}
		standalone := &models.Transaction{UserID: user, ContactID: "c2", Amount: 7, Type: models.TypeReceived, Date: 1500}

		for _, txn := range []*models.Transaction{older, newer} {
			if err := store.CreateTransaction(ctx, txn); err != nil {
				t.Fatalf("CreateTransaction failed: %v", err)
			}
		}
		child.ParentTransactionID = older.ID
		for _, txn := range []*models.Transaction{child, standalone} {
			if err := store.CreateTransaction(ctx, txn); err != nil {
				t.Fatalf("CreateTransaction failed: %v", err)
			}
		}

		all, err := store.ListTransactions(ctx, storage.TransactionQuery{UserID: user})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(all) != 4 {
			t.Fatalf("expected 4 transactions, got %d", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i-1].Date < all[i].Date {
				t.Errorf("transactions not ordered by date desc: %d before %d", all[i-1].Date, all[i].Date)
			}
		}

		top, err := store.ListTransactions(ctx, storage.TransactionQuery{UserID: user, ExcludeChildPayments: true})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(top) != 3 {
			t.Errorf("expected 3 top-level transactions, got %d", len(top))
		}

		received, err := store.ListTransactions(ctx, storage.TransactionQuery{
			UserID: user, Type: models.TypeReceived, ExcludeChildPayments: true,
		})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(received) != 1 || received[0].ID != standalone.ID {
			t.Errorf("expected only the standalone received transaction, got %d", len(received))
		}

		byContact, err := store.ListTransactions(ctx, storage.TransactionQuery{UserID: user, ContactID: "c1"})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(byContact) != 2 {
			t.Errorf("expected 2 transactions for c1, got %d", len(byContact))
		}

		payments, err := store.ListPayments(ctx, older.ID)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 1 || payments[0].ID != child.ID {
			t.Errorf("ListPayments = %d items", len(payments))
		}

		if _, err := store.ListTransactions(ctx, storage.TransactionQuery{}); err == nil {
			t.Error("expected error for unscoped query")
		}
	})

	t.Run("legacy documents default payment fields", func(t *testing.T) {
		_, err := store.db.ExecContext(ctx,
			`INSERT INTO transactions (id, user_id, contact_id, amount, type, purpose, date, created_at)
			 VALUES ('legacy', 'u1', 'c1', 250, 'lent', 'old loan', 1, 1)`)
		if err != nil {
			t.Fatalf("insert legacy row: %v", err)
		}

		got, err := store.GetTransaction(ctx, "legacy")
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		if got.PaidAmount != 0 || got.RemainingAmount != 250 || got.Status != models.StatusPending {
			t.Errorf("legacy defaults not applied: %+v", got)
		}
	})

	t.Run("malformed documents fail loudly", func(t *testing.T) {
		_, err := store.db.ExecContext(ctx,
			`INSERT INTO transactions (id, user_id, contact_id, amount, type, purpose, date, created_at, status)
			 VALUES ('bad-status', 'u1', 'c1', 250, 'lent', '', 1, 1, 'forgiven')`)
		if err != nil {
			t.Fatalf("insert malformed row: %v", err)
		}
		if _, err := store.GetTransaction(ctx, "bad-status"); err == nil {
			t.Error("expected error for unknown status")
		}

		_, err = store.db.ExecContext(ctx,
			`INSERT INTO transactions (id, user_id, contact_id, amount, type, purpose, date, created_at)
			 VALUES ('bad-type', 'u1', 'c1', 250, 'borrowed', '', 1, 1)`)
		if err != nil {
			t.Fatalf("insert malformed row: %v", err)
		}
		if _, err := store.GetTransaction(ctx, "bad-type"); err == nil {
			t.Error("expected error for unknown type")
		}
	})
}

func TestSQLiteStore_Totals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	totals, err := store.GetTotals(ctx, "u1")
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if totals.TotalLent != 0 || totals.TotalReceived != 0 || totals.UserID != "u1" {
		t.Errorf("expected zero totals, got %+v", totals)
	}

	totals.TotalLent = 500
	totals.TotalReceived = 20
	if err := store.PutTotals(ctx, totals); err != nil {
		t.Fatalf("PutTotals failed: %v", err)
	}
	totals.TotalLent = 750
	if err := store.PutTotals(ctx, totals); err != nil {
		t.Fatalf("PutTotals (update) failed: %v", err)
	}

	got, err := store.GetTotals(ctx, "u1")
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if got.TotalLent != 750 || got.TotalReceived != 20 {
		t.Errorf("totals = %+v", got)
	}

	if err := store.CreateTransaction(ctx, newLoan("u2", "c1", 10)); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	users, err := store.ListTotalsUsers(ctx)
	if err != nil {
		t.Fatalf("ListTotalsUsers failed: %v", err)
	}
	if len(users) != 2 || users[0] != "u1" || users[1] != "u2" {
		t.Errorf("ListTotalsUsers = %v", users)
	}
}

func TestSQLiteStore_Orders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	order := &models.Order{
		UserID: "u1", OrderID: "AMZ-1", Vendor: "Amazon", Amount: 49.99, Date: 100,
		DeliveryStatus: models.DeliveryProcessing, ReturnStatus: models.ClaimNone, RefundStatus: models.ClaimNone,
	}
	if err := store.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	order.DeliveryStatus = models.DeliveryShipped
	if err := store.UpdateOrder(ctx, order); err != nil {
		t.Fatalf("UpdateOrder failed: %v", err)
	}

	orders, err := store.ListOrders(ctx, "u1")
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 1 || orders[0].DeliveryStatus != models.DeliveryShipped {
		t.Errorf("ListOrders = %+v", orders)
	}

	if err := store.DeleteOrder(ctx, order.ID); err != nil {
		t.Fatalf("DeleteOrder failed: %v", err)
	}
	if _, err := store.GetOrder(ctx, order.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("a@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := store.CreateUser(ctx, models.NewUser("a@example.com", "Dup", "hash")); err == nil {
		t.Error("expected duplicate email to fail")
	}

	byEmail, err := store.GetUserByEmail(ctx, "a@example.com")
	if err != nil || byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail = %+v, %v", byEmail, err)
	}
	missing, err := store.GetUserByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("GetUserByID(missing) = %+v, %v", missing, err)
	}
}

func TestRunInTx(t *testing.T) {
	ctx := context.Background()

	t.Run("failed attempt rolls back every write", func(t *testing.T) {
		store := newTestStore(t)
		loan := newLoan("u1", "c1", 500)
		if err := store.CreateTransaction(ctx, loan); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		injected := errors.New("injected failure")
		err := store.RunInTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			payment := &models.Transaction{UserID: "u1", ContactID: "c1", Amount: 100,
				Type: models.TypeReceived, Date: 1, ParentTransactionID: loan.ID}
			if err := tx.CreateTransaction(ctx, payment); err != nil {
				return err
			}
			return injected
		})
		if !errors.Is(err, injected) {
			t.Fatalf("RunInTx error = %v, want injected", err)
		}

		payments, err := store.ListPayments(ctx, loan.ID)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 0 {
			t.Errorf("expected rolled back payment, found %d", len(payments))
		}
	})

	t.Run("conflicts are retried", func(t *testing.T) {
		var retries int
		store := newTestStore(t,
			WithRetryBackoff(time.Millisecond),
			WithRetryHook(func(attempt int, err error) { retries++ }),
		)

		attempts := 0
		err := store.RunInTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			attempts++
			if err := tx.PutTotals(ctx, &models.Totals{UserID: "u1", TotalLent: float64(attempts)}); err != nil {
				return err
			}
			if attempts < 3 {
				return storage.ErrConflict
			}
			return nil
		})
		if err != nil {
			t.Fatalf("RunInTx failed: %v", err)
		}
		if attempts != 3 || retries != 2 {
			t.Errorf("attempts = %d, retries = %d", attempts, retries)
		}

		totals, err := store.GetTotals(ctx, "u1")
		if err != nil {
			t.Fatalf("GetTotals failed: %v", err)
		}
		if totals.TotalLent != 3 {
			t.Errorf("TotalLent = %v, want only the committed attempt's write", totals.TotalLent)
		}
	})

	t.Run("retries are bounded", func(t *testing.T) {
		store := newTestStore(t, WithMaxAttempts(2), WithRetryBackoff(time.Millisecond))

		attempts := 0
		err := store.RunInTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			attempts++
			return storage.ErrConflict
		})
		if !errors.Is(err, storage.ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
		if attempts != 2 {
			t.Errorf("attempts = %d, want 2", attempts)
		}
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		store := newTestStore(t)

		attempts := 0
		_ = store.RunInTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			attempts++
			return storage.ErrNotFound
		})
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})
}
