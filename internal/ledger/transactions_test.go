package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naveen-gthb/khatabook/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestEditTransaction_Loan(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	alice := env.contact(t, "Alice")
	bob := env.contact(t, "Bob")
	loan := env.loan(t, alice.ID, 500)
	if _, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: loan.ID, Amount: 200}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	t.Run("raise amount re-derives remaining and totals", func(t *testing.T) {
		edited, err := env.svc.EditTransaction(ctx, testUser, loan.ID, TransactionUpdate{
			Amount:    ptr(800.0),
			Purpose:   ptr("rent and deposit"),
			ContactID: ptr(bob.ID),
		})
		if err != nil {
			t.Fatalf("EditTransaction failed: %v", err)
		}
		assertAmount(t, "remaining", edited.RemainingAmount, 600)
		if edited.Status != models.StatusPartial {
			t.Errorf("status: expected partial, got %s", edited.Status)
		}
		if edited.ContactID != bob.ID || edited.Purpose != "rent and deposit" {
			t.Errorf("fields not applied: %+v", edited)
		}
		if len(edited.PaymentHistory) != 1 {
			t.Errorf("history changed: %d entries", len(edited.PaymentHistory))
		}
		assertConserved(t, edited)
		assertAmount(t, "totalLent", env.totals(t).TotalLent, 800)

		payments, err := env.svc.ListPayments(ctx, testUser, loan.ID)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 1 || payments[0].ContactID != bob.ID {
			t.Errorf("repayments should follow the loan to Bob: %+v", payments)
		}
		left, err := env.svc.ListTransactions(ctx, testUser, Filter{ContactID: alice.ID})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(left) != 0 {
			t.Errorf("Alice still has %d transactions", len(left))
		}
	})

	t.Run("lower to paid amount settles the loan", func(t *testing.T) {
		edited, err := env.svc.EditTransaction(ctx, testUser, loan.ID, TransactionUpdate{Amount: ptr(200.0)})
		if err != nil {
			t.Fatalf("EditTransaction failed: %v", err)
		}
		if edited.Status != models.StatusPaid {
			t.Errorf("status: expected paid, got %s", edited.Status)
		}
		assertAmount(t, "totalLent", env.totals(t).TotalLent, 200)
	})

	t.Run("amount below paid is rejected", func(t *testing.T) {
		_, err := env.svc.EditTransaction(ctx, testUser, loan.ID, TransactionUpdate{Amount: ptr(150.0)})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		assertAmount(t, "totalLent", env.totals(t).TotalLent, 200)
	})

	t.Run("amounts that do not round to a valid cent value are rejected", func(t *testing.T) {
		for _, amount := range []float64{0.004, 1e307} {
			_, err := env.svc.EditTransaction(ctx, testUser, loan.ID, TransactionUpdate{Amount: ptr(amount)})
			if !errors.Is(err, ErrValidation) {
				t.Errorf("amount %v: expected ErrValidation, got %v", amount, err)
			}
		}
		got, err := env.svc.GetTransaction(ctx, testUser, loan.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		assertAmount(t, "amount", got.Amount, 200)
	})

	t.Run("type of a repaid loan is fixed", func(t *testing.T) {
		_, err := env.svc.EditTransaction(ctx, testUser, loan.ID, TransactionUpdate{Type: ptr(models.TypeReceived)})
		if !errors.Is(err, ErrFailedPrecondition) {
			t.Errorf("expected ErrFailedPrecondition, got %v", err)
		}
	})

	t.Run("missing contact is rejected", func(t *testing.T) {
		_, err := env.svc.EditTransaction(ctx, testUser, loan.ID, TransactionUpdate{ContactID: ptr("nope")})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEditTransaction_ChildPayment(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	alice := env.contact(t, "Alice")
	loan := env.loan(t, alice.ID, 500)
	result, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: loan.ID, Amount: 100})
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	child := result.Payment

	for name, upd := range map[string]TransactionUpdate{
		"amount":  {Amount: ptr(50.0)},
		"type":    {Type: ptr(models.TypeLent)},
		"contact": {ContactID: ptr(env.contact(t, "Bob").ID)},
	} {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := env.svc.EditTransaction(ctx, testUser, child.ID, upd)
			if !errors.Is(err, ErrFailedPrecondition) {
				t.Errorf("expected ErrFailedPrecondition, got %v", err)
			}
		})
	}

	t.Run("accepts purpose and date", func(t *testing.T) {
		edited, err := env.svc.EditTransaction(ctx, testUser, child.ID, TransactionUpdate{
			Purpose: ptr("bank transfer"),
			Date:    ptr(int64(1700000000)),
		})
		if err != nil {
			t.Fatalf("EditTransaction failed: %v", err)
		}
		if edited.Purpose != "bank transfer" || edited.Date != 1700000000 {
			t.Errorf("fields not applied: %+v", edited)
		}
	})
}

func TestEditTransaction_TypeChangeMovesTotals(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	alice := env.contact(t, "Alice")

	received, err := env.svc.CreateTransaction(ctx, testUser, TransactionInput{
		ContactID: alice.ID, Amount: 75, Type: models.TypeReceived, Purpose: "gift",
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	assertAmount(t, "totalReceived", env.totals(t).TotalReceived, 75)

	edited, err := env.svc.EditTransaction(ctx, testUser, received.ID, TransactionUpdate{Type: ptr(models.TypeLent)})
	if err != nil {
		t.Fatalf("EditTransaction failed: %v", err)
	}
	if edited.Status != models.StatusPending {
		t.Errorf("status: expected pending, got %s", edited.Status)
	}
	assertAmount(t, "remaining", edited.RemainingAmount, 75)

	totals := env.totals(t)
	assertAmount(t, "totalLent", totals.TotalLent, 75)
	assertAmount(t, "totalReceived", totals.TotalReceived, 0)
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("deleting a repayment reverses it on the loan", func(t *testing.T) {
		env := setupTestService(t)
		alice := env.contact(t, "Alice")
		loan := env.loan(t, alice.ID, 500)
		first, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: loan.ID, Amount: 200})
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
		if _, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: loan.ID, Amount: 300}); err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}

		if err := env.svc.DeleteTransaction(ctx, testUser, first.Payment.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}

		got, err := env.svc.GetTransaction(ctx, testUser, loan.ID)
		if err != nil {
			t.Fatalf("GetTransaction failed: %v", err)
		}
		assertAmount(t, "paid", got.PaidAmount, 300)
		if got.Status != models.StatusPartial {
			t.Errorf("status: expected partial, got %s", got.Status)
		}
		if len(got.PaymentHistory) != 1 || got.PaymentHistory[0].TransactionID == first.Payment.ID {
			t.Errorf("history entry not removed: %+v", got.PaymentHistory)
		}
		assertConserved(t, got)
		assertAmount(t, "totalLent", env.totals(t).TotalLent, 500)
	})

	t.Run("deleting a loan removes its repayments", func(t *testing.T) {
		env := setupTestService(t)
		alice := env.contact(t, "Alice")
		loan := env.loan(t, alice.ID, 500)
		for _, amount := range []float64{100, 150} {
			if _, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: loan.ID, Amount: amount}); err != nil {
				t.Fatalf("RecordPayment failed: %v", err)
			}
		}

		if err := env.svc.DeleteTransaction(ctx, testUser, loan.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}

		views, err := env.svc.ListTransactions(ctx, testUser, Filter{})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(views) != 0 {
			t.Errorf("expected no transactions, got %d", len(views))
		}
		assertAmount(t, "totalLent", env.totals(t).TotalLent, 0)
	})

	t.Run("deleting a standalone receipt adjusts totals", func(t *testing.T) {
		env := setupTestService(t)
		alice := env.contact(t, "Alice")
		received, err := env.svc.CreateTransaction(ctx, testUser, TransactionInput{
			ContactID: alice.ID, Amount: 40, Type: models.TypeReceived,
		})
		if err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		if err := env.svc.DeleteTransaction(ctx, testUser, received.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		assertAmount(t, "totalReceived", env.totals(t).TotalReceived, 0)
	})

	t.Run("not found", func(t *testing.T) {
		env := setupTestService(t)
		err := env.svc.DeleteTransaction(ctx, testUser, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListTransactions(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	alice := env.contact(t, "Alice")
	bob := env.contact(t, "Bob")

	older, err := env.svc.CreateLoan(ctx, testUser, alice.ID, 100, "lunch", 1000)
	if err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}
	if _, err := env.svc.CreateLoan(ctx, testUser, bob.ID, 200, "taxi", 2000); err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}
	if _, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: older.ID, Amount: 50, Date: 3000}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	t.Run("newest first", func(t *testing.T) {
		views, err := env.svc.ListTransactions(ctx, testUser, Filter{})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(views) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(views))
		}
		wantDates := []int64{3000, 2000, 1000}
		for i, v := range views {
			if v.Date != wantDates[i] {
				t.Errorf("position %d: expected date %d, got %d", i, wantDates[i], v.Date)
			}
		}
	})

	t.Run("exclude child payments", func(t *testing.T) {
		views, err := env.svc.ListTransactions(ctx, testUser, Filter{ExcludeChildPayments: true})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(views) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(views))
		}
	})

	t.Run("deleted contact shows as unknown", func(t *testing.T) {
		if err := env.svc.DeleteContact(ctx, testUser, bob.ID); err != nil {
			t.Fatalf("DeleteContact failed: %v", err)
		}
		views, err := env.svc.ListTransactions(ctx, testUser, Filter{ContactID: bob.ID})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(views) != 1 {
			t.Fatalf("expected 1 transaction, got %d", len(views))
		}
		if views[0].ContactName != models.UnknownContactName {
			t.Errorf("contact name: expected '%s', got '%s'", models.UnknownContactName, views[0].ContactName)
		}
	})

	t.Run("other users see nothing", func(t *testing.T) {
		views, err := env.svc.ListTransactions(ctx, "user-2", Filter{})
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(views) != 0 {
			t.Errorf("expected 0 transactions, got %d", len(views))
		}
	})

	t.Run("invalid type filter", func(t *testing.T) {
		_, err := env.svc.ListTransactions(ctx, testUser, Filter{Type: "owed"})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func nextUpdate(t *testing.T, q *LiveQuery) []TransactionView {
	t.Helper()
	select {
	case views, ok := <-q.Updates():
		if !ok {
			t.Fatalf("live query ended: %v", q.Err())
		}
		return views
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for live query update")
	}
	return nil
}

func TestWatchTransactions(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	alice := env.contact(t, "Alice")
	loan := env.loan(t, alice.ID, 500)

	q, err := env.svc.WatchTransactions(ctx, testUser, Filter{ExcludeChildPayments: true})
	if err != nil {
		t.Fatalf("WatchTransactions failed: %v", err)
	}

	initial := nextUpdate(t, q)
	if len(initial) != 1 || initial[0].ID != loan.ID {
		t.Fatalf("initial result set mismatch: %d items", len(initial))
	}

	if _, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: loan.ID, Amount: 200}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	// The loan's new state eventually shows up
	deadline := time.After(2 * time.Second)
	for {
		views := nextUpdate(t, q)
		if len(views) == 1 && views[0].Status == models.StatusPartial {
			break
		}
		select {
		case <-deadline:
			t.Fatal("never observed the updated loan")
		default:
		}
	}

	q.Close()
	q.Close()
	for range q.Updates() {
	}
	if q.Err() != nil {
		t.Errorf("unexpected error after Close: %v", q.Err())
	}
}

func TestWatchTransactions_ContextCancel(t *testing.T) {
	env := setupTestService(t)
	ctx, cancel := context.WithCancel(context.Background())

	q, err := env.svc.WatchTransactions(ctx, testUser, Filter{})
	if err != nil {
		t.Fatalf("WatchTransactions failed: %v", err)
	}
	if views := nextUpdate(t, q); len(views) != 0 {
		t.Errorf("expected empty initial set, got %d", len(views))
	}

	cancel()
	select {
	case _, ok := <-q.Updates():
		if ok {
			t.Error("expected updates channel to close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("live query did not end on cancel")
	}
}

func TestGetSummary(t *testing.T) {
	env := setupTestService(t)
	ctx := context.Background()
	alice := env.contact(t, "Alice")
	bob := env.contact(t, "Bob")

	aliceLoan := env.loan(t, alice.ID, 500)
	if _, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: aliceLoan.ID, Amount: 500}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	bobLoan := env.loan(t, bob.ID, 1000)
	if _, err := env.svc.RecordPayment(ctx, testUser, PaymentInput{LoanID: bobLoan.ID, Amount: 250}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	env.loan(t, bob.ID, 50)
	if _, err := env.svc.CreateTransaction(ctx, testUser, TransactionInput{
		ContactID: alice.ID, Amount: 75, Type: models.TypeReceived,
	}); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}
	if _, err := env.svc.CreateOrder(ctx, testUser, OrderInput{OrderID: "A-1", Vendor: "Amazon", Amount: 20}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if _, err := env.svc.CreateOrder(ctx, testUser, OrderInput{
		OrderID: "A-2", Vendor: "Amazon", Amount: 30, DeliveryStatus: models.DeliveryDelivered,
	}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	summary, err := env.svc.GetSummary(ctx, testUser)
	if err != nil {
		t.Fatalf("GetSummary failed: %v", err)
	}

	assertAmount(t, "totalLent", summary.Totals.TotalLent, 1550)
	assertAmount(t, "totalReceived", summary.Totals.TotalReceived, 75)
	assertAmount(t, "outstanding", summary.Outstanding, 800)
	if summary.PendingLoans != 1 || summary.PartialLoans != 1 || summary.PaidLoans != 1 {
		t.Errorf("loan counts: pending=%d partial=%d paid=%d",
			summary.PendingLoans, summary.PartialLoans, summary.PaidLoans)
	}
	if len(summary.Contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(summary.Contacts))
	}
	if summary.Contacts[0].ContactName != "Bob" {
		t.Errorf("expected Bob first, got %s", summary.Contacts[0].ContactName)
	}
	assertAmount(t, "bob outstanding", summary.Contacts[0].Outstanding, 800)
	if len(summary.ActiveOrders) != 1 || summary.ActiveOrders[0].OrderID != "A-1" {
		t.Errorf("expected only A-1 active, got %d orders", len(summary.ActiveOrders))
	}
}
