package reconcile

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/naveen-gthb/khatabook/internal/metrics"
	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage/sqlite"
)

func setupStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "reconcile-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRunOnce(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	seed := []*models.Transaction{
		{UserID: "u1", ContactID: "c1", Amount: 500, Type: models.TypeLent, Date: 1,
			Status: models.StatusPending, RemainingAmount: 500},
		{UserID: "u1", ContactID: "c1", Amount: 75, Type: models.TypeReceived, Date: 2},
		{UserID: "u2", ContactID: "c2", Amount: 40, Type: models.TypeLent, Date: 1,
			Status: models.StatusPending, RemainingAmount: 40},
	}
	for _, txn := range seed {
		if err := store.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}
	// A repayment must not be counted as received money
	child := &models.Transaction{UserID: "u1", ContactID: "c1", Amount: 100, Type: models.TypeReceived,
		Date: 3, ParentTransactionID: seed[0].ID}
	if err := store.CreateTransaction(ctx, child); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	// u2's totals are already correct; u1 has none
	if err := store.PutTotals(ctx, &models.Totals{UserID: "u2", TotalLent: 40}); err != nil {
		t.Fatalf("PutTotals failed: %v", err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r := New(store, m)

	report, err := r.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if report.Users != 2 || report.Repaired != 1 {
		t.Errorf("report: expected 2 users / 1 repaired, got %+v", report)
	}

	totals, err := store.GetTotals(ctx, "u1")
	if err != nil {
		t.Fatalf("GetTotals failed: %v", err)
	}
	if math.Abs(totals.TotalLent-500) > 0.01 || math.Abs(totals.TotalReceived-75) > 0.01 {
		t.Errorf("u1 totals not repaired: %+v", totals)
	}
	if got := testutil.ToFloat64(m.TotalsDrift); got != 1 {
		t.Errorf("drift counter: expected 1, got %v", got)
	}

	// A second run finds nothing to do
	report, err = r.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if report.Repaired != 0 {
		t.Errorf("expected no repairs on second run, got %d", report.Repaired)
	}
}

func TestStart_InvalidSchedule(t *testing.T) {
	r := New(setupStore(t), nil)
	if err := r.Start("not a schedule"); err == nil {
		r.Stop()
		t.Error("expected error for invalid schedule")
	}
}

func TestStartStop(t *testing.T) {
	r := New(setupStore(t), nil)
	if err := r.Start("@every 1h"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	r.Stop()
}
