// Package reconcile periodically checks the materialized totals against a
// full scan of each user's transactions and repairs any drift.
//
// Totals are maintained incrementally by the ledger; this job only catches
// writes that bypassed it.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/naveen-gthb/khatabook/internal/calculator"
	"github.com/naveen-gthb/khatabook/internal/metrics"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

// Report summarizes one reconciliation run.
type Report struct {
	Users    int
	Repaired int
}

// Reconciler runs totals reconciliation on a cron schedule.
type Reconciler struct {
	store   storage.Store
	metrics *metrics.Metrics
	cron    *cron.Cron
	timeout time.Duration
}

// New creates a Reconciler. m may be nil.
func New(store storage.Store, m *metrics.Metrics) *Reconciler {
	return &Reconciler{
		store:   store,
		metrics: m,
		cron:    cron.New(),
		timeout: 5 * time.Minute,
	}
}

// Start schedules RunOnce with a standard five-field cron expression
// (e.g., "0 3 * * *" for daily at 3 AM) and starts the scheduler.
func (r *Reconciler) Start(schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			slog.Error("Totals reconciliation failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add reconcile job: %w", err)
	}
	r.cron.Start()
	slog.Info("Totals reconciler started", "schedule", schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (r *Reconciler) Stop() {
	<-r.cron.Stop().Done()
	slog.Info("Totals reconciler stopped")
}

// RunOnce reconciles every user's totals.
func (r *Reconciler) RunOnce(ctx context.Context) (Report, error) {
	report, err := r.run(ctx)
	r.metrics.ObserveReconcile(err)
	return report, err
}

func (r *Reconciler) run(ctx context.Context) (Report, error) {
	var report Report
	users, err := r.store.ListTotalsUsers(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list users: %w", err)
	}

	for _, userID := range users {
		repaired, err := r.reconcileUser(ctx, userID)
		if err != nil {
			return report, fmt.Errorf("failed to reconcile user %s: %w", userID, err)
		}
		report.Users++
		if repaired {
			report.Repaired++
		}
	}

	slog.Info("Totals reconciliation finished", "users", report.Users, "repaired", report.Repaired)
	return report, nil
}

// reconcileUser recomputes one user's totals inside a transaction so the
// scan and the repair see the same snapshot.
func (r *Reconciler) reconcileUser(ctx context.Context, userID string) (bool, error) {
	var repaired bool
	err := r.store.RunInTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		repaired = false
		txns, err := tx.ListTransactions(ctx, storage.TransactionQuery{UserID: userID})
		if err != nil {
			return err
		}
		have, err := tx.GetTotals(ctx, userID)
		if err != nil {
			return err
		}

		want := calculator.ComputeTotals(txns)
		if !calculator.TotalsDrift(*have, want) {
			return nil
		}

		slog.Warn("Totals drift detected",
			"user_id", userID,
			"stored_lent", have.TotalLent,
			"computed_lent", want.TotalLent,
			"stored_received", have.TotalReceived,
			"computed_received", want.TotalReceived,
		)
		have.TotalLent = want.TotalLent
		have.TotalReceived = want.TotalReceived
		have.UpdatedAt = time.Now().Unix()
		if err := tx.PutTotals(ctx, have); err != nil {
			return err
		}
		repaired = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if repaired {
		r.metrics.ObserveDrift()
	}
	return repaired, nil
}
