package ledger

import (
	"context"

	"github.com/naveen-gthb/khatabook/internal/calculator"
	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

// ContactSummary is the ledger position with one contact.
type ContactSummary struct {
	calculator.ContactBalance
	ContactName string
}

// Summary is the dashboard projection of a user's ledger.
type Summary struct {
	// Totals is the materialized totals record.
	Totals *models.Totals

	Outstanding  float64
	PendingLoans int
	PartialLoans int
	PaidLoans    int
	Contacts     []ContactSummary
	ActiveOrders []*models.Order
}

// GetSummary computes the dashboard for a user.
func (s *Service) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	totals, err := s.store.GetTotals(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	txns, err := s.store.ListTransactions(ctx, storage.TransactionQuery{UserID: userID})
	if err != nil {
		return nil, translate(err)
	}
	contacts, err := s.store.ListContacts(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	orders, err := s.store.ListOrders(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}

	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		names[c.ID] = c.Name
	}

	agg := calculator.Summarize(txns)
	summary := &Summary{
		Totals:       totals,
		Outstanding:  agg.Outstanding,
		PendingLoans: agg.PendingLoans,
		PartialLoans: agg.PartialLoans,
		PaidLoans:    agg.PaidLoans,
		Contacts:     make([]ContactSummary, len(agg.Contacts)),
	}
	for i, b := range agg.Contacts {
		name, ok := names[b.ContactID]
		if !ok {
			name = models.UnknownContactName
		}
		summary.Contacts[i] = ContactSummary{ContactBalance: b, ContactName: name}
	}
	for _, o := range orders {
		if o.DeliveryStatus.Active() {
			summary.ActiveOrders = append(summary.ActiveOrders, o)
		}
	}
	return summary, nil
}
