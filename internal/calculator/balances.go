package calculator

import (
	"math"
	"sort"

	"github.com/naveen-gthb/khatabook/internal/models"
)

// ContactBalance represents the ledger position with one contact.
type ContactBalance struct {
	ContactID   string
	Lent        float64 // Total principal lent to the contact
	Repaid      float64 // Total repaid against those loans
	Outstanding float64 // Lent - Repaid, what the contact still owes
	Received    float64 // Standalone money received from the contact
}

// Summary aggregates a user's transaction set.
type Summary struct {
	TotalLent     float64
	TotalReceived float64 // Standalone received only
	Outstanding   float64 // Sum of remaining amounts across loans
	PendingLoans  int
	PartialLoans  int
	PaidLoans     int
	Contacts      []ContactBalance
}

// ComputeTotals recomputes the materialized totals from a full scan.
// Repayments against loans are excluded from TotalReceived so they are not
// counted against the lent total a second time.
func ComputeTotals(txns []*models.Transaction) models.Totals {
	var totals models.Totals
	for _, t := range txns {
		totals.Apply(t, 1)
	}
	totals.TotalLent = Round(totals.TotalLent)
	totals.TotalReceived = Round(totals.TotalReceived)
	return totals
}

// TotalsDrift reports whether two totals differ by more than the monetary epsilon.
func TotalsDrift(a, b models.Totals) bool {
	return math.Abs(a.TotalLent-b.TotalLent) > models.Epsilon ||
		math.Abs(a.TotalReceived-b.TotalReceived) > models.Epsilon
}

// Summarize computes dashboard figures and per-contact balances.
//
// Algorithm:
// - For each loan: contact lent += amount, repaid += paid, outstanding += remaining
// - For each standalone received: contact received += amount
// - Child payments are already reflected in their loan's paid amount and are skipped
func Summarize(txns []*models.Transaction) Summary {
	balances := make(map[string]*ContactBalance)
	get := func(id string) *ContactBalance {
		if b, ok := balances[id]; ok {
			return b
		}
		b := &ContactBalance{ContactID: id}
		balances[id] = b
		return b
	}

	var s Summary
	for _, t := range txns {
		switch {
		case t.IsLoan():
			b := get(t.ContactID)
			b.Lent += t.Amount
			b.Repaid += t.PaidAmount
			b.Outstanding += t.RemainingAmount
			s.TotalLent += t.Amount
			s.Outstanding += t.RemainingAmount
			switch t.Status {
			case models.StatusPaid:
				s.PaidLoans++
			case models.StatusPartial:
				s.PartialLoans++
			default:
				s.PendingLoans++
			}
		case t.IsChildPayment():
			// Counted through the parent loan's PaidAmount.
		default:
			get(t.ContactID).Received += t.Amount
			s.TotalReceived += t.Amount
		}
	}

	s.TotalLent = Round(s.TotalLent)
	s.TotalReceived = Round(s.TotalReceived)
	s.Outstanding = Round(s.Outstanding)

	s.Contacts = make([]ContactBalance, 0, len(balances))
	for _, b := range balances {
		b.Lent = Round(b.Lent)
		b.Repaid = Round(b.Repaid)
		b.Outstanding = Round(b.Outstanding)
		b.Received = Round(b.Received)
		s.Contacts = append(s.Contacts, *b)
	}
	// Largest outstanding first, then by contact for a stable order
	sort.Slice(s.Contacts, func(i, j int) bool {
		if s.Contacts[i].Outstanding != s.Contacts[j].Outstanding {
			return s.Contacts[i].Outstanding > s.Contacts[j].Outstanding
		}
		return s.Contacts[i].ContactID < s.Contacts[j].ContactID
	})

	return s
}
