package models

// Totals is the per-user materialized aggregate shown on the dashboard.
//
// TotalLent is the sum of all lent amounts. TotalReceived is the sum of
// standalone received amounts; repayments against loans are not counted.
type Totals struct {
	UserID        string
	TotalLent     float64
	TotalReceived float64
	UpdatedAt     int64
}

// Apply adds the contribution of t to the totals, scaled by sign (+1 or -1).
func (tt *Totals) Apply(t *Transaction, sign float64) {
	switch {
	case t.Type == TypeLent:
		tt.TotalLent += sign * t.Amount
	case t.Type == TypeReceived && t.ParentTransactionID == "":
		tt.TotalReceived += sign * t.Amount
	}
}
