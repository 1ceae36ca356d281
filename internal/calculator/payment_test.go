package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/naveen-gthb/khatabook/internal/models"
)

func TestApplyPayment(t *testing.T) {
	tests := []struct {
		name          string
		amount        float64
		paid          float64
		payment       float64
		wantErr       error
		wantApplied   float64
		wantPaid      float64
		wantRemaining float64
		wantStatus    models.Status
		wantClamped   bool
	}{
		{
			name:          "first partial payment",
			amount:        500,
			paid:          0,
			payment:       200,
			wantApplied:   200,
			wantPaid:      200,
			wantRemaining: 300,
			wantStatus:    models.StatusPartial,
		},
		{
			name:          "payment closes loan exactly",
			amount:        500,
			paid:          200,
			payment:       300,
			wantApplied:   300,
			wantPaid:      500,
			wantRemaining: 0,
			wantStatus:    models.StatusPaid,
		},
		{
			name:          "overpayment is clamped to remaining",
			amount:        500,
			paid:          0,
			payment:       600,
			wantApplied:   500,
			wantPaid:      500,
			wantRemaining: 0,
			wantStatus:    models.StatusPaid,
			wantClamped:   true,
		},
		{
			name:          "float noise does not leave a negative balance",
			amount:        0.3,
			paid:          0.1,
			payment:       0.2,
			wantApplied:   0.2,
			wantPaid:      0.3,
			wantRemaining: 0,
			wantStatus:    models.StatusPaid,
		},
		{
			name:    "zero payment is rejected",
			amount:  500,
			payment: 0,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative payment is rejected",
			amount:  500,
			payment: -5,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "NaN payment is rejected",
			amount:  500,
			payment: math.NaN(),
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "sub-cent payment is rejected",
			amount:  500,
			payment: 0.004,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "settled loan rejects payment",
			amount:  500,
			paid:    500,
			payment: 10,
			wantErr: ErrAlreadySettled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ApplyPayment(tt.amount, tt.paid, tt.payment)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ApplyPayment() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyPayment() unexpected error: %v", err)
			}
			if math.Abs(out.Applied-tt.wantApplied) > models.Epsilon {
				t.Errorf("Applied = %v, want %v", out.Applied, tt.wantApplied)
			}
			if math.Abs(out.PaidAmount-tt.wantPaid) > models.Epsilon {
				t.Errorf("PaidAmount = %v, want %v", out.PaidAmount, tt.wantPaid)
			}
			if math.Abs(out.RemainingAmount-tt.wantRemaining) > models.Epsilon {
				t.Errorf("RemainingAmount = %v, want %v", out.RemainingAmount, tt.wantRemaining)
			}
			if out.RemainingAmount < 0 {
				t.Errorf("RemainingAmount = %v, must not be negative", out.RemainingAmount)
			}
			if out.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", out.Status, tt.wantStatus)
			}
			if out.Clamped != tt.wantClamped {
				t.Errorf("Clamped = %v, want %v", out.Clamped, tt.wantClamped)
			}
			if out.ClosesLoan != (tt.wantStatus == models.StatusPaid) {
				t.Errorf("ClosesLoan = %v for status %v", out.ClosesLoan, out.Status)
			}
			// Conservation
			if math.Abs(out.PaidAmount+out.RemainingAmount-tt.amount) > models.Epsilon {
				t.Errorf("paid %v + remaining %v != amount %v", out.PaidAmount, out.RemainingAmount, tt.amount)
			}
		})
	}
}

func TestApplyPayment_ConservationOverSequence(t *testing.T) {
	amount := 1000.0
	paid := 0.0
	payments := []float64{100.10, 250.25, 0.65, 333.33, 400}

	for i, p := range payments {
		out, err := ApplyPayment(amount, paid, p)
		if err != nil {
			t.Fatalf("payment %d: %v", i, err)
		}
		paid = out.PaidAmount
		if math.Abs(out.PaidAmount+out.RemainingAmount-amount) > models.Epsilon {
			t.Fatalf("payment %d broke conservation: paid=%v remaining=%v", i, out.PaidAmount, out.RemainingAmount)
		}
		if out.Status != models.DeriveStatus(out.PaidAmount, amount) {
			t.Fatalf("payment %d status %v does not match derived status", i, out.Status)
		}
	}
	if paid != amount {
		t.Errorf("final paid = %v, want %v", paid, amount)
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		paid, amount float64
		want         models.Status
	}{
		{0, 100, models.StatusPending},
		{-1, 100, models.StatusPending},
		{0.01, 100, models.StatusPartial},
		{99.99, 100, models.StatusPartial},
		{100, 100, models.StatusPaid},
		{150, 100, models.StatusPaid},
	}
	for _, tt := range tests {
		if got := models.DeriveStatus(tt.paid, tt.amount); got != tt.want {
			t.Errorf("DeriveStatus(%v, %v) = %v, want %v", tt.paid, tt.amount, got, tt.want)
		}
	}
}

func TestReversePayment(t *testing.T) {
	paid, remaining, status := ReversePayment(500, 500, 300)
	if paid != 200 || remaining != 300 || status != models.StatusPartial {
		t.Errorf("ReversePayment(500, 500, 300) = %v, %v, %v", paid, remaining, status)
	}

	paid, remaining, status = ReversePayment(500, 200, 200)
	if paid != 0 || remaining != 500 || status != models.StatusPending {
		t.Errorf("ReversePayment(500, 200, 200) = %v, %v, %v", paid, remaining, status)
	}
}

func TestReprice(t *testing.T) {
	remaining, status, err := Reprice(800, 300)
	if err != nil {
		t.Fatalf("Reprice failed: %v", err)
	}
	if remaining != 500 || status != models.StatusPartial {
		t.Errorf("Reprice(800, 300) = %v, %v", remaining, status)
	}

	remaining, status, err = Reprice(300, 300)
	if err != nil {
		t.Fatalf("Reprice failed: %v", err)
	}
	if remaining != 0 || status != models.StatusPaid {
		t.Errorf("Reprice(300, 300) = %v, %v", remaining, status)
	}

	if _, _, err := Reprice(200, 300); !errors.Is(err, ErrBelowPaid) {
		t.Errorf("Reprice(200, 300) error = %v, want ErrBelowPaid", err)
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount float64
		valid  bool
	}{
		{0.01, true},
		{0.005, true}, // rounds up to a cent
		{0.004, false},
		{0, false},
		{-1, false},
		{MaxAmount, true},
		{MaxAmount + 1, false},
		{1e307, false},
		{math.Inf(1), false},
		{math.NaN(), false},
	}
	for _, tt := range tests {
		err := ValidateAmount(tt.amount)
		if tt.valid && err != nil {
			t.Errorf("ValidateAmount(%v) = %v, want nil", tt.amount, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ValidateAmount(%v) = %v, want ErrInvalidAmount", tt.amount, err)
		}
	}
}
