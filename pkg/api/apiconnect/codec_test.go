package apiconnect

import (
	"testing"

	api "github.com/naveen-gthb/khatabook/pkg/api"
)

func TestCodec(t *testing.T) {
	c := Codec{}

	data, err := c.Marshal(&api.RecordPaymentRequest{LoanId: "l1", Amount: 200})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"loanId":"l1","amount":200}` {
		t.Errorf("unexpected encoding: %s", data)
	}

	t.Run("empty body decodes to zero message", func(t *testing.T) {
		var req api.GetSummaryRequest
		if err := c.Unmarshal(nil, &req); err != nil {
			t.Errorf("Unmarshal failed: %v", err)
		}
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		var req api.RecordPaymentRequest
		if err := c.Unmarshal([]byte(`{"loanId":"l1","amout":5}`), &req); err == nil {
			t.Error("expected error for unknown field")
		}
	})
}
