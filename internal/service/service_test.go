package service

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/naveen-gthb/khatabook/internal/auth"
	"github.com/naveen-gthb/khatabook/internal/ledger"
	"github.com/naveen-gthb/khatabook/internal/middleware"
	"github.com/naveen-gthb/khatabook/internal/storage/sqlite"
	api "github.com/naveen-gthb/khatabook/pkg/api"
	"github.com/naveen-gthb/khatabook/pkg/api/apiconnect"
)

// testUserHeader overrides the acting user for a single request.
const testUserHeader = "X-Test-User"

// testAuthInterceptor sets a test user ID in the context of unary and
// streaming handlers. The user is "Alice" unless testUserHeader is set.
type testAuthInterceptor struct{}

func (testAuthInterceptor) withUser(ctx context.Context, header http.Header) context.Context {
	user := header.Get(testUserHeader)
	if user == "" {
		user = "Alice"
	}
	return context.WithValue(ctx, middleware.UserIDKey, user)
}

func (i testAuthInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return next(i.withUser(ctx, req.Header()), req)
	}
}

func (testAuthInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i testAuthInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		return next(i.withUser(ctx, conn.RequestHeader()), conn)
	}
}

type testClients struct {
	auth     apiconnect.AuthServiceClient
	contacts apiconnect.ContactServiceClient
	ledger   apiconnect.LedgerServiceClient
	orders   apiconnect.OrderServiceClient
}

// setupTestServer creates a test server with a temp SQLite database
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "service-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name(), sqlite.WithRetryBackoff(time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	l := ledger.New(store, nil)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	interceptors := connect.WithInterceptors(testAuthInterceptor{})
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewContactServiceHandler(NewContactService(l), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(l), interceptors))
	mux.Handle(apiconnect.NewOrderServiceHandler(NewOrderService(l), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testClients{
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		contacts: apiconnect.NewContactServiceClient(http.DefaultClient, server.URL),
		ledger:   apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		orders:   apiconnect.NewOrderServiceClient(http.DefaultClient, server.URL),
	}
}

func (c *testClients) createContact(t *testing.T, name string) *api.Contact {
	t.Helper()
	resp, err := c.contacts.CreateContact(context.Background(), connect.NewRequest(&api.CreateContactRequest{
		Name:  name,
		Phone: "555-0100",
	}))
	if err != nil {
		t.Fatalf("CreateContact failed: %v", err)
	}
	return resp.Msg.Contact
}

func (c *testClients) createLoan(t *testing.T, contactID string, amount float64) *api.Transaction {
	t.Helper()
	resp, err := c.ledger.CreateLoan(context.Background(), connect.NewRequest(&api.CreateLoanRequest{
		ContactId: contactID,
		Amount:    amount,
		Purpose:   "rent",
	}))
	if err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}
	return resp.Msg.Transaction
}

func (c *testClients) pay(t *testing.T, loanID string, amount float64) *api.RecordPaymentResponse {
	t.Helper()
	resp, err := c.ledger.RecordPayment(context.Background(), connect.NewRequest(&api.RecordPaymentRequest{
		LoanId: loanID,
		Amount: amount,
	}))
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	return resp.Msg
}

func asUser[T any](req *connect.Request[T], userID string) *connect.Request[T] {
	req.Header().Set(testUserHeader, userID)
	return req
}

func assertAmount(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %.2f, want %.2f", name, got, want)
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code = %v, want %v (err: %v)", got, want, err)
	}
}
