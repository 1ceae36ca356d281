package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/naveen-gthb/khatabook/internal/ledger"
	"github.com/naveen-gthb/khatabook/internal/models"
	api "github.com/naveen-gthb/khatabook/pkg/api"
	"github.com/naveen-gthb/khatabook/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	ledger *ledger.Service
}

// NewLedgerService creates a LedgerService backed by the ledger.
func NewLedgerService(l *ledger.Service) *LedgerService {
	return &LedgerService{ledger: l}
}

// CreateLoan records money lent to a contact
func (s *LedgerService) CreateLoan(ctx context.Context, req *connect.Request[api.CreateLoanRequest]) (*connect.Response[api.CreateLoanResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateLoan request received", "contact_id", req.Msg.ContactId, "amount", req.Msg.Amount)

	txn, err := s.ledger.CreateLoan(ctx, userID, req.Msg.ContactId, req.Msg.Amount, req.Msg.Purpose, req.Msg.Date)
	if err != nil {
		return nil, fail("CreateLoan", err, "contact_id", req.Msg.ContactId)
	}
	return connect.NewResponse(&api.CreateLoanResponse{Transaction: toAPITransaction(txn)}), nil
}

// CreateTransaction records a lent or standalone received transaction
func (s *LedgerService) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateTransaction request received", "contact_id", req.Msg.ContactId, "type", req.Msg.Type, "amount", req.Msg.Amount)

	txn, err := s.ledger.CreateTransaction(ctx, userID, ledger.TransactionInput{
		ContactID: req.Msg.ContactId,
		Amount:    req.Msg.Amount,
		Type:      models.TransactionType(req.Msg.Type),
		Purpose:   req.Msg.Purpose,
		Date:      req.Msg.Date,
	})
	if err != nil {
		return nil, fail("CreateTransaction", err, "contact_id", req.Msg.ContactId)
	}
	return connect.NewResponse(&api.CreateTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	txn, err := s.ledger.GetTransaction(ctx, userID, req.Msg.TransactionId)
	if err != nil {
		return nil, fail("GetTransaction", err, "transaction_id", req.Msg.TransactionId)
	}
	return connect.NewResponse(&api.GetTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

// RecordPayment applies a repayment to a loan
func (s *LedgerService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RecordPayment request received", "loan_id", req.Msg.LoanId, "amount", req.Msg.Amount)

	result, err := s.ledger.RecordPayment(ctx, userID, ledger.PaymentInput{
		LoanID:  req.Msg.LoanId,
		Amount:  req.Msg.Amount,
		Date:    req.Msg.Date,
		Details: req.Msg.Details,
	})
	if err != nil {
		return nil, fail("RecordPayment", err, "loan_id", req.Msg.LoanId)
	}
	return connect.NewResponse(&api.RecordPaymentResponse{
		Loan:          toAPITransaction(result.Loan),
		Payment:       toAPITransaction(result.Payment),
		AppliedAmount: result.Applied,
		Clamped:       result.Clamped,
	}), nil
}

func (s *LedgerService) PreviewPayment(ctx context.Context, req *connect.Request[api.PreviewPaymentRequest]) (*connect.Response[api.PreviewPaymentResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	preview, err := s.ledger.PreviewPayment(ctx, userID, req.Msg.LoanId, req.Msg.Amount)
	if err != nil {
		return nil, fail("PreviewPayment", err, "loan_id", req.Msg.LoanId)
	}
	return connect.NewResponse(&api.PreviewPaymentResponse{
		AppliedAmount:   preview.Applied,
		Clamped:         preview.Clamped,
		PaidAmount:      preview.PaidAmount,
		RemainingAmount: preview.RemainingAmount,
		Status:          string(preview.Status),
		ClosesLoan:      preview.ClosesLoan,
	}), nil
}

// MarkAsPaid settles the remaining balance of a loan
func (s *LedgerService) MarkAsPaid(ctx context.Context, req *connect.Request[api.MarkAsPaidRequest]) (*connect.Response[api.MarkAsPaidResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("MarkAsPaid request received", "loan_id", req.Msg.LoanId)

	result, err := s.ledger.MarkAsPaid(ctx, userID, req.Msg.LoanId)
	if err != nil {
		return nil, fail("MarkAsPaid", err, "loan_id", req.Msg.LoanId)
	}
	return connect.NewResponse(&api.MarkAsPaidResponse{
		Loan:    toAPITransaction(result.Loan),
		Payment: toAPITransaction(result.Payment),
	}), nil
}

func (s *LedgerService) EditTransaction(ctx context.Context, req *connect.Request[api.EditTransactionRequest]) (*connect.Response[api.EditTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("EditTransaction request received", "transaction_id", req.Msg.TransactionId)

	upd := ledger.TransactionUpdate{
		ContactID: req.Msg.ContactId,
		Amount:    req.Msg.Amount,
		Purpose:   req.Msg.Purpose,
		Date:      req.Msg.Date,
	}
	if req.Msg.Type != nil {
		t := models.TransactionType(*req.Msg.Type)
		upd.Type = &t
	}

	txn, err := s.ledger.EditTransaction(ctx, userID, req.Msg.TransactionId, upd)
	if err != nil {
		return nil, fail("EditTransaction", err, "transaction_id", req.Msg.TransactionId)
	}
	return connect.NewResponse(&api.EditTransactionResponse{Transaction: toAPITransaction(txn)}), nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteTransaction request received", "transaction_id", req.Msg.TransactionId)

	if err := s.ledger.DeleteTransaction(ctx, userID, req.Msg.TransactionId); err != nil {
		return nil, fail("DeleteTransaction", err, "transaction_id", req.Msg.TransactionId)
	}
	return connect.NewResponse(&api.DeleteTransactionResponse{}), nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.ledger.ListTransactions(ctx, userID, toFilter(req.Msg.ContactId, req.Msg.Type, req.Msg.ExcludeChildPayments))
	if err != nil {
		return nil, fail("ListTransactions", err, "user_id", userID)
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: toAPIViews(views)}), nil
}

func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	payments, err := s.ledger.ListPayments(ctx, userID, req.Msg.LoanId)
	if err != nil {
		return nil, fail("ListPayments", err, "loan_id", req.Msg.LoanId)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: toAPITransactions(payments)}), nil
}

// WatchTransactions streams the full result set on subscribe and after every
// committed change, until the client goes away.
func (s *LedgerService) WatchTransactions(ctx context.Context, req *connect.Request[api.WatchTransactionsRequest], stream *connect.ServerStream[api.WatchTransactionsResponse]) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}

	q, err := s.ledger.WatchTransactions(ctx, userID, toFilter(req.Msg.ContactId, req.Msg.Type, req.Msg.ExcludeChildPayments))
	if err != nil {
		return fail("WatchTransactions", err, "user_id", userID)
	}
	defer q.Close()
	slog.Info("Live query started", "user_id", userID)

	for views := range q.Updates() {
		if err := stream.Send(&api.WatchTransactionsResponse{Transactions: toAPIViews(views)}); err != nil {
			slog.Debug("Live query send failed", "user_id", userID, "error", err)
			return err
		}
	}
	if err := q.Err(); err != nil {
		return fail("WatchTransactions", err, "user_id", userID)
	}
	slog.Info("Live query ended", "user_id", userID)
	return nil
}

func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.ledger.GetSummary(ctx, userID)
	if err != nil {
		return nil, fail("GetSummary", err, "user_id", userID)
	}

	resp := &api.GetSummaryResponse{
		TotalLent:     summary.Totals.TotalLent,
		TotalReceived: summary.Totals.TotalReceived,
		Outstanding:   summary.Outstanding,
		PendingLoans:  int32(summary.PendingLoans),
		PartialLoans:  int32(summary.PartialLoans),
		PaidLoans:     int32(summary.PaidLoans),
		Contacts:      make([]*api.ContactBalance, len(summary.Contacts)),
		ActiveOrders:  toAPIOrders(summary.ActiveOrders),
	}
	for i, c := range summary.Contacts {
		resp.Contacts[i] = &api.ContactBalance{
			ContactId:   c.ContactID,
			ContactName: c.ContactName,
			Lent:        c.Lent,
			Repaid:      c.Repaid,
			Outstanding: c.Outstanding,
			Received:    c.Received,
		}
	}
	return connect.NewResponse(resp), nil
}
