package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	api "github.com/naveen-gthb/khatabook/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "khatabook.v1.LedgerService"

const (
	LedgerServiceCreateLoanProcedure        = "/khatabook.v1.LedgerService/CreateLoan"
	LedgerServiceCreateTransactionProcedure = "/khatabook.v1.LedgerService/CreateTransaction"
	LedgerServiceGetTransactionProcedure    = "/khatabook.v1.LedgerService/GetTransaction"
	LedgerServiceRecordPaymentProcedure     = "/khatabook.v1.LedgerService/RecordPayment"
	LedgerServicePreviewPaymentProcedure    = "/khatabook.v1.LedgerService/PreviewPayment"
	LedgerServiceMarkAsPaidProcedure        = "/khatabook.v1.LedgerService/MarkAsPaid"
	LedgerServiceEditTransactionProcedure   = "/khatabook.v1.LedgerService/EditTransaction"
	LedgerServiceDeleteTransactionProcedure = "/khatabook.v1.LedgerService/DeleteTransaction"
	LedgerServiceListTransactionsProcedure  = "/khatabook.v1.LedgerService/ListTransactions"
	LedgerServiceListPaymentsProcedure      = "/khatabook.v1.LedgerService/ListPayments"
	LedgerServiceWatchTransactionsProcedure = "/khatabook.v1.LedgerService/WatchTransactions"
	LedgerServiceGetSummaryProcedure        = "/khatabook.v1.LedgerService/GetSummary"
)

// LedgerServiceClient is a client for the khatabook.v1.LedgerService service.
type LedgerServiceClient interface {
	CreateLoan(context.Context, *connect.Request[api.CreateLoanRequest]) (*connect.Response[api.CreateLoanResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	PreviewPayment(context.Context, *connect.Request[api.PreviewPaymentRequest]) (*connect.Response[api.PreviewPaymentResponse], error)
	MarkAsPaid(context.Context, *connect.Request[api.MarkAsPaidRequest]) (*connect.Response[api.MarkAsPaidResponse], error)
	EditTransaction(context.Context, *connect.Request[api.EditTransactionRequest]) (*connect.Response[api.EditTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	WatchTransactions(context.Context, *connect.Request[api.WatchTransactionsRequest]) (*connect.ServerStreamForClient[api.WatchTransactionsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewLedgerServiceClient constructs a client for the khatabook.v1.LedgerService service.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		createLoan:        connect.NewClient[api.CreateLoanRequest, api.CreateLoanResponse](httpClient, baseURL+LedgerServiceCreateLoanProcedure, opts...),
		createTransaction: connect.NewClient[api.CreateTransactionRequest, api.CreateTransactionResponse](httpClient, baseURL+LedgerServiceCreateTransactionProcedure, opts...),
		getTransaction:    connect.NewClient[api.GetTransactionRequest, api.GetTransactionResponse](httpClient, baseURL+LedgerServiceGetTransactionProcedure, opts...),
		recordPayment:     connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+LedgerServiceRecordPaymentProcedure, opts...),
		previewPayment:    connect.NewClient[api.PreviewPaymentRequest, api.PreviewPaymentResponse](httpClient, baseURL+LedgerServicePreviewPaymentProcedure, opts...),
		markAsPaid:        connect.NewClient[api.MarkAsPaidRequest, api.MarkAsPaidResponse](httpClient, baseURL+LedgerServiceMarkAsPaidProcedure, opts...),
		editTransaction:   connect.NewClient[api.EditTransactionRequest, api.EditTransactionResponse](httpClient, baseURL+LedgerServiceEditTransactionProcedure, opts...),
		deleteTransaction: connect.NewClient[api.DeleteTransactionRequest, api.DeleteTransactionResponse](httpClient, baseURL+LedgerServiceDeleteTransactionProcedure, opts...),
		listTransactions:  connect.NewClient[api.ListTransactionsRequest, api.ListTransactionsResponse](httpClient, baseURL+LedgerServiceListTransactionsProcedure, opts...),
		listPayments:      connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+LedgerServiceListPaymentsProcedure, opts...),
		watchTransactions: connect.NewClient[api.WatchTransactionsRequest, api.WatchTransactionsResponse](httpClient, baseURL+LedgerServiceWatchTransactionsProcedure, opts...),
		getSummary:        connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL+LedgerServiceGetSummaryProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createLoan        *connect.Client[api.CreateLoanRequest, api.CreateLoanResponse]
	createTransaction *connect.Client[api.CreateTransactionRequest, api.CreateTransactionResponse]
	getTransaction    *connect.Client[api.GetTransactionRequest, api.GetTransactionResponse]
	recordPayment     *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	previewPayment    *connect.Client[api.PreviewPaymentRequest, api.PreviewPaymentResponse]
	markAsPaid        *connect.Client[api.MarkAsPaidRequest, api.MarkAsPaidResponse]
	editTransaction   *connect.Client[api.EditTransactionRequest, api.EditTransactionResponse]
	deleteTransaction *connect.Client[api.DeleteTransactionRequest, api.DeleteTransactionResponse]
	listTransactions  *connect.Client[api.ListTransactionsRequest, api.ListTransactionsResponse]
	listPayments      *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	watchTransactions *connect.Client[api.WatchTransactionsRequest, api.WatchTransactionsResponse]
	getSummary        *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
}

func (c *ledgerServiceClient) CreateLoan(ctx context.Context, req *connect.Request[api.CreateLoanRequest]) (*connect.Response[api.CreateLoanResponse], error) {
	return c.createLoan.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateTransaction(ctx context.Context, req *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return c.createTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetTransaction(ctx context.Context, req *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) PreviewPayment(ctx context.Context, req *connect.Request[api.PreviewPaymentRequest]) (*connect.Response[api.PreviewPaymentResponse], error) {
	return c.previewPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) MarkAsPaid(ctx context.Context, req *connect.Request[api.MarkAsPaidRequest]) (*connect.Response[api.MarkAsPaidResponse], error) {
	return c.markAsPaid.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) EditTransaction(ctx context.Context, req *connect.Request[api.EditTransactionRequest]) (*connect.Response[api.EditTransactionResponse], error) {
	return c.editTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteTransaction(ctx context.Context, req *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return c.deleteTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) WatchTransactions(ctx context.Context, req *connect.Request[api.WatchTransactionsRequest]) (*connect.ServerStreamForClient[api.WatchTransactionsResponse], error) {
	return c.watchTransactions.CallServerStream(ctx, req)
}

func (c *ledgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

// LedgerServiceHandler is an implementation of the khatabook.v1.LedgerService service.
type LedgerServiceHandler interface {
	CreateLoan(context.Context, *connect.Request[api.CreateLoanRequest]) (*connect.Response[api.CreateLoanResponse], error)
	CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	PreviewPayment(context.Context, *connect.Request[api.PreviewPaymentRequest]) (*connect.Response[api.PreviewPaymentResponse], error)
	MarkAsPaid(context.Context, *connect.Request[api.MarkAsPaidRequest]) (*connect.Response[api.MarkAsPaidResponse], error)
	EditTransaction(context.Context, *connect.Request[api.EditTransactionRequest]) (*connect.Response[api.EditTransactionResponse], error)
	DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	WatchTransactions(context.Context, *connect.Request[api.WatchTransactionsRequest], *connect.ServerStream[api.WatchTransactionsResponse]) error
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createLoanHandler := connect.NewUnaryHandler(LedgerServiceCreateLoanProcedure, svc.CreateLoan, opts...)
	createTransactionHandler := connect.NewUnaryHandler(LedgerServiceCreateTransactionProcedure, svc.CreateTransaction, opts...)
	getTransactionHandler := connect.NewUnaryHandler(LedgerServiceGetTransactionProcedure, svc.GetTransaction, opts...)
	recordPaymentHandler := connect.NewUnaryHandler(LedgerServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	previewPaymentHandler := connect.NewUnaryHandler(LedgerServicePreviewPaymentProcedure, svc.PreviewPayment, opts...)
	markAsPaidHandler := connect.NewUnaryHandler(LedgerServiceMarkAsPaidProcedure, svc.MarkAsPaid, opts...)
	editTransactionHandler := connect.NewUnaryHandler(LedgerServiceEditTransactionProcedure, svc.EditTransaction, opts...)
	deleteTransactionHandler := connect.NewUnaryHandler(LedgerServiceDeleteTransactionProcedure, svc.DeleteTransaction, opts...)
	listTransactionsHandler := connect.NewUnaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts...)
	listPaymentsHandler := connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...)
	watchTransactionsHandler := connect.NewServerStreamHandler(LedgerServiceWatchTransactionsProcedure, svc.WatchTransactions, opts...)
	getSummaryHandler := connect.NewUnaryHandler(LedgerServiceGetSummaryProcedure, svc.GetSummary, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateLoanProcedure:
			createLoanHandler.ServeHTTP(w, r)
		case LedgerServiceCreateTransactionProcedure:
			createTransactionHandler.ServeHTTP(w, r)
		case LedgerServiceGetTransactionProcedure:
			getTransactionHandler.ServeHTTP(w, r)
		case LedgerServiceRecordPaymentProcedure:
			recordPaymentHandler.ServeHTTP(w, r)
		case LedgerServicePreviewPaymentProcedure:
			previewPaymentHandler.ServeHTTP(w, r)
		case LedgerServiceMarkAsPaidProcedure:
			markAsPaidHandler.ServeHTTP(w, r)
		case LedgerServiceEditTransactionProcedure:
			editTransactionHandler.ServeHTTP(w, r)
		case LedgerServiceDeleteTransactionProcedure:
			deleteTransactionHandler.ServeHTTP(w, r)
		case LedgerServiceListTransactionsProcedure:
			listTransactionsHandler.ServeHTTP(w, r)
		case LedgerServiceListPaymentsProcedure:
			listPaymentsHandler.ServeHTTP(w, r)
		case LedgerServiceWatchTransactionsProcedure:
			watchTransactionsHandler.ServeHTTP(w, r)
		case LedgerServiceGetSummaryProcedure:
			getSummaryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedLedgerServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedLedgerServiceHandler struct{}

func (UnimplementedLedgerServiceHandler) CreateLoan(context.Context, *connect.Request[api.CreateLoanRequest]) (*connect.Response[api.CreateLoanResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.CreateLoan is not implemented"))
}

func (UnimplementedLedgerServiceHandler) CreateTransaction(context.Context, *connect.Request[api.CreateTransactionRequest]) (*connect.Response[api.CreateTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.CreateTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetTransaction(context.Context, *connect.Request[api.GetTransactionRequest]) (*connect.Response[api.GetTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.GetTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.RecordPayment is not implemented"))
}

func (UnimplementedLedgerServiceHandler) PreviewPayment(context.Context, *connect.Request[api.PreviewPaymentRequest]) (*connect.Response[api.PreviewPaymentResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.PreviewPayment is not implemented"))
}

func (UnimplementedLedgerServiceHandler) MarkAsPaid(context.Context, *connect.Request[api.MarkAsPaidRequest]) (*connect.Response[api.MarkAsPaidResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.MarkAsPaid is not implemented"))
}

func (UnimplementedLedgerServiceHandler) EditTransaction(context.Context, *connect.Request[api.EditTransactionRequest]) (*connect.Response[api.EditTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.EditTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) DeleteTransaction(context.Context, *connect.Request[api.DeleteTransactionRequest]) (*connect.Response[api.DeleteTransactionResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.DeleteTransaction is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListTransactions(context.Context, *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.ListTransactions is not implemented"))
}

func (UnimplementedLedgerServiceHandler) ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.ListPayments is not implemented"))
}

func (UnimplementedLedgerServiceHandler) WatchTransactions(context.Context, *connect.Request[api.WatchTransactionsRequest], *connect.ServerStream[api.WatchTransactionsResponse]) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.WatchTransactions is not implemented"))
}

func (UnimplementedLedgerServiceHandler) GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("khatabook.v1.LedgerService.GetSummary is not implemented"))
}
