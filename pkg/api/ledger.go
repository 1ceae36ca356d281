package api

type PaymentHistoryItem struct {
	TransactionId string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	Date          int64   `json:"date"`
	Details       string  `json:"details,omitempty"`
}

// Transaction is a ledger entry. Status, PaidAmount, RemainingAmount and
// PaymentHistory are set on lent transactions only; ParentTransactionId is
// set on repayments.
type Transaction struct {
	Id                  string                `json:"id"`
	ContactId           string                `json:"contactId"`
	ContactName         string                `json:"contactName,omitempty"`
	Amount              float64               `json:"amount"`
	Type                string                `json:"type"`
	Purpose             string                `json:"purpose"`
	Date                int64                 `json:"date"`
	CreatedAt           int64                 `json:"createdAt"`
	Status              string                `json:"status,omitempty"`
	PaidAmount          float64               `json:"paidAmount,omitempty"`
	RemainingAmount     float64               `json:"remainingAmount,omitempty"`
	ParentTransactionId string                `json:"parentTransactionId,omitempty"`
	PaymentHistory      []*PaymentHistoryItem `json:"paymentHistory,omitempty"`
	Version             int64                 `json:"version"`
}

type CreateLoanRequest struct {
	ContactId string  `json:"contactId"`
	Amount    float64 `json:"amount"`
	Purpose   string  `json:"purpose"`
	Date      int64   `json:"date,omitempty"`
}

type CreateLoanResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type CreateTransactionRequest struct {
	ContactId string  `json:"contactId"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Purpose   string  `json:"purpose"`
	Date      int64   `json:"date,omitempty"`
}

type CreateTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type GetTransactionRequest struct {
	TransactionId string `json:"transactionId"`
}

type GetTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type RecordPaymentRequest struct {
	LoanId  string  `json:"loanId"`
	Amount  float64 `json:"amount"`
	Date    int64   `json:"date,omitempty"`
	Details string  `json:"details,omitempty"`
}

type RecordPaymentResponse struct {
	Loan          *Transaction `json:"loan"`
	Payment       *Transaction `json:"payment"`
	AppliedAmount float64      `json:"appliedAmount"`
	Clamped       bool         `json:"clamped"`
}

type PreviewPaymentRequest struct {
	LoanId string  `json:"loanId"`
	Amount float64 `json:"amount"`
}

type PreviewPaymentResponse struct {
	AppliedAmount   float64 `json:"appliedAmount"`
	Clamped         bool    `json:"clamped"`
	PaidAmount      float64 `json:"paidAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	Status          string  `json:"status"`
	ClosesLoan      bool    `json:"closesLoan"`
}

type MarkAsPaidRequest struct {
	LoanId string `json:"loanId"`
}

// MarkAsPaidResponse carries no Payment when the loan was already settled.
type MarkAsPaidResponse struct {
	Loan    *Transaction `json:"loan"`
	Payment *Transaction `json:"payment,omitempty"`
}

// EditTransactionRequest changes only the fields that are set.
type EditTransactionRequest struct {
	TransactionId string   `json:"transactionId"`
	ContactId     *string  `json:"contactId,omitempty"`
	Amount        *float64 `json:"amount,omitempty"`
	Type          *string  `json:"type,omitempty"`
	Purpose       *string  `json:"purpose,omitempty"`
	Date          *int64   `json:"date,omitempty"`
}

type EditTransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionId string `json:"transactionId"`
}

type DeleteTransactionResponse struct{}

type ListTransactionsRequest struct {
	ContactId            string `json:"contactId,omitempty"`
	Type                 string `json:"type,omitempty"`
	ExcludeChildPayments bool   `json:"excludeChildPayments,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type ListPaymentsRequest struct {
	LoanId string `json:"loanId"`
}

type ListPaymentsResponse struct {
	Payments []*Transaction `json:"payments"`
}

type WatchTransactionsRequest struct {
	ContactId            string `json:"contactId,omitempty"`
	Type                 string `json:"type,omitempty"`
	ExcludeChildPayments bool   `json:"excludeChildPayments,omitempty"`
}

// WatchTransactionsResponse is one full result set of a live query.
type WatchTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type ContactBalance struct {
	ContactId   string  `json:"contactId"`
	ContactName string  `json:"contactName"`
	Lent        float64 `json:"lent"`
	Repaid      float64 `json:"repaid"`
	Outstanding float64 `json:"outstanding"`
	Received    float64 `json:"received"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	TotalLent     float64           `json:"totalLent"`
	TotalReceived float64           `json:"totalReceived"`
	Outstanding   float64           `json:"outstanding"`
	PendingLoans  int32             `json:"pendingLoans"`
	PartialLoans  int32             `json:"partialLoans"`
	PaidLoans     int32             `json:"paidLoans"`
	Contacts      []*ContactBalance `json:"contacts"`
	ActiveOrders  []*Order          `json:"activeOrders"`
}
