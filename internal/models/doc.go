// Package models defines the core domain models for KhataBook.
//
// # Models
//
//   - Contact: a person the user lends money to or receives money from
//   - Transaction: a lent or received amount; loans carry their repayment state
//   - PaymentHistoryItem: one repayment applied to a loan
//   - Totals: per-user materialized aggregate of lent and received amounts
//   - Order: a purchase order tracked alongside the ledger
//   - User: a registered account that owns all of the above
//
// # Design Principles
//
// 1. **User scoping**: every document carries the owning UserID
// 2. **Avoid circular references**: use ID strings instead of pointers for relationships
// 3. **Denormalize for reads only**: loans keep PaidAmount/RemainingAmount alongside Amount,
//    contact names are joined at read time and never stored on transactions
// 4. **Unix timestamps**: all times are stored as Unix seconds
package models
