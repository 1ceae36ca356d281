package service

import (
	"github.com/naveen-gthb/khatabook/internal/ledger"
	"github.com/naveen-gthb/khatabook/internal/models"
	api "github.com/naveen-gthb/khatabook/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		Id:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIContact(c *models.Contact) *api.Contact {
	return &api.Contact{
		Id:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toAPIContacts(contacts []*models.Contact) []*api.Contact {
	out := make([]*api.Contact, len(contacts))
	for i, c := range contacts {
		out[i] = toAPIContact(c)
	}
	return out
}

func toAPITransaction(t *models.Transaction) *api.Transaction {
	if t == nil {
		return nil
	}
	out := &api.Transaction{
		Id:                  t.ID,
		ContactId:           t.ContactID,
		Amount:              t.Amount,
		Type:                string(t.Type),
		Purpose:             t.Purpose,
		Date:                t.Date,
		CreatedAt:           t.CreatedAt,
		Status:              string(t.Status),
		PaidAmount:          t.PaidAmount,
		RemainingAmount:     t.RemainingAmount,
		ParentTransactionId: t.ParentTransactionID,
		Version:             t.Version,
	}
	for _, item := range t.PaymentHistory {
		out.PaymentHistory = append(out.PaymentHistory, &api.PaymentHistoryItem{
			TransactionId: item.TransactionID,
			Amount:        item.Amount,
			Date:          item.Date,
			Details:       item.Details,
		})
	}
	return out
}

func toAPITransactions(txns []*models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txns))
	for i, t := range txns {
		out[i] = toAPITransaction(t)
	}
	return out
}

func toAPIViews(views []ledger.TransactionView) []*api.Transaction {
	out := make([]*api.Transaction, len(views))
	for i, v := range views {
		out[i] = toAPITransaction(v.Transaction)
		out[i].ContactName = v.ContactName
	}
	return out
}

func toAPIOrder(o *models.Order) *api.Order {
	return &api.Order{
		Id:             o.ID,
		OrderId:        o.OrderID,
		Vendor:         o.Vendor,
		Amount:         o.Amount,
		Date:           o.Date,
		DeliveryStatus: string(o.DeliveryStatus),
		ReturnStatus:   string(o.ReturnStatus),
		RefundStatus:   string(o.RefundStatus),
		Notes:          o.Notes,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toAPIOrders(orders []*models.Order) []*api.Order {
	out := make([]*api.Order, len(orders))
	for i, o := range orders {
		out[i] = toAPIOrder(o)
	}
	return out
}

func toOrderInput(f *api.OrderFields) ledger.OrderInput {
	if f == nil {
		return ledger.OrderInput{}
	}
	return ledger.OrderInput{
		OrderID:        f.OrderId,
		Vendor:         f.Vendor,
		Amount:         f.Amount,
		Date:           f.Date,
		DeliveryStatus: models.DeliveryStatus(f.DeliveryStatus),
		ReturnStatus:   models.ClaimStatus(f.ReturnStatus),
		RefundStatus:   models.ClaimStatus(f.RefundStatus),
		Notes:          f.Notes,
	}
}

func toFilter(contactID, txnType string, excludeChildPayments bool) ledger.Filter {
	return ledger.Filter{
		ContactID:            contactID,
		Type:                 models.TransactionType(txnType),
		ExcludeChildPayments: excludeChildPayments,
	}
}
