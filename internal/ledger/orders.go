package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/naveen-gthb/khatabook/internal/calculator"
	"github.com/naveen-gthb/khatabook/internal/feed"
	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

// OrderInput holds the editable fields of an order. Empty statuses default
// to processing and none.
type OrderInput struct {
	OrderID        string
	Vendor         string
	Amount         float64
	Date           int64
	DeliveryStatus models.DeliveryStatus
	ReturnStatus   models.ClaimStatus
	RefundStatus   models.ClaimStatus
	Notes          string
}

func (s *Service) normalizeOrder(in *OrderInput) error {
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.Vendor = strings.TrimSpace(in.Vendor)
	if in.OrderID == "" {
		return invalid("order id is required")
	}
	if in.Vendor == "" {
		return invalid("vendor is required")
	}
	if err := calculator.ValidateAmount(in.Amount); err != nil {
		return translate(err)
	}
	if in.Date < 0 {
		return invalid("date must not be negative")
	}
	if in.Date == 0 {
		in.Date = s.now().Unix()
	}
	if in.DeliveryStatus == "" {
		in.DeliveryStatus = models.DeliveryProcessing
	}
	if in.ReturnStatus == "" {
		in.ReturnStatus = models.ClaimNone
	}
	if in.RefundStatus == "" {
		in.RefundStatus = models.ClaimNone
	}
	if !in.DeliveryStatus.Valid() {
		return invalid("unknown delivery status %q", in.DeliveryStatus)
	}
	if !in.ReturnStatus.Valid() {
		return invalid("unknown return status %q", in.ReturnStatus)
	}
	if !in.RefundStatus.Valid() {
		return invalid("unknown refund status %q", in.RefundStatus)
	}
	return nil
}

func (in OrderInput) applyTo(o *models.Order) {
	o.OrderID = in.OrderID
	o.Vendor = in.Vendor
	o.Amount = calculator.Round(in.Amount)
	o.Date = in.Date
	o.DeliveryStatus = in.DeliveryStatus
	o.ReturnStatus = in.ReturnStatus
	o.RefundStatus = in.RefundStatus
	o.Notes = in.Notes
}

// CreateOrder records a purchase order.
func (s *Service) CreateOrder(ctx context.Context, userID string, in OrderInput) (*models.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := s.normalizeOrder(&in); err != nil {
		return nil, err
	}

	order := &models.Order{UserID: userID, CreatedAt: s.now().Unix()}
	in.applyTo(order)
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, translate(err)
	}
	s.publish(ctx, []feed.Event{{UserID: userID, Collection: feed.CollectionOrders, DocID: order.ID, Kind: feed.KindCreated}})

	slog.Info("Order created", "order_id", order.ID, "vendor", order.Vendor)
	return order, nil
}

// GetOrder returns one of the user's orders.
func (s *Service) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return getOwnedOrder(ctx, s.store, userID, orderID)
}

// ListOrders returns the user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

// UpdateOrder replaces an order's editable fields.
func (s *Service) UpdateOrder(ctx context.Context, userID, orderID string, in OrderInput) (*models.Order, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := s.normalizeOrder(&in); err != nil {
		return nil, err
	}

	var updated *models.Order
	err := s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		order, err := getOwnedOrder(ctx, tx, userID, orderID)
		if err != nil {
			return err
		}
		in.applyTo(order)
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}
		c.add(feed.CollectionOrders, order.ID, feed.KindUpdated)
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOrder removes an order.
func (s *Service) DeleteOrder(ctx context.Context, userID, orderID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	return s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		if _, err := getOwnedOrder(ctx, tx, userID, orderID); err != nil {
			return err
		}
		if err := tx.DeleteOrder(ctx, orderID); err != nil {
			return err
		}
		c.add(feed.CollectionOrders, orderID, feed.KindDeleted)
		return nil
	})
}

func getOwnedOrder(ctx context.Context, tx storage.OrderStore, userID, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, invalid("order id is required")
	}
	order, err := tx.GetOrder(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return order, nil
}
