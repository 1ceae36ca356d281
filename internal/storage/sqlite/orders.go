package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

const orderColumns = `id, user_id, order_ref, vendor, amount, date,
	delivery_status, return_status, refund_status, notes, created_at, updated_at`

// CreateOrder persists a new order to the database.
func (d *docs) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt == 0 {
		order.CreatedAt = time.Now().Unix()
	}
	order.UpdatedAt = order.CreatedAt

	_, err := d.q.ExecContext(ctx,
		`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.OrderID, order.Vendor, order.Amount, order.Date,
		string(order.DeliveryStatus), string(order.ReturnStatus), string(order.RefundStatus),
		nullString(order.Notes), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by ID.
func (d *docs) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	row := d.q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, orderID)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s: %w", orderID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListOrders retrieves a user's orders, newest first.
func (d *docs) ListOrders(ctx context.Context, userID string) ([]*models.Order, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

// UpdateOrder overwrites an order's editable fields.
func (d *docs) UpdateOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().Unix()
	res, err := d.q.ExecContext(ctx,
		`UPDATE orders SET order_ref = ?, vendor = ?, amount = ?, date = ?, delivery_status = ?,
		 return_status = ?, refund_status = ?, notes = ?, updated_at = ? WHERE id = ?`,
		order.OrderID, order.Vendor, order.Amount, order.Date, string(order.DeliveryStatus),
		string(order.ReturnStatus), string(order.RefundStatus), nullString(order.Notes),
		order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return checkAffected(res, "order", order.ID)
}

// DeleteOrder removes an order by ID.
func (d *docs) DeleteOrder(ctx context.Context, orderID string) error {
	res, err := d.q.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return checkAffected(res, "order", orderID)
}

func scanOrder(row scanner) (*models.Order, error) {
	order := &models.Order{}
	var delivery, ret, refund string
	var notes sql.NullString
	if err := row.Scan(&order.ID, &order.UserID, &order.OrderID, &order.Vendor, &order.Amount,
		&order.Date, &delivery, &ret, &refund, &notes, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	order.DeliveryStatus = models.DeliveryStatus(delivery)
	order.ReturnStatus = models.ClaimStatus(ret)
	order.RefundStatus = models.ClaimStatus(refund)
	order.Notes = notes.String
	return order, nil
}
