package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/naveen-gthb/khatabook/internal/models"
)

// GetTotals retrieves a user's totals, or zero totals if none are stored yet.
func (d *docs) GetTotals(ctx context.Context, userID string) (*models.Totals, error) {
	totals := &models.Totals{UserID: userID}
	err := d.q.QueryRowContext(ctx,
		"SELECT total_lent, total_received, updated_at FROM totals WHERE user_id = ?",
		userID,
	).Scan(&totals.TotalLent, &totals.TotalReceived, &totals.UpdatedAt)
	if err == sql.ErrNoRows {
		return totals, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}
	return totals, nil
}

// PutTotals inserts or replaces a user's totals.
func (d *docs) PutTotals(ctx context.Context, totals *models.Totals) error {
	totals.UpdatedAt = time.Now().Unix()
	_, err := d.q.ExecContext(ctx,
		`INSERT INTO totals (user_id, total_lent, total_received, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   total_lent = excluded.total_lent,
		   total_received = excluded.total_received,
		   updated_at = excluded.updated_at`,
		totals.UserID, totals.TotalLent, totals.TotalReceived, totals.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put totals: %w", err)
	}
	return nil
}

// ListTotalsUsers returns every user with transactions or a totals record.
func (d *docs) ListTotalsUsers(ctx context.Context) ([]string, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT user_id FROM totals UNION SELECT DISTINCT user_id FROM transactions ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to list totals users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
