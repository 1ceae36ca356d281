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

const contactColumns = `id, user_id, name, phone, email, notes, created_at, updated_at`

// CreateContact persists a new contact to the database.
func (d *docs) CreateContact(ctx context.Context, contact *models.Contact) error {
	// Generate ID if not set
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if contact.CreatedAt == 0 {
		contact.CreatedAt = now
	}
	if contact.UpdatedAt == 0 {
		contact.UpdatedAt = contact.CreatedAt
	}

	_, err := d.q.ExecContext(ctx,
		`INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.ID, contact.UserID, contact.Name, contact.Phone,
		nullString(contact.Email), nullString(contact.Notes),
		contact.CreatedAt, contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// GetContact retrieves a contact by ID.
func (d *docs) GetContact(ctx context.Context, contactID string) (*models.Contact, error) {
	row := d.q.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, contactID)
	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contact %s: %w", contactID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// ListContacts retrieves all contacts for a user, ordered by name.
func (d *docs) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	rows, err := d.q.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE user_id = ? ORDER BY name COLLATE NOCASE, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

// UpdateContact updates the editable fields of a contact.
func (d *docs) UpdateContact(ctx context.Context, contact *models.Contact) error {
	contact.UpdatedAt = time.Now().Unix()
	res, err := d.q.ExecContext(ctx,
		`UPDATE contacts SET name = ?, phone = ?, email = ?, notes = ?, updated_at = ? WHERE id = ?`,
		contact.Name, contact.Phone, nullString(contact.Email), nullString(contact.Notes),
		contact.UpdatedAt, contact.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return checkAffected(res, "contact", contact.ID)
}

// DeleteContact removes a contact by ID. Transactions referencing it are kept.
func (d *docs) DeleteContact(ctx context.Context, contactID string) error {
	res, err := d.q.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", contactID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return checkAffected(res, "contact", contactID)
}

func scanContact(row scanner) (*models.Contact, error) {
	contact := &models.Contact{}
	var email, notes sql.NullString
	if err := row.Scan(&contact.ID, &contact.UserID, &contact.Name, &contact.Phone,
		&email, &notes, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
		return nil, err
	}
	contact.Email = email.String
	contact.Notes = notes.String
	return contact, nil
}
