package ledger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/naveen-gthb/khatabook/internal/feed"
	"github.com/naveen-gthb/khatabook/internal/models"
	"github.com/naveen-gthb/khatabook/internal/storage"
)

// ContactInput holds the editable fields of a contact.
type ContactInput struct {
	Name  string
	Phone string
	Email string
	Notes string
}

func (in *ContactInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return invalid("name is required")
	}
	if in.Phone == "" {
		return invalid("phone is required")
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return invalid("email %q is not valid", in.Email)
	}
	return nil
}

// CreateContact adds a contact to the user's address book.
func (s *Service) CreateContact(ctx context.Context, userID string, in ContactInput) (*models.Contact, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	contact := &models.Contact{
		UserID:    userID,
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateContact(ctx, contact); err != nil {
		return nil, translate(err)
	}
	s.publish(ctx, []feed.Event{{UserID: userID, Collection: feed.CollectionContacts, DocID: contact.ID, Kind: feed.KindCreated}})

	slog.Info("Contact created", "contact_id", contact.ID)
	return contact, nil
}

// GetContact returns one of the user's contacts.
func (s *Service) GetContact(ctx context.Context, userID, contactID string) (*models.Contact, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return getOwnedContact(ctx, s.store, userID, contactID)
}

// ListContacts returns the user's contacts ordered by name.
func (s *Service) ListContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	contacts, err := s.store.ListContacts(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return contacts, nil
}

// SearchContacts matches query against name and email case-insensitively and
// against phone as a plain substring. An empty query returns every contact.
func (s *Service) SearchContacts(ctx context.Context, userID, query string) ([]*models.Contact, error) {
	contacts, err := s.ListContacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return contacts, nil
	}

	lower := strings.ToLower(query)
	var matches []*models.Contact
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower) ||
			strings.Contains(c.Phone, query) {
			matches = append(matches, c)
		}
	}
	return matches, nil
}

// UpdateContact replaces a contact's editable fields.
func (s *Service) UpdateContact(ctx context.Context, userID, contactID string, in ContactInput) (*models.Contact, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	var updated *models.Contact
	err := s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		contact, err := getOwnedContact(ctx, tx, userID, contactID)
		if err != nil {
			return err
		}
		contact.Name = in.Name
		contact.Phone = in.Phone
		contact.Email = in.Email
		contact.Notes = in.Notes
		if err := tx.UpdateContact(ctx, contact); err != nil {
			return err
		}
		c.add(feed.CollectionContacts, contact.ID, feed.KindUpdated)
		updated = contact
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteContact removes a contact. Its transactions stay and show up under
// models.UnknownContactName.
func (s *Service) DeleteContact(ctx context.Context, userID, contactID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	err := s.runInTx(ctx, userID, func(ctx context.Context, tx storage.Tx, c *changes) error {
		if _, err := getOwnedContact(ctx, tx, userID, contactID); err != nil {
			return err
		}
		if err := tx.DeleteContact(ctx, contactID); err != nil {
			return err
		}
		c.add(feed.CollectionContacts, contactID, feed.KindDeleted)
		return nil
	})
	if err != nil {
		return err
	}
	slog.Info("Contact deleted", "contact_id", contactID)
	return nil
}
