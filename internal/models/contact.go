package models

// Contact represents a person the user lends money to or receives money from.
type Contact struct {
	// ID is the unique identifier for the contact (UUID format).
	ID string

	// UserID is the owner of this contact.
	UserID string

	// Name is the display name of the contact.
	Name string

	// Phone is the contact's phone number.
	Phone string

	// Email is optional.
	Email string

	// Notes is optional free text.
	Notes string

	// CreatedAt is the Unix timestamp when the contact was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last edit.
	UpdatedAt int64
}

// UnknownContactName is shown for transactions whose contact no longer exists.
const UnknownContactName = "Unknown Contact"
