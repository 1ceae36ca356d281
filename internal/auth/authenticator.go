// Package auth issues and verifies the credentials that identify the acting user.
package auth

import (
	"context"

	"github.com/naveen-gthb/khatabook/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Swapping password auth for another method leaves the RPC layer unchanged.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
