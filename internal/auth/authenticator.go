// Package auth signs organizers in. It only answers "who is calling";
// whether that user may change a tab is decided by the services.
package auth

import (
	"context"

	"github.com/mmynk/tabie/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// Guests never authenticate; they join published tabs by name.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
