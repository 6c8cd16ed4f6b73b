package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator verifies ledger users. AuthService depends on this rather than
// on bcrypt so a different credential scheme can be dropped in.
type Authenticator interface {
	// Register stores a new user. Returns ErrEmailExists for a taken email and
	// ErrWeakPassword when the credential is rejected.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user for a matching email and credential, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
