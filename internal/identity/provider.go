package identity

import (
	"context"
	"errors"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Identity is the stable identity a verified token resolves to.
type Identity struct {
	ID    string
	Email string
}

// Provider issues and verifies the bearer tokens presented on every
// authenticated call. The rest of the service only sees this interface.
type Provider interface {
	// SignUp registers credentials for a new user and returns its
	// identity. Fails with ErrEmailTaken when the email is registered.
	SignUp(ctx context.Context, email, password string) (Identity, error)

	// SignIn checks the credentials and returns an opaque bearer token.
	SignIn(ctx context.Context, email, password string) (string, error)

	// Verify resolves a bearer token to the identity it was issued for.
	Verify(ctx context.Context, token string) (Identity, error)
}
