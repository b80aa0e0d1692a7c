// Package identity abstracts the hosted authentication provider: password
// sign-in plus account lifecycle. Error values mirror the provider's coded
// failures so callers can map them to HTTP statuses.
package identity

import (
	"context"
	"errors"
)

var (
	ErrWrongPassword = errors.New("wrong-password")
	ErrUserNotFound  = errors.New("user-not-found")
	ErrEmailInUse    = errors.New("email-already-in-use")
)

// Provider is the identity collaborator contract.
type Provider interface {
	// SignIn verifies email/password and returns the account's uid.
	SignIn(ctx context.Context, email, password string) (string, error)
	// CreateUser provisions a new account and returns its uid.
	CreateUser(ctx context.Context, email, password string) (string, error)
	// DeleteUser removes an account by uid.
	DeleteUser(ctx context.Context, uid string) error
}
