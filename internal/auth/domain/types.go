package domain

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session token payload: the subject is the identity
// provider's uid, the rest mirrors the stored user document so downstream
// handlers can authorize without a lookup.
type Claims struct {
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
	jwt.RegisteredClaims
}

// LoginInput carries a password sign-in attempt.
type LoginInput struct {
	Email    string
	Password string
}

// CredentialError wraps the identity provider's coded sign-in failures so
// the controller can answer 401 with the provider's code.
type CredentialError struct {
	Code string
}

func (e *CredentialError) Error() string { return e.Code }

var ErrMissingCredentials = errors.New("email and password are required")
