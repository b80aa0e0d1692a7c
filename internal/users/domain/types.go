package domain

import (
	"context"
	"errors"
	"time"
)

// Roles, from least to most privileged.
const (
	RoleUser       = "user"
	RoleOrgAdmin   = "org-admin"
	RoleSuperAdmin = "super-admin"
)

// User is the stored profile for one account; the uid comes from the
// identity provider.
type User struct {
	UID            string
	Name           string
	Email          string
	Role           string
	OrganizationID string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Actor identifies who is performing an operation; built from JWT claims.
type Actor struct {
	UID            string
	Role           string
	OrganizationID string
}

// IsAdmin reports whether the actor holds org-admin or super-admin.
func (a Actor) IsAdmin() bool { return a.Role == RoleOrgAdmin || a.Role == RoleSuperAdmin }

// RegisterInput carries a new user registration.
type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	OrganizationID string
}

// ListOptions scope a user listing.
type ListOptions struct {
	Search string
	Limit  int
}

// Summary is the listing projection of a user.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

var (
	ErrForbidden    = errors.New("insufficient permission")
	ErrWrongOrg     = errors.New("unauthorized access to this organization")
	ErrMissingField = errors.New("missing required field")
)

// Repository abstracts user-document storage.
type Repository interface {
	Get(ctx context.Context, uid string) (User, bool, error)
	Put(ctx context.Context, u User) error
	Delete(ctx context.Context, uid string) error
	// List returns summaries, restricted to orgID when non-empty.
	List(ctx context.Context, orgID string, opts ListOptions) ([]Summary, error)
	// SetRole updates a user's role and organization binding.
	SetRole(ctx context.Context, uid, role, orgID string) error
}

// Service encapsulates user management rules.
type Service interface {
	Register(ctx context.Context, actor Actor, in RegisterInput) (string, error)
	List(ctx context.Context, actor Actor, opts ListOptions) ([]Summary, error)
	Delete(ctx context.Context, actor Actor, uid string) error
}
