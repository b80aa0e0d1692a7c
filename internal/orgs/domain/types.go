package domain

import (
	"context"
	"errors"
	"time"
)

// Organization is a tenant: it owns its SMTP configuration, templates,
// members and send logs.
type Organization struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	OrgAdmins   []string
	OrgMembers  []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListOptions for organization listing.
type ListOptions struct {
	Search string
	Page   int
	Limit  int
}

// ListItem is the listing projection, including whether the requesting user
// administers the organization.
type ListItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	MemberCount int       `json:"memberCount"`
	IsAdmin     bool      `json:"isAdmin"`
}

// ListResult holds items and pagination metadata.
type ListResult struct {
	Items      []ListItem `json:"data"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`
}

var (
	ErrForbidden   = errors.New("unauthorized access")
	ErrNoOrg       = errors.New("user is not bound to an organization")
	ErrNameMissing = errors.New("organization name is required")
)

// Repository abstracts organization-document storage.
type Repository interface {
	Create(ctx context.Context, o Organization) (string, error)
	Get(ctx context.Context, id string) (Organization, bool, error)
	// Find searches by lowercase name prefix when search is non-empty,
	// otherwise returns the most recently created organizations.
	Find(ctx context.Context, search string, limit int) ([]Organization, error)
	Count(ctx context.Context) (int64, error)
	AddAdmin(ctx context.Context, orgID, uid string) error
	AddMember(ctx context.Context, orgID, uid string) error
	RemoveMember(ctx context.Context, orgID, uid string) error
}
