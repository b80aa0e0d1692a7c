package domain

import (
	"context"
	"errors"
	"time"
)

// Model is a reusable email template: the title becomes the subject line and
// the body is HTML content. Models are owned by an organization.
type Model struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateInput carries a partial model update; nil fields are left untouched.
type UpdateInput struct {
	ModelID string
	Title   *string
	Body    *string
}

var (
	ErrTitleBodyRequired = errors.New("title and body are required")
	ErrModelIDRequired   = errors.New("modelId is required")
	ErrNothingToUpdate   = errors.New("no valid field to update")
	ErrNotFound          = errors.New("model not found")
)

// Repository abstracts model-document storage, scoped by organization.
type Repository interface {
	Create(ctx context.Context, orgID, title, body string) (Model, error)
	Get(ctx context.Context, orgID, id string) (Model, bool, error)
	Update(ctx context.Context, orgID, id string, title, body *string) (Model, error)
	Delete(ctx context.Context, orgID, id string) error
	List(ctx context.Context, orgID string) ([]Model, error)
}

// Service encapsulates template management rules.
type Service interface {
	Create(ctx context.Context, orgID, title, body string) (Model, error)
	Update(ctx context.Context, orgID string, in UpdateInput) (Model, error)
	Delete(ctx context.Context, orgID, id string) error
	List(ctx context.Context, orgID string) ([]Model, error)
}
