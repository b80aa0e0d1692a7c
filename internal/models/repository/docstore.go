package repository

import (
	"context"
	"strings"
	"time"

	domain "github.com/mrb1sh0p/email-mass-api/internal/models/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
)

// Models live under models/{orgID}/models/{id}.
func collectionFor(orgID string) string { return docstore.Join("models", orgID, "models") }

type Repository struct {
	store docstore.Store
}

var _ domain.Repository = (*Repository)(nil)

func New(store docstore.Store) *Repository { return &Repository{store: store} }

func (r *Repository) Create(ctx context.Context, orgID, title, body string) (domain.Model, error) {
	id, err := r.store.Create(ctx, collectionFor(orgID), map[string]any{
		"title":     strings.TrimSpace(title),
		"body":      strings.TrimSpace(body),
		"createdAt": docstore.ServerTimestamp,
		"updatedAt": docstore.ServerTimestamp,
	})
	if err != nil {
		return domain.Model{}, err
	}
	m, _, err := r.Get(ctx, orgID, id)
	return m, err
}

func (r *Repository) Get(ctx context.Context, orgID, id string) (domain.Model, bool, error) {
	doc, found, err := r.store.Get(ctx, docstore.Join(collectionFor(orgID), id))
	if err != nil || !found {
		return domain.Model{}, false, err
	}
	return fromDoc(doc), true, nil
}

func (r *Repository) Update(ctx context.Context, orgID, id string, title, body *string) (domain.Model, error) {
	fields := map[string]any{"updatedAt": docstore.ServerTimestamp}
	if title != nil {
		fields["title"] = strings.TrimSpace(*title)
	}
	if body != nil {
		fields["body"] = strings.TrimSpace(*body)
	}
	if err := r.store.Update(ctx, docstore.Join(collectionFor(orgID), id), fields); err != nil {
		return domain.Model{}, err
	}
	m, _, err := r.Get(ctx, orgID, id)
	return m, err
}

func (r *Repository) Delete(ctx context.Context, orgID, id string) error {
	return r.store.Delete(ctx, docstore.Join(collectionFor(orgID), id))
}

func (r *Repository) List(ctx context.Context, orgID string) ([]domain.Model, error) {
	docs, err := r.store.GetAll(ctx, collectionFor(orgID))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Model, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDoc(d))
	}
	return out, nil
}

func fromDoc(doc docstore.Document) domain.Model {
	m := domain.Model{ID: doc.ID}
	m.Title, _ = doc.Data["title"].(string)
	m.Body, _ = doc.Data["body"].(string)
	m.CreatedAt, _ = doc.Data["createdAt"].(time.Time)
	m.UpdatedAt, _ = doc.Data["updatedAt"].(time.Time)
	return m
}
