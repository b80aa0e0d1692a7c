package repository

import (
	"context"
	"strings"
	"time"

	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
	domain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

const usersCollection = "users"

type Repository struct {
	store docstore.Store
}

var _ domain.Repository = (*Repository)(nil)

func New(store docstore.Store) *Repository { return &Repository{store: store} }

func (r *Repository) Get(ctx context.Context, uid string) (domain.User, bool, error) {
	doc, found, err := r.store.Get(ctx, docstore.Join(usersCollection, uid))
	if err != nil || !found {
		return domain.User{}, false, err
	}
	return fromDoc(doc), true, nil
}

func (r *Repository) Put(ctx context.Context, u domain.User) error {
	return r.store.Set(ctx, docstore.Join(usersCollection, u.UID), map[string]any{
		"name":           u.Name,
		"name_lower":     strings.ToLower(u.Name),
		"email":          u.Email,
		"role":           u.Role,
		"organizationId": u.OrganizationID,
		"createdAt":      docstore.ServerTimestamp,
		"updatedAt":      docstore.ServerTimestamp,
	})
}

func (r *Repository) Delete(ctx context.Context, uid string) error {
	return r.store.Delete(ctx, docstore.Join(usersCollection, uid))
}

func (r *Repository) List(ctx context.Context, orgID string, opts domain.ListOptions) ([]domain.Summary, error) {
	q := docstore.Query{Limit: opts.Limit}
	if opts.Search != "" {
		s := strings.ToLower(opts.Search)
		q.Filters = append(q.Filters,
			docstore.Filter{Field: "name_lower", Op: ">=", Value: s},
			docstore.Filter{Field: "name_lower", Op: "<=", Value: s + "\uf8ff"},
		)
		q.OrderBy = "name_lower"
	} else {
		q.OrderBy = "createdAt"
		q.Desc = true
	}
	if orgID != "" {
		q.Filters = append(q.Filters, docstore.Filter{Field: "organizationId", Op: "==", Value: orgID})
	}

	docs, err := r.store.Find(ctx, usersCollection, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Summary, 0, len(docs))
	for _, d := range docs {
		name, _ := d.Data["name"].(string)
		if name == "" {
			name = "Unnamed"
		}
		role, _ := d.Data["role"].(string)
		out = append(out, domain.Summary{ID: d.ID, Name: name, Role: role})
	}
	return out, nil
}

func (r *Repository) SetRole(ctx context.Context, uid, role, orgID string) error {
	return r.store.Update(ctx, docstore.Join(usersCollection, uid), map[string]any{
		"role":           role,
		"organizationId": orgID,
		"updatedAt":      docstore.ServerTimestamp,
	})
}

func fromDoc(doc docstore.Document) domain.User {
	u := domain.User{UID: doc.ID}
	u.Name, _ = doc.Data["name"].(string)
	u.Email, _ = doc.Data["email"].(string)
	u.Role, _ = doc.Data["role"].(string)
	u.OrganizationID, _ = doc.Data["organizationId"].(string)
	u.CreatedAt, _ = doc.Data["createdAt"].(time.Time)
	u.UpdatedAt, _ = doc.Data["updatedAt"].(time.Time)
	return u
}
