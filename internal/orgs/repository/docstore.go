package repository

import (
	"context"
	"strings"
	"time"

	domain "github.com/mrb1sh0p/email-mass-api/internal/orgs/domain"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
)

const orgsCollection = "organizations"

type Repository struct {
	store docstore.Store
}

var _ domain.Repository = (*Repository)(nil)

func New(store docstore.Store) *Repository { return &Repository{store: store} }

func (r *Repository) Create(ctx context.Context, o domain.Organization) (string, error) {
	return r.store.Create(ctx, orgsCollection, map[string]any{
		"name":        o.Name,
		"name_lower":  strings.ToLower(o.Name),
		"description": o.Description,
		"createdBy":   o.CreatedBy,
		"orgAdmins":   []any{},
		"orgMembers":  []any{},
		"createdAt":   docstore.ServerTimestamp,
		"updatedAt":   docstore.ServerTimestamp,
	})
}

func (r *Repository) Get(ctx context.Context, id string) (domain.Organization, bool, error) {
	doc, found, err := r.store.Get(ctx, docstore.Join(orgsCollection, id))
	if err != nil || !found {
		return domain.Organization{}, false, err
	}
	return fromDoc(doc), true, nil
}

func (r *Repository) Find(ctx context.Context, search string, limit int) ([]domain.Organization, error) {
	q := docstore.Query{Limit: limit}
	if search != "" {
		s := strings.ToLower(search)
		q.Filters = []docstore.Filter{
			{Field: "name_lower", Op: ">=", Value: s},
			{Field: "name_lower", Op: "<=", Value: s + "\uf8ff"},
		}
		q.OrderBy = "name_lower"
	} else {
		q.OrderBy = "createdAt"
		q.Desc = true
	}
	docs, err := r.store.Find(ctx, orgsCollection, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Organization, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDoc(d))
	}
	return out, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx, orgsCollection)
}

func (r *Repository) AddAdmin(ctx context.Context, orgID, uid string) error {
	return r.store.Update(ctx, docstore.Join(orgsCollection, orgID), map[string]any{
		"orgAdmins": docstore.ArrayUnion(uid),
		"updatedAt": docstore.ServerTimestamp,
	})
}

func (r *Repository) AddMember(ctx context.Context, orgID, uid string) error {
	return r.store.Update(ctx, docstore.Join(orgsCollection, orgID), map[string]any{
		"orgMembers": docstore.ArrayUnion(uid),
		"updatedAt":  docstore.ServerTimestamp,
	})
}

func (r *Repository) RemoveMember(ctx context.Context, orgID, uid string) error {
	return r.store.Update(ctx, docstore.Join(orgsCollection, orgID), map[string]any{
		"orgMembers": docstore.ArrayRemove(uid),
		"updatedAt":  docstore.ServerTimestamp,
	})
}

func fromDoc(doc docstore.Document) domain.Organization {
	o := domain.Organization{ID: doc.ID}
	o.Name, _ = doc.Data["name"].(string)
	o.Description, _ = doc.Data["description"].(string)
	o.CreatedBy, _ = doc.Data["createdBy"].(string)
	o.OrgAdmins = toStrings(doc.Data["orgAdmins"])
	o.OrgMembers = toStrings(doc.Data["orgMembers"])
	o.CreatedAt, _ = doc.Data["createdAt"].(time.Time)
	o.UpdatedAt, _ = doc.Data["updatedAt"].(time.Time)
	return o
}

func toStrings(v any) []string {
	raw, _ := v.([]any)
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
