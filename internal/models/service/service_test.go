package service

import (
	"context"
	"errors"
	"testing"

	domain "github.com/mrb1sh0p/email-mass-api/internal/models/domain"
	repo "github.com/mrb1sh0p/email-mass-api/internal/models/repository"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
)

func newService() domain.Service {
	return New(repo.New(docstore.NewMemory()))
}

func strp(s string) *string { return &s }

func TestCreate_RequiresTitleAndBody(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "org1", " ", "<p>body</p>"); !errors.Is(err, domain.ErrTitleBodyRequired) {
		t.Fatalf("got %v", err)
	}
	if _, err := svc.Create(ctx, "org1", "Welcome", ""); !errors.Is(err, domain.ErrTitleBodyRequired) {
		t.Fatalf("got %v", err)
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	m, err := svc.Create(ctx, "org1", "Welcome", "<p>hi</p>")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID == "" || m.Title != "Welcome" || m.Body != "<p>hi</p>" {
		t.Fatalf("model = %+v", m)
	}

	ms, err := svc.List(ctx, "org1")
	if err != nil || len(ms) != 1 {
		t.Fatalf("list = %v (%v)", ms, err)
	}
}

func TestCreate_ScopedByOrganization(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "org1", "A", "b"); err != nil {
		t.Fatalf("create: %v", err)
	}
	ms, err := svc.List(ctx, "org2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ms) != 0 {
		t.Fatalf("org2 sees org1's models: %v", ms)
	}
}

func TestUpdate_Validation(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	if _, err := svc.Update(ctx, "org1", domain.UpdateInput{}); !errors.Is(err, domain.ErrModelIDRequired) {
		t.Fatalf("got %v", err)
	}
	if _, err := svc.Update(ctx, "org1", domain.UpdateInput{ModelID: "m1"}); !errors.Is(err, domain.ErrNothingToUpdate) {
		t.Fatalf("got %v", err)
	}
	if _, err := svc.Update(ctx, "org1", domain.UpdateInput{ModelID: "ghost", Title: strp("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestUpdate_Partial(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "org1", "Old title", "old body")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, "org1", domain.UpdateInput{ModelID: created.ID, Title: strp("New title")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "New title" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Body != "old body" {
		t.Errorf("body changed on a title-only update: %q", updated.Body)
	}
}

func TestDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "org1", "T", "b")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, "org1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "org1", created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
