package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	domain "github.com/mrb1sh0p/email-mass-api/internal/orgs/domain"
	repo "github.com/mrb1sh0p/email-mass-api/internal/orgs/repository"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
	udomain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
	urepo "github.com/mrb1sh0p/email-mass-api/internal/users/repository"
)

var (
	superAdmin = udomain.Actor{UID: "sa", Role: udomain.RoleSuperAdmin}
	plainUser  = udomain.Actor{UID: "u1", Role: udomain.RoleUser, OrganizationID: "org1"}
)

func newFixture() (*Service, *repo.Repository, *urepo.Repository) {
	store := docstore.NewMemory()
	orgsRepo := repo.New(store)
	usersRepo := urepo.New(store)
	return New(orgsRepo, usersRepo, zerolog.Nop()), orgsRepo, usersRepo
}

func TestCreate_RequiresName(t *testing.T) {
	svc, _, _ := newFixture()
	if _, err := svc.Create(context.Background(), superAdmin, "  ", ""); !errors.Is(err, domain.ErrNameMissing) {
		t.Fatalf("got %v", err)
	}
}

func TestCreate_RecordsCreator(t *testing.T) {
	svc, orgsRepo, _ := newFixture()
	ctx := context.Background()

	org, err := svc.Create(ctx, superAdmin, "Acme", "widgets")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, found, err := orgsRepo.Get(ctx, org.ID)
	if err != nil || !found {
		t.Fatalf("org missing: %v", err)
	}
	if stored.CreatedBy != "sa" {
		t.Errorf("createdBy = %q", stored.CreatedBy)
	}
	if len(stored.OrgMembers) != 0 || len(stored.OrgAdmins) != 0 {
		t.Errorf("new org should start empty: %+v", stored)
	}
}

func TestList_SuperAdminPagination(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()
	for _, name := range []string{"Acme", "Beta", "Gama"} {
		if _, err := svc.Create(ctx, superAdmin, name, ""); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	res, err := svc.List(ctx, superAdmin, domain.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("items = %d, want limit 2", len(res.Items))
	}
	if res.Total != 3 {
		t.Errorf("total = %d", res.Total)
	}
	if res.TotalPages != 2 {
		t.Errorf("totalPages = %d", res.TotalPages)
	}
}

func TestList_SuperAdminSearch(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()
	for _, name := range []string{"Acme", "Acorn", "Zebra"} {
		if _, err := svc.Create(ctx, superAdmin, name, ""); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	res, err := svc.List(ctx, superAdmin, domain.ListOptions{Search: "ac"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("search matched %d orgs, want 2", len(res.Items))
	}
}

func TestList_OrgAdminSeesOwnOrgOnly(t *testing.T) {
	svc, orgsRepo, _ := newFixture()
	ctx := context.Background()

	org, err := svc.Create(ctx, superAdmin, "Acme", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, superAdmin, "Other", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := orgsRepo.AddAdmin(ctx, org.ID, "oa"); err != nil {
		t.Fatalf("add admin: %v", err)
	}

	orgAdmin := udomain.Actor{UID: "oa", Role: udomain.RoleOrgAdmin, OrganizationID: org.ID}
	res, err := svc.List(ctx, orgAdmin, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != org.ID {
		t.Fatalf("items = %+v", res.Items)
	}
	if !res.Items[0].IsAdmin {
		t.Error("listing should mark the caller as admin")
	}
}

func TestList_PlainUserForbidden(t *testing.T) {
	svc, _, _ := newFixture()
	if _, err := svc.List(context.Background(), plainUser, domain.ListOptions{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v", err)
	}
}

func TestAssignAdmin(t *testing.T) {
	svc, orgsRepo, usersRepo := newFixture()
	ctx := context.Background()

	org, err := svc.Create(ctx, superAdmin, "Acme", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := usersRepo.Put(ctx, udomain.User{UID: "u9", Name: "Nina", Role: udomain.RoleUser, OrganizationID: org.ID}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	if err := svc.AssignAdmin(ctx, plainUser, org.ID, "u9"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v", err)
	}
	if err := svc.AssignAdmin(ctx, superAdmin, org.ID, "u9"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	stored, _, _ := orgsRepo.Get(ctx, org.ID)
	if len(stored.OrgAdmins) != 1 || stored.OrgAdmins[0] != "u9" {
		t.Errorf("orgAdmins = %v", stored.OrgAdmins)
	}
	u, _, _ := usersRepo.Get(ctx, "u9")
	if u.Role != udomain.RoleOrgAdmin || u.OrganizationID != org.ID {
		t.Errorf("user = %+v", u)
	}
}
