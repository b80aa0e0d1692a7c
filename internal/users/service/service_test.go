package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mrb1sh0p/email-mass-api/internal/platform/docstore"
	"github.com/mrb1sh0p/email-mass-api/internal/platform/identity"
	repo "github.com/mrb1sh0p/email-mass-api/internal/users/repository"

	domain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

type fakeMembers struct {
	added   []string
	removed []string
}

func (f *fakeMembers) AddMember(ctx context.Context, orgID, uid string) error {
	f.added = append(f.added, orgID+":"+uid)
	return nil
}

func (f *fakeMembers) RemoveMember(ctx context.Context, orgID, uid string) error {
	f.removed = append(f.removed, orgID+":"+uid)
	return nil
}

func newFixture() (domain.Service, *repo.Repository, identity.Provider, *fakeMembers) {
	r := repo.New(docstore.NewMemory())
	idp := identity.NewMemory()
	members := &fakeMembers{}
	return New(r, idp, members, zerolog.Nop()), r, idp, members
}

var (
	superAdmin = domain.Actor{UID: "sa", Role: domain.RoleSuperAdmin}
	orgAdmin   = domain.Actor{UID: "oa", Role: domain.RoleOrgAdmin, OrganizationID: "org1"}
	plainUser  = domain.Actor{UID: "u", Role: domain.RoleUser, OrganizationID: "org1"}
)

func input(org string) domain.RegisterInput {
	return domain.RegisterInput{Name: "Bob", Email: "bob@acme.com", Password: "s3cret123", OrganizationID: org}
}

func TestRegister_PlainUserForbidden(t *testing.T) {
	svc, _, _, _ := newFixture()
	if _, err := svc.Register(context.Background(), plainUser, input("org1")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v", err)
	}
}

func TestRegister_OrgAdminLimitedToOwnOrg(t *testing.T) {
	svc, _, _, _ := newFixture()
	if _, err := svc.Register(context.Background(), orgAdmin, input("org2")); !errors.Is(err, domain.ErrWrongOrg) {
		t.Fatalf("got %v", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _, _ := newFixture()
	in := input("org1")
	in.Email = "  "
	if _, err := svc.Register(context.Background(), superAdmin, in); !errors.Is(err, domain.ErrMissingField) {
		t.Fatalf("got %v", err)
	}
}

func TestRegister_CreatesProfileAndMembership(t *testing.T) {
	svc, r, idp, members := newFixture()
	ctx := context.Background()

	uid, err := svc.Register(ctx, orgAdmin, input("org1"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	u, found, err := r.Get(ctx, uid)
	if err != nil || !found {
		t.Fatalf("profile missing: %v", err)
	}
	if u.Role != domain.RoleUser || u.OrganizationID != "org1" {
		t.Errorf("user = %+v", u)
	}
	if len(members.added) != 1 || members.added[0] != "org1:"+uid {
		t.Errorf("memberships = %v", members.added)
	}

	// The account must be usable at the provider.
	if _, err := idp.SignIn(ctx, "bob@acme.com", "s3cret123"); err != nil {
		t.Errorf("sign in after register: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newFixture()
	ctx := context.Background()
	if _, err := svc.Register(ctx, superAdmin, input("org1")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, superAdmin, input("org1")); !errors.Is(err, identity.ErrEmailInUse) {
		t.Fatalf("got %v", err)
	}
}

func TestList_RoleScoping(t *testing.T) {
	svc, r, _, _ := newFixture()
	ctx := context.Background()
	seed := []domain.User{
		{UID: "u1", Name: "Ana", Role: domain.RoleUser, OrganizationID: "org1"},
		{UID: "u2", Name: "Breno", Role: domain.RoleUser, OrganizationID: "org2"},
	}
	for _, u := range seed {
		if err := r.Put(ctx, u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	all, err := svc.List(ctx, superAdmin, domain.ListOptions{})
	if err != nil || len(all) != 2 {
		t.Fatalf("super-admin list = %v (%v)", all, err)
	}

	own, err := svc.List(ctx, orgAdmin, domain.ListOptions{})
	if err != nil || len(own) != 1 || own[0].ID != "u1" {
		t.Fatalf("org-admin list = %v (%v)", own, err)
	}

	if _, err := svc.List(ctx, plainUser, domain.ListOptions{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v", err)
	}
}

func TestList_SearchByNamePrefix(t *testing.T) {
	svc, r, _, _ := newFixture()
	ctx := context.Background()
	for _, u := range []domain.User{
		{UID: "u1", Name: "Carla", Role: domain.RoleUser, OrganizationID: "org1"},
		{UID: "u2", Name: "Carlos", Role: domain.RoleUser, OrganizationID: "org1"},
		{UID: "u3", Name: "Diego", Role: domain.RoleUser, OrganizationID: "org1"},
	} {
		if err := r.Put(ctx, u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := svc.List(ctx, superAdmin, domain.ListOptions{Search: "carl"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("search matched %d users, want 2", len(got))
	}
}

func TestDelete_Gates(t *testing.T) {
	svc, r, _, _ := newFixture()
	ctx := context.Background()
	if err := r.Put(ctx, domain.User{UID: "victim", Name: "V", Role: domain.RoleUser, OrganizationID: "org2"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Delete(ctx, plainUser, "victim"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("got %v", err)
	}
	if err := svc.Delete(ctx, orgAdmin, "victim"); !errors.Is(err, domain.ErrWrongOrg) {
		t.Fatalf("got %v", err)
	}
}

func TestDelete_RemovesEverything(t *testing.T) {
	svc, r, _, members := newFixture()
	ctx := context.Background()

	uid, err := svc.Register(ctx, superAdmin, input("org1"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Delete(ctx, superAdmin, uid); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, found, _ := r.Get(ctx, uid); found {
		t.Fatal("profile still present")
	}
	if len(members.removed) != 1 {
		t.Fatalf("memberships removed = %v", members.removed)
	}
}
