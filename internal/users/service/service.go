package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrb1sh0p/email-mass-api/internal/platform/identity"
	domain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

// Memberships is the slice of the organizations repository this service
// needs to keep member lists in sync.
type Memberships interface {
	AddMember(ctx context.Context, orgID, uid string) error
	RemoveMember(ctx context.Context, orgID, uid string) error
}

type service struct {
	repo    domain.Repository
	idp     identity.Provider
	members Memberships
	log     zerolog.Logger
}

func New(repo domain.Repository, idp identity.Provider, members Memberships, log zerolog.Logger) domain.Service {
	return &service{repo: repo, idp: idp, members: members, log: log}
}

func (s *service) Register(ctx context.Context, actor domain.Actor, in domain.RegisterInput) (string, error) {
	if actor.Role == domain.RoleUser {
		return "", domain.ErrForbidden
	}
	// Org-admins can only create users inside their own organization.
	if actor.Role == domain.RoleOrgAdmin && actor.OrganizationID != in.OrganizationID {
		return "", domain.ErrWrongOrg
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" || in.OrganizationID == "" {
		return "", domain.ErrMissingField
	}

	uid, err := s.idp.CreateUser(ctx, in.Email, in.Password)
	if err != nil {
		return "", err
	}
	if err := s.repo.Put(ctx, domain.User{
		UID:            uid,
		Name:           in.Name,
		Email:          in.Email,
		Role:           domain.RoleUser,
		OrganizationID: in.OrganizationID,
	}); err != nil {
		return "", err
	}
	if err := s.members.AddMember(ctx, in.OrganizationID, uid); err != nil {
		return "", err
	}
	s.log.Info().Str("uid", uid).Str("org_id", in.OrganizationID).Msg("user registered")
	return uid, nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, opts domain.ListOptions) ([]domain.Summary, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 10
	}
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return s.repo.List(ctx, "", opts)
	case domain.RoleOrgAdmin:
		return s.repo.List(ctx, actor.OrganizationID, opts)
	default:
		return nil, domain.ErrForbidden
	}
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, uid string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	target, found, err := s.repo.Get(ctx, uid)
	if err != nil {
		return err
	}
	if found && actor.Role == domain.RoleOrgAdmin && target.OrganizationID != actor.OrganizationID {
		return domain.ErrWrongOrg
	}
	if err := s.idp.DeleteUser(ctx, uid); err != nil && err != identity.ErrUserNotFound {
		return err
	}
	if found && target.OrganizationID != "" {
		if err := s.members.RemoveMember(ctx, target.OrganizationID, uid); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, uid)
}
