package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	domain "github.com/mrb1sh0p/email-mass-api/internal/orgs/domain"
	udomain "github.com/mrb1sh0p/email-mass-api/internal/users/domain"
)

// RoleSetter is the slice of the users repository this service needs to
// promote a member to org-admin.
type RoleSetter interface {
	SetRole(ctx context.Context, uid, role, orgID string) error
}

// Service encapsulates organization management rules.
type Service struct {
	repo  domain.Repository
	roles RoleSetter
	log   zerolog.Logger
}

func New(repo domain.Repository, roles RoleSetter, log zerolog.Logger) *Service {
	return &Service{repo: repo, roles: roles, log: log}
}

// Create stores a new organization. Caller must be super-admin (enforced at
// the route level); the creator is recorded.
func (s *Service) Create(ctx context.Context, actor udomain.Actor, name, description string) (domain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Organization{}, domain.ErrNameMissing
	}
	id, err := s.repo.Create(ctx, domain.Organization{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   actor.UID,
	})
	if err != nil {
		return domain.Organization{}, err
	}
	s.log.Info().Str("org_id", id).Str("created_by", actor.UID).Msg("organization created")
	return domain.Organization{ID: id, Name: name, Description: description}, nil
}

// List returns organizations visible to the actor: super-admins browse all
// with search and pagination, org-admins see only their own organization.
func (s *Service) List(ctx context.Context, actor udomain.Actor, opts domain.ListOptions) (domain.ListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 10
	}
	if opts.Page <= 0 {
		opts.Page = 1
	}

	var orgs []domain.Organization
	var total int64
	switch actor.Role {
	case udomain.RoleSuperAdmin:
		found, err := s.repo.Find(ctx, opts.Search, opts.Limit)
		if err != nil {
			return domain.ListResult{}, err
		}
		orgs = found
		if opts.Search == "" {
			n, err := s.repo.Count(ctx)
			if err != nil {
				return domain.ListResult{}, err
			}
			total = n
		}
	case udomain.RoleOrgAdmin:
		if actor.OrganizationID == "" {
			return domain.ListResult{}, domain.ErrNoOrg
		}
		org, found, err := s.repo.Get(ctx, actor.OrganizationID)
		if err != nil {
			return domain.ListResult{}, err
		}
		if found {
			orgs = []domain.Organization{org}
			total = 1
		}
	default:
		return domain.ListResult{}, domain.ErrForbidden
	}

	items := make([]domain.ListItem, 0, len(orgs))
	for _, o := range orgs {
		items = append(items, domain.ListItem{
			ID:          o.ID,
			Name:        o.Name,
			Description: o.Description,
			CreatedAt:   o.CreatedAt,
			MemberCount: len(o.OrgMembers),
			IsAdmin:     contains(o.OrgAdmins, actor.UID),
		})
	}
	totalPages := 0
	if total > 0 {
		totalPages = int(total) / opts.Limit
		if int(total)%opts.Limit != 0 {
			totalPages++
		}
	}
	return domain.ListResult{Items: items, Page: opts.Page, Limit: opts.Limit, Total: total, TotalPages: totalPages}, nil
}

// AssignAdmin promotes a user to org-admin of the given organization:
// the org gains the admin, the user document gains the role and binding.
func (s *Service) AssignAdmin(ctx context.Context, actor udomain.Actor, orgID, userID string) error {
	if actor.Role != udomain.RoleSuperAdmin {
		return domain.ErrForbidden
	}
	if err := s.repo.AddAdmin(ctx, orgID, userID); err != nil {
		return err
	}
	if err := s.roles.SetRole(ctx, userID, udomain.RoleOrgAdmin, orgID); err != nil {
		return err
	}
	s.log.Info().Str("org_id", orgID).Str("user_id", userID).Msg("org-admin assigned")
	return nil
}

func contains(s []string, v string) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
