package service

import (
	"context"
	"strings"

	domain "github.com/mrb1sh0p/email-mass-api/internal/models/domain"
)

type service struct {
	repo domain.Repository
}

func New(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, orgID, title, body string) (domain.Model, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(body) == "" {
		return domain.Model{}, domain.ErrTitleBodyRequired
	}
	return s.repo.Create(ctx, orgID, title, body)
}

func (s *service) Update(ctx context.Context, orgID string, in domain.UpdateInput) (domain.Model, error) {
	if in.ModelID == "" {
		return domain.Model{}, domain.ErrModelIDRequired
	}
	if in.Title == nil && in.Body == nil {
		return domain.Model{}, domain.ErrNothingToUpdate
	}
	if _, found, err := s.repo.Get(ctx, orgID, in.ModelID); err != nil {
		return domain.Model{}, err
	} else if !found {
		return domain.Model{}, domain.ErrNotFound
	}
	return s.repo.Update(ctx, orgID, in.ModelID, in.Title, in.Body)
}

func (s *service) Delete(ctx context.Context, orgID, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrModelIDRequired
	}
	if _, found, err := s.repo.Get(ctx, orgID, id); err != nil {
		return err
	} else if !found {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, orgID, id)
}

func (s *service) List(ctx context.Context, orgID string) ([]domain.Model, error) {
	return s.repo.List(ctx, orgID)
}
