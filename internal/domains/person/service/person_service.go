package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/person/model"
	"melivro-backend/internal/domains/person/repository"
	"melivro-backend/internal/shared/utils"
	"melivro-backend/pkg/cache"
	"melivro-backend/pkg/logger"
)

type personService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

func NewPersonService(repo repository.RepositoryInterface, cacheClient cache.Cache) ServiceInterface {
	return &personService{repo: repo, cache: cacheClient}
}

func (s *personService) Create(ctx context.Context, req *model.CreatePersonRequest) (*model.Person, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
	}
	if slug == "" {
		return nil, model.ErrInvalidName
	}

	exists, err := s.repo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateSlug
	}

	person := &model.Person{
		ID:   uuid.New(),
		Name: strings.TrimSpace(req.Name),
		Slug: slug,
		Tags: req.Tags,
	}
	if req.Bio != "" {
		person.Bio = &req.Bio
	}
	if req.ImageURL != "" {
		person.ImageURL = &req.ImageURL
	}
	if req.Country != "" {
		person.Country = &req.Country
	}

	created, err := s.repo.Create(ctx, person)
	if err != nil {
		return nil, err
	}

	logger.Info("person created", map[string]interface{}{
		"person_id": created.ID.String(),
		"slug":      created.Slug,
	})
	return created, nil
}

func (s *personService) GetByID(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *personService) GetBySlug(ctx context.Context, slug string) (*model.Person, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *personService) List(ctx context.Context, filter model.PersonFilter) ([]model.Person, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *personService) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePersonRequest) (*model.Person, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

func (s *personService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// The cascade decremented citation counts, so cached rankings are stale.
	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, "books:*"); err != nil {
			logger.Warn("failed to invalidate book cache", err)
		}
	}

	logger.Info("person deleted", map[string]interface{}{"person_id": id.String()})
	return nil
}
