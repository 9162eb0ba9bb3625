package service

import (
	"context"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/citation/model"
	"melivro-backend/internal/domains/citation/repository"
	"melivro-backend/pkg/cache"
	"melivro-backend/pkg/logger"
)

type citationService struct {
	repo   repository.RepositoryInterface
	people ExistenceChecker
	books  ExistenceChecker
	cache  cache.Cache
}

func NewCitationService(
	repo repository.RepositoryInterface,
	people ExistenceChecker,
	books ExistenceChecker,
	cacheClient cache.Cache,
) ServiceInterface {
	return &citationService{
		repo:   repo,
		people: people,
		books:  books,
		cache:  cacheClient,
	}
}

func (s *citationService) Create(ctx context.Context, req *model.CreateCitationRequest) (*model.Citation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.people.ExistsByID(ctx, req.PersonID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrPersonNotFound
	}

	exists, err = s.books.ExistsByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.ErrBookNotFound
	}

	citation := &model.Citation{
		ID:        uuid.New(),
		PersonID:  req.PersonID,
		BookID:    req.BookID,
		CitedType: model.CitationType(req.CitedType),
	}
	if req.CitedYear > 0 {
		citation.CitedYear = &req.CitedYear
	}
	if req.SourceURL != "" {
		citation.SourceURL = &req.SourceURL
	}
	if req.SourceTitle != "" {
		citation.SourceTitle = &req.SourceTitle
	}
	if req.SourceDate != "" {
		citation.SourceDate = &req.SourceDate
	}
	if req.QuoteExcerpt != "" {
		citation.QuoteExcerpt = &req.QuoteExcerpt
	}

	created, err := s.repo.CreateWithCount(ctx, citation)
	if err != nil {
		return nil, err
	}

	// Citation counts feed the most-cited ranking, drop stale entries.
	s.invalidateBookCache(ctx)

	logger.Info("citation created", map[string]interface{}{
		"citation_id": created.ID.String(),
		"person_id":   created.PersonID.String(),
		"book_id":     created.BookID.String(),
	})
	return created, nil
}

func (s *citationService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateBookCache(ctx)
	return nil
}

func (s *citationService) ListByPerson(ctx context.Context, personID uuid.UUID) ([]model.Citation, error) {
	return s.repo.ListByPerson(ctx, personID)
}

func (s *citationService) ListByPersonWithBooks(ctx context.Context, personID uuid.UUID) ([]model.CitationWithBook, error) {
	return s.repo.ListByPersonWithBooks(ctx, personID)
}

func (s *citationService) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.CitationWithPerson, error) {
	return s.repo.ListByBook(ctx, bookID)
}

func (s *citationService) RecountAll(ctx context.Context) (int64, error) {
	changed, err := s.repo.RecountAll(ctx)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		s.invalidateBookCache(ctx)
		logger.Warn("citation counts drifted, repaired", nil)
	}
	return changed, nil
}

func (s *citationService) invalidateBookCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "books:*"); err != nil {
		logger.Warn("failed to invalidate book cache", err)
	}
}
