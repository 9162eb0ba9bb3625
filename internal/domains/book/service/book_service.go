package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"melivro-backend/internal/domains/book/model"
	"melivro-backend/internal/domains/book/repository"
	"melivro-backend/internal/infrastructure/queue"
	"melivro-backend/internal/shared/utils"
)

// Enqueuer is the slice of *asynq.Client used to hand work to the worker.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type bookService struct {
	repo     repository.RepositoryInterface
	fetcher  DetailsFetcher
	enqueuer Enqueuer // nil disables background cover mirroring
}

func NewBookService(repo repository.RepositoryInterface, fetcher DetailsFetcher, enqueuer Enqueuer) ServiceInterface {
	return &bookService{
		repo:     repo,
		fetcher:  fetcher,
		enqueuer: enqueuer,
	}
}

func (s *bookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrInvalidTitle
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(title)
	}
	if slug == "" {
		return nil, model.ErrInvalidTitle
	}

	exists, err := s.repo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if exists {
		return nil, model.ErrDuplicateSlug
	}

	language := req.Language
	if language == "" {
		language = "pt"
	}

	newBook := &model.Book{
		ID:              uuid.New(),
		Title:           title,
		Slug:            slug,
		Authors:         strings.TrimSpace(req.Authors),
		ISBN13:          optionalString(utils.NormalizeISBN(req.ISBN13)),
		CoverURL:        optionalString(req.CoverURL),
		Synopsis:        optionalString(req.Synopsis),
		Language:        language,
		Categories:      req.Categories,
		Pages:           optionalInt(req.Pages),
		PublicationDate: optionalString(req.PublicationDate),
	}

	created, err := s.repo.Create(ctx, newBook)
	if err != nil {
		return nil, err
	}

	if created.CoverURL != nil {
		s.enqueueMirrorCover(created.ID, *created.CoverURL)
	}

	return created, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) GetBySlug(ctx context.Context, slug string) (*model.Book, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, model.ErrBookNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *bookService) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
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

func (s *bookService) MostCited(ctx context.Context, limit int) ([]model.Book, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return s.repo.MostCited(ctx, limit)
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error) {
	if id == uuid.Nil {
		return nil, model.ErrBookNotFound
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return model.ErrBookNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *bookService) RefreshDetails(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details, err := s.fetcher.FetchBookDetails(ctx, book.Title, book.Authors)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch book details: %w", err)
	}

	update := &model.UpdateBookRequest{}
	if details.Synopsis != "" {
		update.Synopsis = &details.Synopsis
	}
	if details.CoverURL != "" {
		update.CoverURL = &details.CoverURL
	}
	if isbn := utils.NormalizeISBN(details.ISBN13); isbn != "" {
		update.ISBN13 = &isbn
	}
	if details.Rating > 0 {
		rating := decimal.NewFromFloat(details.Rating)
		update.Rating = &rating
	}
	if details.ReviewCount > 0 {
		update.ReviewCount = &details.ReviewCount
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if update.CoverURL != nil {
		s.enqueueMirrorCover(id, *update.CoverURL)
	}

	return updated, nil
}

func (s *bookService) enqueueMirrorCover(bookID uuid.UUID, coverURL string) {
	if s.enqueuer == nil {
		return
	}

	payload, err := json.Marshal(model.MirrorCoverPayload{BookID: bookID, CoverURL: coverURL})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal mirror cover payload")
		return
	}

	if _, err := s.enqueuer.Enqueue(asynq.NewTask(model.TypeMirrorCover, payload), queue.MirrorCoverOptions()...); err != nil {
		// Mirroring is best-effort; the external URL keeps serving the cover.
		log.Warn().Err(err).Str("book_id", bookID.String()).Msg("failed to enqueue cover mirror task")
	}
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(i int) *int {
	if i <= 0 {
		return nil
	}
	return &i
}
