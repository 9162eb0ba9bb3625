package service

import (
	"context"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/book/model"
	"melivro-backend/internal/infrastructure/extraction"
)

// ServiceInterface defines book business logic.
type ServiceInterface interface {
	// Create creates a book, deriving the slug from the title when none is
	// supplied. Errors: model.ErrDuplicateSlug, validation errors.
	Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetBySlug(ctx context.Context, slug string) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
	MostCited(ctx context.Context, limit int) ([]model.Book, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error)

	// Delete removes the book and cascade-deletes its citations.
	Delete(ctx context.Context, id uuid.UUID) error

	// RefreshDetails re-queries the extraction collaborator for cover,
	// synopsis and ISBN of one book and persists what came back.
	RefreshDetails(ctx context.Context, id uuid.UUID) (*model.Book, error)
}

// DetailsFetcher is the slice of the extraction client the book domain
// needs for manual refresh.
type DetailsFetcher interface {
	FetchBookDetails(ctx context.Context, title, author string) (*extraction.BookDetails, error)
}
