package repository

import (
	"context"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/citation/model"
)

// RepositoryInterface defines citation data access. Writes that touch a
// citation also maintain the owning book's citation_count in the same
// transaction.
type RepositoryInterface interface {
	// CreateWithCount inserts the citation and increments the book's
	// citation_count atomically.
	CreateWithCount(ctx context.Context, citation *model.Citation) (*model.Citation, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Citation, error)

	// Delete removes the citation and decrements the book's
	// citation_count atomically.
	Delete(ctx context.Context, id uuid.UUID) error

	ListByPerson(ctx context.Context, personID uuid.UUID) ([]model.Citation, error)
	ListByPersonWithBooks(ctx context.Context, personID uuid.UUID) ([]model.CitationWithBook, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.CitationWithPerson, error)

	// RecountAll recomputes citation_count for every book from the
	// citations table. Returns the number of books whose count changed.
	RecountAll(ctx context.Context) (int64, error)
}
