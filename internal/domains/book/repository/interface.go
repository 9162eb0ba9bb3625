package repository

import (
	"context"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/book/model"
)

// RepositoryInterface defines book data access.
type RepositoryInterface interface {
	// Create inserts a new book. Returns model.ErrDuplicateSlug when the
	// slug is taken.
	Create(ctx context.Context, book *model.Book) (*model.Book, error)

	// GetByID returns model.ErrBookNotFound when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)

	// GetBySlug returns model.ErrBookNotFound when missing.
	GetBySlug(ctx context.Context, slug string) (*model.Book, error)

	// List returns a filtered page of books plus the total match count.
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)

	// MostCited returns books ordered by citation count descending.
	MostCited(ctx context.Context, limit int) ([]model.Book, error)

	// Update persists a partial update. Nil request fields are unchanged.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error)

	// UpdateCoverURL points the book at a (mirrored) cover image.
	UpdateCoverURL(ctx context.Context, id uuid.UUID, coverURL string) error

	// Delete removes the book and cascade-deletes its citations in one
	// transaction, so the count invariant cannot be observed broken.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsBySlug checks slug uniqueness before insert.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// ExistsByID is used by the citation domain to validate references.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
