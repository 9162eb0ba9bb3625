package repository

import (
	"context"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/person/model"
)

// RepositoryInterface defines person data access.
type RepositoryInterface interface {
	// Create inserts a new person. Returns model.ErrDuplicateSlug when the
	// slug is taken.
	Create(ctx context.Context, person *model.Person) (*model.Person, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Person, error)
	GetBySlug(ctx context.Context, slug string) (*model.Person, error)
	List(ctx context.Context, filter model.PersonFilter) ([]model.Person, int, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePersonRequest) (*model.Person, error)

	// Delete removes the person, cascade-deleting their citations and
	// decrementing the affected books' citation counts transactionally.
	Delete(ctx context.Context, id uuid.UUID) error

	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// ExistsByID is used by the citation domain to validate references.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
