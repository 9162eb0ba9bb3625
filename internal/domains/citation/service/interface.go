package service

import (
	"context"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/citation/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreateCitationRequest) (*model.Citation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]model.Citation, error)
	ListByPersonWithBooks(ctx context.Context, personID uuid.UUID) ([]model.CitationWithBook, error)
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.CitationWithPerson, error)
	RecountAll(ctx context.Context) (int64, error)
}

// ExistenceChecker validates that a referenced row exists before a
// citation is written against it.
type ExistenceChecker interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}
