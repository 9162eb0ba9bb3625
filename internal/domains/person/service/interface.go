package service

import (
	"context"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/person/model"
)

type ServiceInterface interface {
	Create(ctx context.Context, req *model.CreatePersonRequest) (*model.Person, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Person, error)
	GetBySlug(ctx context.Context, slug string) (*model.Person, error)
	List(ctx context.Context, filter model.PersonFilter) ([]model.Person, int, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePersonRequest) (*model.Person, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
