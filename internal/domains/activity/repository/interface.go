package repository

import (
	"context"

	"melivro-backend/internal/domains/activity/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, activity *model.Activity) (*model.Activity, error)

	// List returns feed entries newest first.
	List(ctx context.Context, limit, offset int) ([]model.Activity, int, error)
}
