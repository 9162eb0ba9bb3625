package service

import (
	"context"

	"melivro-backend/internal/domains/activity/model"
)

type ServiceInterface interface {
	// Append stores one feed entry for the given user.
	Append(ctx context.Context, userName string, payload model.Payload) (*model.Activity, error)

	// Feed returns activities newest first.
	Feed(ctx context.Context, limit, offset int) ([]model.Activity, int, error)
}
