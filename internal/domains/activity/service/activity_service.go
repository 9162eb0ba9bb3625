package service

import (
	"context"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/activity/model"
	"melivro-backend/internal/domains/activity/repository"
	"melivro-backend/pkg/logger"
)

type activityService struct {
	repo repository.RepositoryInterface
}

func NewActivityService(repo repository.RepositoryInterface) ServiceInterface {
	return &activityService{repo: repo}
}

func (s *activityService) Append(ctx context.Context, userName string, payload model.Payload) (*model.Activity, error) {
	if payload == nil || !payload.Kind().IsValid() {
		return nil, model.ErrUnknownKind
	}

	activity := &model.Activity{
		ID:       uuid.New(),
		UserName: userName,
		Kind:     payload.Kind(),
		Payload:  payload,
	}

	created, err := s.repo.Create(ctx, activity)
	if err != nil {
		return nil, err
	}

	logger.Debug("activity appended", map[string]interface{}{
		"activity_id": created.ID.String(),
		"kind":        string(created.Kind),
	})
	return created, nil
}

func (s *activityService) Feed(ctx context.Context, limit, offset int) ([]model.Activity, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
