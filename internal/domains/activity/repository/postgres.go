package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"melivro-backend/internal/domains/activity/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, activity *model.Activity) (*model.Activity, error) {
	raw, err := json.Marshal(activity.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode activity payload: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO activities (id, user_name, kind, payload, likes, comments, created_at)
		VALUES ($1, $2, $3, $4, 0, 0, NOW())
		RETURNING created_at`,
		activity.ID, activity.UserName, activity.Kind, raw,
	).Scan(&activity.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert activity: %w", err)
	}
	return activity, nil
}

func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]model.Activity, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_name, kind, payload, likes, comments, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []model.Activity{}
	for rows.Next() {
		var a model.Activity
		var raw []byte
		err := rows.Scan(&a.ID, &a.UserName, &a.Kind, &raw, &a.Likes, &a.Comments, &a.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}

		a.Payload, err = model.UnmarshalPayload(a.Kind, raw)
		if err != nil {
			return nil, 0, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return activities, total, nil
}
