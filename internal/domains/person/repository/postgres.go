package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"melivro-backend/internal/domains/person/model"
	"melivro-backend/pkg/database"
)

const uniqueViolationCode = "23505"

const personColumns = `id, name, slug, bio, image_url, country, tags, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, person *model.Person) (*model.Person, error) {
	query := fmt.Sprintf(`
		INSERT INTO notable_people (id, name, slug, bio, image_url, country, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s`, personColumns)

	created, err := scanPerson(r.pool.QueryRow(ctx, query,
		person.ID, person.Name, person.Slug, person.Bio, person.ImageURL,
		person.Country, person.Tags,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, model.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to insert person: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM notable_people WHERE id = $1`, personColumns)

	person, err := scanPerson(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM notable_people WHERE slug = $1`, personColumns)

	person, err := scanPerson(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to get person by slug: %w", err)
	}
	return person, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.PersonFilter) ([]model.Person, int, error) {
	conditions := []string{}
	args := []interface{}{}
	idx := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", idx))
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", idx))
		args = append(args, filter.Tag)
		idx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM notable_people"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count people: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM notable_people%s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		personColumns, whereClause, idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	people := []model.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	return people, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePersonRequest) (*model.Person, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	idx := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Bio != nil {
		addSet("bio", *req.Bio)
	}
	if req.ImageURL != nil {
		addSet("image_url", *req.ImageURL)
	}
	if req.Country != nil {
		addSet("country", *req.Country)
	}
	if req.Tags != nil {
		addSet("tags", req.Tags)
	}

	query := fmt.Sprintf(`UPDATE notable_people SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), idx, personColumns)
	args = append(args, id)

	person, err := scanPerson(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPersonNotFound
		}
		return nil, fmt.Errorf("failed to update person: %w", err)
	}
	return person, nil
}

// Delete cascade-deletes the person's citations and keeps the books'
// citation counts in step, all in one transaction.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE books SET citation_count = citation_count - sub.n
			FROM (SELECT book_id, COUNT(*) AS n FROM citations WHERE person_id = $1 GROUP BY book_id) sub
			WHERE books.id = sub.book_id`, id)
		if err != nil {
			return fmt.Errorf("failed to adjust citation counts: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM citations WHERE person_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete citations: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM notable_people WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete person: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrPersonNotFound
		}
		return nil
	})
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notable_people WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notable_people WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check person: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row rowScanner) (*model.Person, error) {
	var p model.Person
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Bio, &p.ImageURL, &p.Country, &p.Tags,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
