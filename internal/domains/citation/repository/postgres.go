package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"melivro-backend/internal/domains/citation/model"
	"melivro-backend/pkg/database"
)

const citationColumns = `id, person_id, book_id, cited_year, cited_type,
	source_url, source_title, source_date, quote_excerpt, created_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) CreateWithCount(ctx context.Context, citation *model.Citation) (*model.Citation, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Citation, error) {
		query := fmt.Sprintf(`
			INSERT INTO citations (id, person_id, book_id, cited_year, cited_type,
				source_url, source_title, source_date, quote_excerpt, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
			RETURNING %s`, citationColumns)

		created, err := scanCitation(tx.QueryRow(ctx, query,
			citation.ID, citation.PersonID, citation.BookID, citation.CitedYear,
			citation.CitedType, citation.SourceURL, citation.SourceTitle,
			citation.SourceDate, citation.QuoteExcerpt,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to insert citation: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE books SET citation_count = citation_count + 1, updated_at = NOW() WHERE id = $1`,
			citation.BookID)
		if err != nil {
			return nil, fmt.Errorf("failed to increment citation count: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, model.ErrBookNotFound
		}
		return created, nil
	})
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Citation, error) {
	query := fmt.Sprintf(`SELECT %s FROM citations WHERE id = $1`, citationColumns)

	citation, err := scanCitation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCitationNotFound
		}
		return nil, fmt.Errorf("failed to get citation: %w", err)
	}
	return citation, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var bookID uuid.UUID
		err := tx.QueryRow(ctx,
			`DELETE FROM citations WHERE id = $1 RETURNING book_id`, id).Scan(&bookID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrCitationNotFound
			}
			return fmt.Errorf("failed to delete citation: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE books SET citation_count = GREATEST(citation_count - 1, 0), updated_at = NOW() WHERE id = $1`,
			bookID)
		if err != nil {
			return fmt.Errorf("failed to decrement citation count: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) ListByPerson(ctx context.Context, personID uuid.UUID) ([]model.Citation, error) {
	query := fmt.Sprintf(`SELECT %s FROM citations WHERE person_id = $1 ORDER BY created_at DESC`,
		citationColumns)

	rows, err := r.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list citations: %w", err)
	}
	defer rows.Close()

	citations := []model.Citation{}
	for rows.Next() {
		c, err := scanCitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan citation: %w", err)
		}
		citations = append(citations, *c)
	}
	return citations, rows.Err()
}

func (r *postgresRepository) ListByPersonWithBooks(ctx context.Context, personID uuid.UUID) ([]model.CitationWithBook, error) {
	query := `
		SELECT c.id, c.person_id, c.book_id, c.cited_year, c.cited_type,
			c.source_url, c.source_title, c.source_date, c.quote_excerpt, c.created_at,
			b.id, b.title, b.slug, b.authors, b.isbn13, b.cover_url, b.synopsis,
			b.language, b.categories, b.rating, b.review_count, b.pages,
			b.publication_date, b.citation_count, b.created_at, b.updated_at
		FROM citations c
		JOIN books b ON b.id = c.book_id
		WHERE c.person_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list citations with books: %w", err)
	}
	defer rows.Close()

	results := []model.CitationWithBook{}
	for rows.Next() {
		var cw model.CitationWithBook
		err := rows.Scan(
			&cw.ID, &cw.PersonID, &cw.BookID, &cw.CitedYear, &cw.CitedType,
			&cw.SourceURL, &cw.SourceTitle, &cw.SourceDate, &cw.QuoteExcerpt, &cw.CreatedAt,
			&cw.Book.ID, &cw.Book.Title, &cw.Book.Slug, &cw.Book.Authors,
			&cw.Book.ISBN13, &cw.Book.CoverURL, &cw.Book.Synopsis,
			&cw.Book.Language, &cw.Book.Categories, &cw.Book.Rating,
			&cw.Book.ReviewCount, &cw.Book.Pages, &cw.Book.PublicationDate,
			&cw.Book.CitationCount, &cw.Book.CreatedAt, &cw.Book.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan citation with book: %w", err)
		}
		results = append(results, cw)
	}
	return results, rows.Err()
}

func (r *postgresRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]model.CitationWithPerson, error) {
	query := `
		SELECT c.id, c.person_id, c.book_id, c.cited_year, c.cited_type,
			c.source_url, c.source_title, c.source_date, c.quote_excerpt, c.created_at,
			p.name, p.slug
		FROM citations c
		JOIN notable_people p ON p.id = c.person_id
		WHERE c.book_id = $1
		ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list citations by book: %w", err)
	}
	defer rows.Close()

	results := []model.CitationWithPerson{}
	for rows.Next() {
		var cp model.CitationWithPerson
		err := rows.Scan(
			&cp.ID, &cp.PersonID, &cp.BookID, &cp.CitedYear, &cp.CitedType,
			&cp.SourceURL, &cp.SourceTitle, &cp.SourceDate, &cp.QuoteExcerpt, &cp.CreatedAt,
			&cp.PersonName, &cp.PersonSlug,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan citation with person: %w", err)
		}
		results = append(results, cp)
	}
	return results, rows.Err()
}

// RecountAll repairs any drift between the materialized counts and the
// citations table.
func (r *postgresRepository) RecountAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE books b
		SET citation_count = sub.n, updated_at = NOW()
		FROM (
			SELECT b2.id, COALESCE(COUNT(c.id), 0) AS n
			FROM books b2
			LEFT JOIN citations c ON c.book_id = b2.id
			GROUP BY b2.id
		) sub
		WHERE b.id = sub.id AND b.citation_count <> sub.n`)
	if err != nil {
		return 0, fmt.Errorf("failed to recount citations: %w", err)
	}
	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCitation(row rowScanner) (*model.Citation, error) {
	var c model.Citation
	err := row.Scan(
		&c.ID, &c.PersonID, &c.BookID, &c.CitedYear, &c.CitedType,
		&c.SourceURL, &c.SourceTitle, &c.SourceDate, &c.QuoteExcerpt,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
