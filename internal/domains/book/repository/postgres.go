package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"melivro-backend/internal/domains/book/model"
	"melivro-backend/pkg/cache"
	"melivro-backend/pkg/database"
	"melivro-backend/pkg/logger"
)

const (
	mostCitedCacheKey = "books:most_cited:%d"
	mostCitedCacheTTL = 5 * time.Minute

	uniqueViolationCode = "23505"
)

const bookColumns = `id, title, slug, authors, isbn13, cover_url, synopsis,
	language, categories, rating, review_count, pages, publication_date,
	citation_count, created_at, updated_at`

// postgresRepository - raw SQL with pgxpool.
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) RepositoryInterface {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	query := fmt.Sprintf(`
		INSERT INTO books (id, title, slug, authors, isbn13, cover_url, synopsis,
			language, categories, pages, publication_date, citation_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, NOW(), NOW())
		RETURNING %s`, bookColumns)

	row := r.pool.QueryRow(ctx, query,
		book.ID, book.Title, book.Slug, book.Authors, book.ISBN13, book.CoverURL,
		book.Synopsis, book.Language, book.Categories, book.Pages, book.PublicationDate,
	)

	created, err := scanBook(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, model.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}

	r.invalidateListCache(ctx)
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE slug = $1`, bookColumns)

	book, err := scanBook(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by slug: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	whereClause, args := buildWhereClause(filter)

	countQuery := "SELECT COUNT(*) FROM books" + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM books%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		bookColumns, whereClause, sortColumn(filter.SortBy), sortOrder(filter.Order),
		len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *postgresRepository) MostCited(ctx context.Context, limit int) ([]model.Book, error) {
	cacheKey := fmt.Sprintf(mostCitedCacheKey, limit)
	if cached, err := r.cache.Get(ctx, cacheKey); err == nil {
		var books []model.Book
		if err := json.Unmarshal([]byte(cached), &books); err == nil {
			return books, nil
		}
	}

	query := fmt.Sprintf(`SELECT %s FROM books WHERE citation_count > 0
		ORDER BY citation_count DESC, title ASC LIMIT $1`, bookColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list most cited books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(books); err == nil {
		if err := r.cache.Set(ctx, cacheKey, string(data), mostCitedCacheTTL); err != nil {
			logger.Warn("failed to cache most cited books", err)
		}
	}

	return books, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	idx := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if req.Title != nil {
		addSet("title", *req.Title)
	}
	if req.Authors != nil {
		addSet("authors", *req.Authors)
	}
	if req.ISBN13 != nil {
		addSet("isbn13", *req.ISBN13)
	}
	if req.CoverURL != nil {
		addSet("cover_url", *req.CoverURL)
	}
	if req.Synopsis != nil {
		addSet("synopsis", *req.Synopsis)
	}
	if req.Language != nil {
		addSet("language", *req.Language)
	}
	if req.Categories != nil {
		addSet("categories", req.Categories)
	}
	if req.Rating != nil {
		addSet("rating", *req.Rating)
	}
	if req.ReviewCount != nil {
		addSet("review_count", *req.ReviewCount)
	}
	if req.Pages != nil {
		addSet("pages", *req.Pages)
	}
	if req.PublicationDate != nil {
		addSet("publication_date", *req.PublicationDate)
	}

	query := fmt.Sprintf(`UPDATE books SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), idx, bookColumns)
	args = append(args, id)

	book, err := scanBook(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, model.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	r.invalidateListCache(ctx)
	return book, nil
}

func (r *postgresRepository) UpdateCoverURL(ctx context.Context, id uuid.UUID, coverURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET cover_url = $1, updated_at = NOW() WHERE id = $2`, coverURL, id)
	if err != nil {
		return fmt.Errorf("failed to update cover url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	r.invalidateListCache(ctx)
	return nil
}

// Delete cascade-deletes the book's citations in the same transaction so a
// reader can never observe a citation pointing at a missing book.
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM citations WHERE book_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete citations: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete book: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateListCache(ctx)
	return nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check book: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) invalidateListCache(ctx context.Context) {
	if err := r.cache.DeletePattern(ctx, "books:*"); err != nil {
		logger.Warn("failed to invalidate book list cache", err)
	}
}

// buildWhereClause builds the WHERE part for list queries.
func buildWhereClause(filter model.BookFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	idx := 1

	if filter.Search != "" {
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR authors ILIKE $%d)", idx, idx))
		args = append(args, "%"+filter.Search+"%")
		idx++
	}
	if filter.Language != "" {
		conditions = append(conditions, fmt.Sprintf("language = $%d", idx))
		args = append(args, filter.Language)
		idx++
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(categories)", idx))
		args = append(args, filter.Category)
		idx++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "title":
		return "title"
	case "citation_count":
		return "citation_count"
	default:
		return "created_at"
	}
}

func sortOrder(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Authors, &b.ISBN13, &b.CoverURL, &b.Synopsis,
		&b.Language, &b.Categories, &b.Rating, &b.ReviewCount, &b.Pages,
		&b.PublicationDate, &b.CitationCount, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBooks(rows pgx.Rows) ([]model.Book, error) {
	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return books, nil
}
