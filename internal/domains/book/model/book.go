package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Book represents a catalog item.
//
// CitationCount is a materialized aggregate: it must always equal the number
// of citation rows referencing this book. It is maintained transactionally
// on citation writes and recomputed periodically by the worker; the stored
// value is a cache, the citations table is the source of truth.
type Book struct {
	ID      uuid.UUID `json:"id" db:"id"`
	Title   string    `json:"title" db:"title"`
	Slug    string    `json:"slug" db:"slug"`
	Authors string    `json:"authors" db:"authors"`

	ISBN13   *string `json:"isbn13" db:"isbn13"`
	CoverURL *string `json:"cover_url" db:"cover_url"`
	Synopsis *string `json:"synopsis" db:"synopsis"`

	Language   string         `json:"language" db:"language"`
	Categories pq.StringArray `json:"categories" db:"categories"`

	// Externally sourced quality signals (sweep utility / manual refresh).
	Rating      *decimal.Decimal `json:"rating" db:"rating"`
	ReviewCount *int             `json:"review_count" db:"review_count"`

	Pages           *int    `json:"pages" db:"pages"`
	PublicationDate *string `json:"publication_date" db:"publication_date"`

	CitationCount int `json:"citation_count" db:"citation_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
