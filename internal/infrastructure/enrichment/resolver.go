package enrichment

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"melivro-backend/internal/shared/utils"
)

// Resolver merges bibliographic metadata from Google Books (source A) and
// Open Library (source B).
//
// Merge policy: source A's textual fields win unless absent; a present
// cover URL always wins over an absent one, trying A's cover, then B's,
// then a direct ISBN-to-image construction. Results are taken as ranked
// by the external source, no local re-ranking.
type Resolver struct {
	google      *GoogleBooksClient
	openLibrary *OpenLibraryClient
}

func NewResolver(google *GoogleBooksClient, openLibrary *OpenLibraryClient) *Resolver {
	return &Resolver{google: google, openLibrary: openLibrary}
}

// Resolve looks up metadata for a (title, author) pair. The result may be
// partial or entirely empty; a failing source falls through to the next
// and never blocks the caller.
func (r *Resolver) Resolve(ctx context.Context, title, author string) BookMetadata {
	combined := strings.TrimSpace(title + " " + author)

	primary := r.searchGoogle(ctx, combined)
	if primary == nil && author != "" {
		// Looser retry: drop the author to increase recall.
		primary = r.searchGoogle(ctx, title)
	}

	if primary != nil && primary.CoverURL != "" {
		return *primary
	}

	secondary := r.searchOpenLibrary(ctx, combined)
	if secondary == nil && author != "" {
		secondary = r.searchOpenLibrary(ctx, title)
	}

	merged := mergeMetadata(primary, secondary)

	if merged.CoverURL == "" && merged.ISBN13 != "" {
		merged.CoverURL = r.openLibrary.CoverByISBN(merged.ISBN13)
	}

	return merged
}

// ResolveISBN looks up metadata by ISBN. The returned record always carries
// the normalized input ISBN, even when no source knew the book.
func (r *Resolver) ResolveISBN(ctx context.Context, isbn string) BookMetadata {
	normalized := utils.NormalizeISBN(isbn)
	if normalized == "" {
		return BookMetadata{}
	}

	result, err := r.google.SearchISBN(ctx, normalized)
	if err != nil {
		log.Warn().Err(err).Str("isbn", normalized).Msg("Google Books ISBN lookup failed")
	}

	merged := BookMetadata{}
	if result != nil {
		merged = *result
	}
	merged.ISBN13 = normalized

	if merged.CoverURL == "" {
		merged.CoverURL = r.openLibrary.CoverByISBN(normalized)
	}

	return merged
}

func (r *Resolver) searchGoogle(ctx context.Context, query string) *BookMetadata {
	if query == "" {
		return nil
	}
	result, err := r.google.Search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Google Books search failed")
		return nil
	}
	return result
}

func (r *Resolver) searchOpenLibrary(ctx context.Context, query string) *BookMetadata {
	if query == "" {
		return nil
	}
	result, err := r.openLibrary.Search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Open Library search failed")
		return nil
	}
	return result
}

// mergeMetadata combines a primary and a secondary record. Primary fields
// win when present; the secondary only fills gaps.
func mergeMetadata(primary, secondary *BookMetadata) BookMetadata {
	if primary == nil && secondary == nil {
		return BookMetadata{}
	}
	if primary == nil {
		return *secondary
	}
	if secondary == nil {
		return *primary
	}

	merged := *primary
	if merged.Title == "" {
		merged.Title = secondary.Title
	}
	if merged.Authors == "" {
		merged.Authors = secondary.Authors
	}
	if merged.Synopsis == "" {
		merged.Synopsis = secondary.Synopsis
	}
	if merged.CoverURL == "" {
		merged.CoverURL = secondary.CoverURL
	}
	if merged.ISBN13 == "" {
		merged.ISBN13 = secondary.ISBN13
	}
	if merged.Pages == 0 {
		merged.Pages = secondary.Pages
	}
	if merged.PublicationDate == "" {
		merged.PublicationDate = secondary.PublicationDate
	}
	if len(merged.Categories) == 0 {
		merged.Categories = secondary.Categories
	}
	return merged
}
