package enrichment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"melivro-backend/internal/config"
)

func googleServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func openLibraryServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func newTestResolver(googleURL, openLibraryURL string) *Resolver {
	google := NewGoogleBooksClient(config.GoogleBooksConfig{
		BaseURL: googleURL,
		Timeout: 5 * time.Second,
	})
	openLibrary := NewOpenLibraryClient(config.OpenLibraryConfig{
		BaseURL:    openLibraryURL,
		CoversURL:  "https://covers.openlibrary.org",
		UserAgent:  "test",
		RatePerSec: 100,
		MaxRetries: 0,
		Timeout:    5 * time.Second,
	})
	return NewResolver(google, openLibrary)
}

const googleWithCover = `{
	"totalItems": 1,
	"items": [{"volumeInfo": {
		"title": "Sapiens",
		"authors": ["Yuval Noah Harari"],
		"description": "A brief history of humankind.",
		"pageCount": 464,
		"publishedDate": "2015",
		"categories": ["History"],
		"industryIdentifiers": [{"type": "ISBN_13", "identifier": "9780062316097"}],
		"imageLinks": {"thumbnail": "http://books.google.com/cover?zoom=1&edge=curl"}
	}}]
}`

const googleWithoutCover = `{
	"totalItems": 1,
	"items": [{"volumeInfo": {
		"title": "Sapiens",
		"authors": ["Yuval Noah Harari"],
		"description": "A brief history of humankind.",
		"industryIdentifiers": [{"type": "ISBN_13", "identifier": "9780062316097"}],
		"imageLinks": {}
	}}]
}`

const openLibraryWithCover = `{
	"numFound": 1,
	"docs": [{
		"title": "Sapiens",
		"author_name": ["Yuval Noah Harari"],
		"cover_i": 12345,
		"isbn": ["9780062316097"],
		"number_of_pages_median": 464,
		"first_publish_year": 2011,
		"subject": ["History", "Anthropology"]
	}]
}`

const emptyGoogle = `{"totalItems": 0}`
const emptyOpenLibrary = `{"numFound": 0, "docs": []}`

func TestResolvePrimaryCoverWins(t *testing.T) {
	google := googleServer(t, googleWithCover)
	defer google.Close()
	openLibrary := openLibraryServer(t, openLibraryWithCover)
	defer openLibrary.Close()

	r := newTestResolver(google.URL, openLibrary.URL)
	got := r.Resolve(context.Background(), "Sapiens", "Yuval Noah Harari")

	// Both sources have a cover; the primary's must win.
	assert.Equal(t, "https://books.google.com/cover?zoom=2", got.CoverURL)
	assert.Equal(t, "Sapiens", got.Title)
	assert.Equal(t, "9780062316097", got.ISBN13)
}

func TestResolveSecondaryCoverFillsGap(t *testing.T) {
	google := googleServer(t, googleWithoutCover)
	defer google.Close()
	openLibrary := openLibraryServer(t, openLibraryWithCover)
	defer openLibrary.Close()

	r := newTestResolver(google.URL, openLibrary.URL)
	got := r.Resolve(context.Background(), "Sapiens", "Yuval Noah Harari")

	// Primary has no cover, secondary does; merged cover is secondary's.
	assert.Equal(t, "https://covers.openlibrary.org/b/id/12345-L.jpg", got.CoverURL)
	// Primary textual fields still win.
	assert.Equal(t, "A brief history of humankind.", got.Synopsis)
}

func TestResolveISBNFallbackCover(t *testing.T) {
	google := googleServer(t, googleWithoutCover)
	defer google.Close()
	openLibrary := openLibraryServer(t, emptyOpenLibrary)
	defer openLibrary.Close()

	r := newTestResolver(google.URL, openLibrary.URL)
	got := r.Resolve(context.Background(), "Sapiens", "Yuval Noah Harari")

	// Neither source has a cover but the ISBN is known: the direct
	// ISBN-to-image URL is constructed.
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9780062316097-L.jpg", got.CoverURL)
}

func TestResolveBothSourcesFail(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer broken.Close()

	r := newTestResolver(broken.URL, broken.URL)
	got := r.Resolve(context.Background(), "Sapiens", "Yuval Noah Harari")

	assert.True(t, got.IsEmpty(), "failures must degrade to an empty result, got %+v", got)
}

func TestResolveISBNAlwaysCarriesNormalizedInput(t *testing.T) {
	google := googleServer(t, emptyGoogle)
	defer google.Close()
	openLibrary := openLibraryServer(t, emptyOpenLibrary)
	defer openLibrary.Close()

	r := newTestResolver(google.URL, openLibrary.URL)
	got := r.ResolveISBN(context.Background(), "978-85-359-2517-3")

	assert.Equal(t, "9788535925173", got.ISBN13)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9788535925173-L.jpg", got.CoverURL)
}

func TestMergeMetadata(t *testing.T) {
	primary := &BookMetadata{Title: "A", Synopsis: "primary synopsis"}
	secondary := &BookMetadata{Title: "B", Synopsis: "secondary", CoverURL: "cover-b", Pages: 300}

	merged := mergeMetadata(primary, secondary)

	assert.Equal(t, "A", merged.Title)
	assert.Equal(t, "primary synopsis", merged.Synopsis)
	assert.Equal(t, "cover-b", merged.CoverURL)
	assert.Equal(t, 300, merged.Pages)
}

func TestNormalizeGoogleCoverURL(t *testing.T) {
	assert.Equal(t,
		"https://books.google.com/img?zoom=2",
		normalizeGoogleCoverURL("http://books.google.com/img?zoom=1&edge=curl"))
	assert.Equal(t, "", normalizeGoogleCoverURL(""))
}
