package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"melivro-backend/internal/config"
	"melivro-backend/internal/shared/utils"
)

// OpenLibraryClient queries the Open Library search endpoint. This is
// source B: consulted when Google Books has no usable cover. Open Library
// asks clients to identify themselves and stay under a request budget, so
// the client carries a user agent and a rate limiter.
type OpenLibraryClient struct {
	httpClient *http.Client
	baseURL    string
	coversURL  string
	userAgent  string
	limiter    *rate.Limiter
	maxRetries int
}

func NewOpenLibraryClient(cfg config.OpenLibraryConfig) *OpenLibraryClient {
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 1
	}
	return &OpenLibraryClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		coversURL:  cfg.CoversURL,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: cfg.MaxRetries,
	}
}

// searchResponse matches search.json.
type searchResponse struct {
	NumFound int `json:"numFound"`
	Docs     []struct {
		Title            string   `json:"title"`
		AuthorNames      []string `json:"author_name"`
		CoverID          int      `json:"cover_i"`
		ISBN             []string `json:"isbn"`
		FirstSentence    []string `json:"first_sentence"`
		PagesMedian      int      `json:"number_of_pages_median"`
		FirstPublishYear int      `json:"first_publish_year"`
		Subjects         []string `json:"subject"`
	} `json:"docs"`
}

// Search queries by free text and returns the first result. Returns nil
// when nothing was found.
func (c *OpenLibraryClient) Search(ctx context.Context, query string) (*BookMetadata, error) {
	endpoint := fmt.Sprintf(
		"%s/search.json?q=%s&fields=title,author_name,cover_i,isbn,first_sentence,number_of_pages_median,first_publish_year,subject&limit=1",
		c.baseURL, url.QueryEscape(query))

	var data searchResponse
	if err := c.get(ctx, endpoint, &data); err != nil {
		return nil, err
	}

	if len(data.Docs) == 0 {
		return nil, nil
	}

	doc := data.Docs[0]

	var cover string
	if doc.CoverID != 0 {
		cover = fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, doc.CoverID)
	}

	var isbn string
	if len(doc.ISBN) > 0 {
		isbn = doc.ISBN[0]
	}

	var publication string
	if doc.FirstPublishYear != 0 {
		publication = strconv.Itoa(doc.FirstPublishYear)
	}

	categories := doc.Subjects
	if len(categories) > 5 {
		categories = categories[:5]
	}

	return &BookMetadata{
		Title:           doc.Title,
		Authors:         strings.Join(doc.AuthorNames, ", "),
		Synopsis:        strings.Join(doc.FirstSentence, " "),
		CoverURL:        cover,
		ISBN13:          isbn,
		Pages:           doc.PagesMedian,
		PublicationDate: publication,
		Categories:      categories,
	}, nil
}

// CoverByISBN builds the direct Open Library cover URL for an ISBN.
// No network call: the covers host serves a placeholder for unknown ISBNs.
func (c *OpenLibraryClient) CoverByISBN(isbn string) string {
	sanitized := utils.NormalizeISBN(isbn)
	if sanitized == "" {
		return ""
	}
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg", c.coversURL, sanitized)
}

// get performs a rate-limited GET with backoff on 429/5xx.
func (c *OpenLibraryClient) get(ctx context.Context, endpoint string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("open library: unexpected status code %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("open library: unexpected status code %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("open library: decode failed: %w", err)
		}
		return nil
	}
	return fmt.Errorf("open library: after %d retries: %w", c.maxRetries, lastErr)
}
