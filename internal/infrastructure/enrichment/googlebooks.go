package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"melivro-backend/internal/config"
)

// GoogleBooksClient queries the Google Books volumes endpoint. This is
// source A: its textual fields win over Open Library's when both respond.
type GoogleBooksClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewGoogleBooksClient(cfg config.GoogleBooksConfig) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// volumesResponse matches the /volumes search JSON shape.
type volumesResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title               string   `json:"title"`
			Authors             []string `json:"authors"`
			Description         string   `json:"description"`
			PageCount           int      `json:"pageCount"`
			PublishedDate       string   `json:"publishedDate"`
			Categories          []string `json:"categories"`
			IndustryIdentifiers []struct {
				Type       string `json:"type"`
				Identifier string `json:"identifier"`
			} `json:"industryIdentifiers"`
			ImageLinks struct {
				ExtraLarge string `json:"extraLarge"`
				Large      string `json:"large"`
				Medium     string `json:"medium"`
				Thumbnail  string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search queries by free text and returns the first (most relevant) result
// as ranked by the source. Returns nil when nothing was found.
func (c *GoogleBooksClient) Search(ctx context.Context, query string) (*BookMetadata, error) {
	endpoint := fmt.Sprintf("%s/volumes?q=%s&maxResults=1", c.baseURL, url.QueryEscape(query))
	if c.apiKey != "" {
		endpoint += "&key=" + url.QueryEscape(c.apiKey)
	}
	return c.fetch(ctx, endpoint)
}

// SearchISBN queries by ISBN using the isbn: qualifier.
func (c *GoogleBooksClient) SearchISBN(ctx context.Context, isbn string) (*BookMetadata, error) {
	return c.Search(ctx, "isbn:"+isbn)
}

func (c *GoogleBooksClient) fetch(ctx context.Context, endpoint string) (*BookMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google books request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books: unexpected status code %d", resp.StatusCode)
	}

	var data volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("google books: decode failed: %w", err)
	}

	if len(data.Items) == 0 {
		return nil, nil
	}

	info := data.Items[0].VolumeInfo

	var isbn13, isbn10 string
	for _, id := range info.IndustryIdentifiers {
		switch id.Type {
		case "ISBN_13":
			isbn13 = id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	if isbn13 == "" {
		isbn13 = isbn10
	}

	cover := info.ImageLinks.ExtraLarge
	if cover == "" {
		cover = info.ImageLinks.Large
	}
	if cover == "" {
		cover = info.ImageLinks.Medium
	}
	if cover == "" {
		cover = info.ImageLinks.Thumbnail
	}

	return &BookMetadata{
		Title:           info.Title,
		Authors:         strings.Join(info.Authors, ", "),
		Synopsis:        info.Description,
		CoverURL:        normalizeGoogleCoverURL(cover),
		ISBN13:          isbn13,
		Pages:           info.PageCount,
		PublicationDate: info.PublishedDate,
		Categories:      info.Categories,
	}, nil
}

// normalizeGoogleCoverURL upgrades the image link to HTTPS and asks for a
// higher-quality render without the page-curl effect.
func normalizeGoogleCoverURL(cover string) string {
	if cover == "" {
		return ""
	}
	cover = strings.Replace(cover, "http://", "https://", 1)
	cover = strings.ReplaceAll(cover, "&edge=curl", "")
	cover = strings.ReplaceAll(cover, "zoom=1", "zoom=2")
	return cover
}
