package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melivro-backend/internal/config"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.ExtractionConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
}

func TestExtractFromTextParsesFencedArray(t *testing.T) {
	srv := completionServer(t, "Aqui está a lista:\n```json\n"+
		`[{"title":"Sapiens","author":"Yuval Noah Harari","relevance":"recomendado como leitura essencial"}]`+
		"\n```")
	defer srv.Close()

	client := newTestClient(srv.URL)
	candidates, err := client.ExtractFromText(context.Background(), "algum texto")

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Sapiens", candidates[0].Title)
	assert.Equal(t, "Yuval Noah Harari", candidates[0].Author)
	assert.Equal(t, "recomendado como leitura essencial", candidates[0].Relevance)
}

func TestExtractEmptyArrayIsValid(t *testing.T) {
	srv := completionServer(t, "[]")
	defer srv.Close()

	client := newTestClient(srv.URL)
	candidates, err := client.ExtractFromText(context.Background(), "texto sem livros")

	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestExtractMalformedResponse(t *testing.T) {
	srv := completionServer(t, "Desculpe, não consegui analisar o conteúdo.")
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.ExtractFromText(context.Background(), "texto")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestExtractNotConfigured(t *testing.T) {
	client := NewClient(config.ExtractionConfig{
		BaseURL: "http://localhost:0",
		APIKey:  "",
		Timeout: time.Second,
	})

	_, err := client.ExtractFromURL(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetchPageDetails(t *testing.T) {
	srv := completionServer(t, `{"synopsis":"Uma sinopse rica.","rating":4.8,"reviewCount":1234}`)
	defer srv.Close()

	client := newTestClient(srv.URL)
	details, err := client.FetchPageDetails(context.Background(), "https://example.com/book")

	require.NoError(t, err)
	assert.Equal(t, "Uma sinopse rica.", details.Synopsis)
	assert.Equal(t, 4.8, details.Rating)
	assert.Equal(t, 1234, details.ReviewCount)
}

func TestServiceErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.ExtractFromText(context.Background(), "texto")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream unavailable")
}
