// Package extraction calls a prompt-driven text-understanding service to
// derive structured book mentions from unstructured input (a URL or a raw
// text blob). The service response is untrusted free text that is expected
// to contain JSON; parsing is defensive and failures surface as typed
// errors, never panics.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"melivro-backend/internal/config"
	"melivro-backend/internal/shared/utils"
)

var (
	// ErrNotConfigured is returned when no API key was supplied. Extraction
	// degrades to this error instead of failing application startup.
	ErrNotConfigured = errors.New("extraction: service not configured (missing API key)")

	// ErrMalformedResponse is returned when the service reply contained no
	// parseable JSON. Not retryable without changing the input.
	ErrMalformedResponse = errors.New("extraction: malformed response from service")
)

// Candidate is one extracted book mention.
type Candidate struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Relevance string `json:"relevance"`
}

// BookDetails is the per-book lookup result used by the manual refresh
// endpoint and the sweep utility.
type BookDetails struct {
	CoverURL    string  `json:"coverUrl"`
	Synopsis    string  `json:"synopsis"`
	ISBN13      string  `json:"isbn13"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
}

// Client talks to an OpenRouter-compatible chat completions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(cfg config.ExtractionConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}
}

const extractFromURLPrompt = `Você é um assistente de pesquisa para um site de curadoria de livros. ` +
	`Analise o conteúdo da URL fornecida e extraia uma lista de livros mencionados. ` +
	`Para cada livro, identifique o título exato, o(s) autor(es), e um breve contexto sobre como o livro foi mencionado. ` +
	`A URL é: %s. ` +
	`Retorne APENAS um array JSON com objetos contendo as chaves 'title', 'author' e 'relevance'. Sem explicações adicionais.`

const extractFromTextPrompt = `Você é um especialista em literatura e sua tarefa é analisar o texto a seguir para extrair todos os livros mencionados. ` +
	`Para cada livro, forneça o título completo, o nome do autor, e um breve contexto sobre como o livro foi mencionado ` +
	`(ex: 'recomendado como leitura essencial', 'citado como inspiração'). ` +
	`Retorne APENAS um array JSON onde cada objeto tem as chaves 'title', 'author' e 'relevance'. ` +
	`O texto para análise é: "%s"`

const bookDetailsPrompt = `Encontre a URL da capa de alta resolução, uma sinopse oficial concisa (máximo 2 frases) e o ISBN-13 ` +
	`para o livro "%s" de %s. ` +
	`Retorne APENAS um objeto JSON com as propriedades: coverUrl, synopsis, isbn13. Sem explicações adicionais.`

const pageDetailsPrompt = `Você é um especialista em curadoria de livros. Analise o conteúdo da página fornecida e extraia: ` +
	`sinopse detalhada (traduzida para PORTUGUÊS BRASILEIRO, texto rico e completo, mantenha os parágrafos), ` +
	`nota média de avaliação (rating) de 1 a 5 (ex: 4.8) e número total de avaliações (reviewCount). ` +
	`A URL é: %s. ` +
	`Retorne APENAS um objeto JSON válido com as propriedades: synopsis, rating, reviewCount. Sem explicações adicionais.`

// ExtractFromURL asks the service for book mentions found at a URL.
// The returned list may be empty; that is a valid zero-results state.
func (c *Client) ExtractFromURL(ctx context.Context, pageURL string) ([]Candidate, error) {
	return c.extract(ctx, fmt.Sprintf(extractFromURLPrompt, pageURL))
}

// ExtractFromText asks the service for book mentions found in a text blob.
func (c *Client) ExtractFromText(ctx context.Context, text string) ([]Candidate, error) {
	return c.extract(ctx, fmt.Sprintf(extractFromTextPrompt, text))
}

func (c *Client) extract(ctx context.Context, prompt string) ([]Candidate, error) {
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonText, err := utils.ExtractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var candidates []Candidate
	if err := json.Unmarshal([]byte(jsonText), &candidates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return candidates, nil
}

// FetchBookDetails asks the service for cover, synopsis and ISBN of one
// known book. Used by the manual per-book refresh action.
func (c *Client) FetchBookDetails(ctx context.Context, title, author string) (*BookDetails, error) {
	return c.details(ctx, fmt.Sprintf(bookDetailsPrompt, title, author))
}

// FetchPageDetails asks the service for synopsis/rating/review-count found
// on a product page. Used by the sweep CLI.
func (c *Client) FetchPageDetails(ctx context.Context, pageURL string) (*BookDetails, error) {
	return c.details(ctx, fmt.Sprintf(pageDetailsPrompt, pageURL))
}

func (c *Client) details(ctx context.Context, prompt string) (*BookDetails, error) {
	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonText, err := utils.ExtractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var details BookDetails
	if err := json.Unmarshal([]byte(jsonText), &details); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &details, nil
}

// chat completions wire types
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete performs one chat completion round trip and returns the raw
// assistant text.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if resp.StatusCode != http.StatusOK {
		if data.Error != nil {
			return "", fmt.Errorf("extraction: service error: %s", data.Error.Message)
		}
		return "", fmt.Errorf("extraction: unexpected status code %d", resp.StatusCode)
	}

	if len(data.Choices) == 0 {
		return "", ErrMalformedResponse
	}

	return data.Choices[0].Message.Content, nil
}
