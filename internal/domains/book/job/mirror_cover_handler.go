package job

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"melivro-backend/internal/domains/book/model"
	"melivro-backend/internal/domains/book/repository"
	"melivro-backend/internal/infrastructure/storage"
)

// MirrorCoverHandler downloads an external cover image, re-encodes it and
// stores it in our bucket, then points the book at the mirrored URL.
type MirrorCoverHandler struct {
	repo       repository.RepositoryInterface
	storage    *storage.MinIOStorage
	processor  *storage.ImageProcessor
	httpClient *http.Client
}

func NewMirrorCoverHandler(repo repository.RepositoryInterface, store *storage.MinIOStorage, processor *storage.ImageProcessor) *MirrorCoverHandler {
	return &MirrorCoverHandler{
		repo:      repo,
		storage:   store,
		processor: processor,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (h *MirrorCoverHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload model.MirrorCoverPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	data, err := h.download(ctx, payload.CoverURL)
	if err != nil {
		return fmt.Errorf("failed to download cover: %w", err)
	}

	if err := h.processor.ValidateImage(data); err != nil {
		// Not an image (dead link, HTML error page). Retrying won't help.
		log.Warn().
			Str("book_id", payload.BookID.String()).
			Str("cover_url", payload.CoverURL).
			Err(err).
			Msg("Cover URL did not serve a usable image")
		return nil
	}

	variants, err := h.processor.ProcessCover(data)
	if err != nil {
		return fmt.Errorf("failed to process cover: %w", err)
	}

	var mirroredURL string
	for name, variant := range variants {
		key := fmt.Sprintf("covers/%s/%s.jpg", payload.BookID, name)
		url, err := h.storage.Upload(ctx, key, variant, "image/jpeg")
		if err != nil {
			return fmt.Errorf("failed to upload cover variant %s: %w", name, err)
		}
		if name == "large" {
			mirroredURL = url
		}
	}

	if mirroredURL == "" {
		return fmt.Errorf("no large cover variant produced")
	}

	if err := h.repo.UpdateCoverURL(ctx, payload.BookID, mirroredURL); err != nil {
		return fmt.Errorf("failed to update cover url: %w", err)
	}

	log.Info().
		Str("book_id", payload.BookID.String()).
		Str("mirrored_url", mirroredURL).
		Msg("Cover mirrored")

	return nil
}

func (h *MirrorCoverHandler) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
}
