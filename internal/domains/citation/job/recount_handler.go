package job

import (
	"context"

	"github.com/hibiken/asynq"

	"melivro-backend/internal/domains/citation/service"
	"melivro-backend/pkg/logger"
)

// RecountHandler runs the periodic citation_count repair.
type RecountHandler struct {
	service service.ServiceInterface
}

func NewRecountHandler(service service.ServiceInterface) *RecountHandler {
	return &RecountHandler{service: service}
}

func (h *RecountHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	changed, err := h.service.RecountAll(ctx)
	if err != nil {
		logger.Error("citation recount failed", err)
		return err
	}

	logger.Info("citation recount complete", map[string]interface{}{
		"books_updated": changed,
	})
	return nil
}
