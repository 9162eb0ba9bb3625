package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	bookjob "melivro-backend/internal/domains/book/job"
	bookmodel "melivro-backend/internal/domains/book/model"
	citationjob "melivro-backend/internal/domains/citation/job"
	citationmodel "melivro-backend/internal/domains/citation/model"
	"melivro-backend/internal/infrastructure/storage"
	"melivro-backend/pkg/container"
)

// registerHandlers binds every task type to its handler. Cover mirroring
// is skipped entirely when object storage is unavailable.
func registerHandlers(mux *asynq.ServeMux, c *container.Container) {
	recount := citationjob.NewRecountHandler(c.CitationService)
	mux.Handle(citationmodel.TypeRecountCitations, recount)

	if c.Storage != nil {
		mirror := bookjob.NewMirrorCoverHandler(c.BookRepo, c.Storage, storage.NewImageProcessor())
		mux.Handle(bookmodel.TypeMirrorCover, mirror)
	} else {
		log.Println("object storage unavailable, cover mirror tasks will be dropped")
		mux.HandleFunc(bookmodel.TypeMirrorCover, func(_ context.Context, _ *asynq.Task) error {
			return nil
		})
	}
}
