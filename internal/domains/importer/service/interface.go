package service

import (
	"context"

	"github.com/google/uuid"

	activitymodel "melivro-backend/internal/domains/activity/model"
	bookmodel "melivro-backend/internal/domains/book/model"
	citationmodel "melivro-backend/internal/domains/citation/model"
	"melivro-backend/internal/domains/importer/model"
	personmodel "melivro-backend/internal/domains/person/model"
	"melivro-backend/internal/infrastructure/enrichment"
	"melivro-backend/internal/infrastructure/extraction"
)

// ServiceInterface orchestrates the import pipeline: extraction into the
// review queue, confirmation into books, assignment into citations.
type ServiceInterface interface {
	CreateSession(ctx context.Context) (*model.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*model.Session, error)
	ListSessions(ctx context.Context) ([]model.Session, error)

	// Abandon discards the session and everything still queued in it.
	Abandon(ctx context.Context, id uuid.UUID) error

	// Extract replaces the session's candidate list with what the
	// extractor found in the given URL or text.
	Extract(ctx context.Context, sessionID uuid.UUID, req *model.ExtractRequest) (*model.Session, error)

	// Confirm enriches one candidate, persists it as a book and moves it
	// to the assignment stage. The candidate stays queued when
	// persistence fails.
	Confirm(ctx context.Context, sessionID, candidateID uuid.UUID) (*model.Session, error)

	// ConfirmAll confirms every queued candidate sequentially. Failed
	// candidates stay queued; the report lists them.
	ConfirmAll(ctx context.Context, sessionID uuid.UUID) (*model.BatchReport, *model.Session, error)

	// Assign binds one staged entry to a curator, creating a citation.
	Assign(ctx context.Context, sessionID, entryID, personID uuid.UUID) (*model.Session, error)

	// AssignAll binds every staged entry to one curator sequentially.
	// Failed entries stay staged; the report lists them.
	AssignAll(ctx context.Context, sessionID, personID uuid.UUID) (*model.BatchReport, *model.Session, error)
}

// Extractor is the slice of the extraction client the pipeline needs.
type Extractor interface {
	ExtractFromURL(ctx context.Context, url string) ([]extraction.Candidate, error)
	ExtractFromText(ctx context.Context, text string) ([]extraction.Candidate, error)
}

// Enricher resolves best-effort metadata for a confirmed candidate.
type Enricher interface {
	Resolve(ctx context.Context, title, author string) enrichment.BookMetadata
}

// BookCreator persists confirmed candidates as books.
type BookCreator interface {
	Create(ctx context.Context, req *bookmodel.CreateBookRequest) (*bookmodel.Book, error)
}

// CitationCreator materializes assignments as citations.
type CitationCreator interface {
	Create(ctx context.Context, req *citationmodel.CreateCitationRequest) (*citationmodel.Citation, error)
}

// PersonGetter validates the selected curator and supplies their name
// for the feed entry.
type PersonGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*personmodel.Person, error)
}

// ActivityAppender records batch assignments on the feed.
type ActivityAppender interface {
	Append(ctx context.Context, userName string, payload activitymodel.Payload) (*activitymodel.Activity, error)
}
