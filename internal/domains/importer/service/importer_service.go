package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	activitymodel "melivro-backend/internal/domains/activity/model"
	bookmodel "melivro-backend/internal/domains/book/model"
	citationmodel "melivro-backend/internal/domains/citation/model"
	"melivro-backend/internal/domains/importer/model"
	"melivro-backend/internal/domains/importer/repository"
	personmodel "melivro-backend/internal/domains/person/model"
	"melivro-backend/internal/infrastructure/extraction"
	"melivro-backend/pkg/logger"
)

const (
	importedSourceTitle = "Fonte Importada"
	importedQuote       = "Citado durante importação de conteúdo."
)

type importerService struct {
	store      repository.SessionStore
	extractor  Extractor
	enricher   Enricher
	books      BookCreator
	citations  CitationCreator
	people     PersonGetter
	activities ActivityAppender
}

func NewImporterService(
	store repository.SessionStore,
	extractor Extractor,
	enricher Enricher,
	books BookCreator,
	citations CitationCreator,
	people PersonGetter,
	activities ActivityAppender,
) ServiceInterface {
	return &importerService{
		store:      store,
		extractor:  extractor,
		enricher:   enricher,
		books:      books,
		citations:  citations,
		people:     people,
		activities: activities,
	}
}

func (s *importerService) CreateSession(_ context.Context) (*model.Session, error) {
	return s.store.Create(), nil
}

func (s *importerService) GetSession(_ context.Context, id uuid.UUID) (*model.Session, error) {
	return s.store.Get(id)
}

func (s *importerService) ListSessions(_ context.Context) ([]model.Session, error) {
	return s.store.List(), nil
}

func (s *importerService) Abandon(_ context.Context, id uuid.UUID) error {
	return s.store.Delete(id)
}

func (s *importerService) Extract(ctx context.Context, sessionID uuid.UUID, req *model.ExtractRequest) (*model.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var candidates []extraction.Candidate
	if req.URL != "" {
		candidates, err = s.extractor.ExtractFromURL(ctx, req.URL)
		session.SourceURL = req.URL
	} else {
		candidates, err = s.extractor.ExtractFromText(ctx, req.Text)
		session.SourceURL = ""
	}
	if err != nil {
		return nil, err
	}

	session.Candidates = make([]model.ImportCandidate, 0, len(candidates))
	for _, c := range candidates {
		session.Candidates = append(session.Candidates, model.ImportCandidate{
			ID:        uuid.New(),
			Title:     c.Title,
			Author:    c.Author,
			Relevance: c.Relevance,
		})
	}

	if err := s.store.Save(session); err != nil {
		return nil, err
	}

	logger.Info("extraction complete", map[string]interface{}{
		"session_id": session.ID.String(),
		"candidates": len(session.Candidates),
	})
	return session, nil
}

func (s *importerService) Confirm(ctx context.Context, sessionID, candidateID uuid.UUID) (*model.Session, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range session.Candidates {
		if c.ID == candidateID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, model.ErrCandidateNotFound
	}

	if err := s.confirmCandidate(ctx, session, idx); err != nil {
		return nil, err
	}

	if err := s.store.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *importerService) ConfirmAll(ctx context.Context, sessionID uuid.UUID) (*model.BatchReport, *model.Session, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	report := &model.BatchReport{Total: len(session.Candidates), Failed: []model.BatchFailure{}}

	// Sequential on purpose: bounds load on the enrichment sources and
	// keeps per-item failure isolated.
	i := 0
	for i < len(session.Candidates) {
		if err := ctx.Err(); err != nil {
			if saveErr := s.store.Save(session); saveErr != nil {
				logger.Error("failed to save session after cancellation", saveErr)
			}
			return report, session, err
		}

		candidate := session.Candidates[i]
		if err := s.confirmCandidate(ctx, session, i); err != nil {
			report.Failed = append(report.Failed, model.BatchFailure{
				ID:     candidate.ID,
				Title:  candidate.Title,
				Reason: err.Error(),
			})
			i++ // failed candidate stays queued, move past it
			continue
		}
		report.Succeeded++
		// confirmCandidate removed the candidate at i, do not advance.
	}

	if err := s.store.Save(session); err != nil {
		return nil, nil, err
	}

	logger.Info("confirm-all complete", map[string]interface{}{
		"session_id": session.ID.String(),
		"total":      report.Total,
		"succeeded":  report.Succeeded,
		"failed":     len(report.Failed),
	})
	return report, session, nil
}

// confirmCandidate enriches the candidate at idx, persists the book and
// moves it to the assignment stage, mutating the session in place. The
// candidate is only removed after the book write succeeded.
func (s *importerService) confirmCandidate(ctx context.Context, session *model.Session, idx int) error {
	candidate := session.Candidates[idx]

	// Enrichment never fails the confirmation, an empty result just
	// means an incomplete book.
	meta := s.enricher.Resolve(ctx, candidate.Title, candidate.Author)

	req := &bookmodel.CreateBookRequest{
		Title:           candidate.Title,
		Authors:         candidate.Author,
		ISBN13:          meta.ISBN13,
		CoverURL:        meta.CoverURL,
		Synopsis:        meta.Synopsis,
		Categories:      meta.Categories,
		Pages:           meta.Pages,
		PublicationDate: meta.PublicationDate,
	}

	book, err := s.books.Create(ctx, req)
	if err != nil {
		logger.Warn("book persistence failed, candidate kept in queue", err)
		return err
	}

	session.Candidates = append(session.Candidates[:idx], session.Candidates[idx+1:]...)
	session.Entries = append(session.Entries, model.AssignmentEntry{
		ID:        uuid.New(),
		BookID:    book.ID,
		BookTitle: book.Title,
		Relevance: candidate.Relevance,
		SourceURL: session.SourceURL,
	})
	return nil
}

func (s *importerService) Assign(ctx context.Context, sessionID, entryID, personID uuid.UUID) (*model.Session, error) {
	if personID == uuid.Nil {
		return nil, model.ErrNoPersonSelected
	}

	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	person, err := s.getPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range session.Entries {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, model.ErrEntryNotFound
	}

	if err := s.assignEntry(ctx, session, idx, person); err != nil {
		return nil, err
	}

	if err := s.store.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *importerService) AssignAll(ctx context.Context, sessionID, personID uuid.UUID) (*model.BatchReport, *model.Session, error) {
	if personID == uuid.Nil {
		return nil, nil, model.ErrNoPersonSelected
	}

	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	person, err := s.getPerson(ctx, personID)
	if err != nil {
		return nil, nil, err
	}

	report := &model.BatchReport{Total: len(session.Entries), Failed: []model.BatchFailure{}}
	assignedBooks := []uuid.UUID{}

	i := 0
	for i < len(session.Entries) {
		if err := ctx.Err(); err != nil {
			if saveErr := s.store.Save(session); saveErr != nil {
				logger.Error("failed to save session after cancellation", saveErr)
			}
			return report, session, err
		}

		entry := session.Entries[i]
		if err := s.assignEntry(ctx, session, i, person); err != nil {
			report.Failed = append(report.Failed, model.BatchFailure{
				ID:     entry.ID,
				Title:  entry.BookTitle,
				Reason: err.Error(),
			})
			i++ // failed entry stays staged
			continue
		}
		report.Succeeded++
		assignedBooks = append(assignedBooks, entry.BookID)
	}

	if err := s.store.Save(session); err != nil {
		return nil, nil, err
	}

	if len(assignedBooks) > 0 && s.activities != nil {
		_, err := s.activities.Append(ctx, person.Name, activitymodel.BatchRecommendationPayload{
			PersonID:   person.ID,
			PersonName: person.Name,
			BookIDs:    assignedBooks,
		})
		if err != nil {
			logger.Warn("failed to append batch recommendation activity", err)
		}
	}

	logger.Info("assign-all complete", map[string]interface{}{
		"session_id": session.ID.String(),
		"person_id":  personID.String(),
		"total":      report.Total,
		"succeeded":  report.Succeeded,
		"failed":     len(report.Failed),
	})
	return report, session, nil
}

// assignEntry creates the citation for the entry at idx and removes it
// from the stage, mutating the session in place.
func (s *importerService) assignEntry(ctx context.Context, session *model.Session, idx int, person *personmodel.Person) error {
	entry := session.Entries[idx]

	quote := entry.Relevance
	if quote == "" {
		quote = importedQuote
	}

	sourceURL := entry.SourceURL
	if sourceURL == "" {
		sourceURL = citationmodel.SourceURLPlaceholder
	}

	req := &citationmodel.CreateCitationRequest{
		PersonID:     person.ID,
		BookID:       entry.BookID,
		CitedYear:    time.Now().Year(),
		CitedType:    string(citationmodel.CitationCited),
		SourceURL:    sourceURL,
		SourceTitle:  importedSourceTitle,
		QuoteExcerpt: quote,
	}

	if _, err := s.citations.Create(ctx, req); err != nil {
		logger.Warn("citation persistence failed, entry kept staged", err)
		return err
	}

	session.Entries = append(session.Entries[:idx], session.Entries[idx+1:]...)
	return nil
}

func (s *importerService) getPerson(ctx context.Context, id uuid.UUID) (*personmodel.Person, error) {
	person, err := s.people.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, personmodel.ErrPersonNotFound) {
			return nil, model.ErrPersonNotFound
		}
		return nil, err
	}
	return person, nil
}
