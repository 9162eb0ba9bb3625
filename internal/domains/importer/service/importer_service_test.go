package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	activitymodel "melivro-backend/internal/domains/activity/model"
	bookmodel "melivro-backend/internal/domains/book/model"
	bookservice "melivro-backend/internal/domains/book/service"
	citationmodel "melivro-backend/internal/domains/citation/model"
	"melivro-backend/internal/domains/importer/model"
	"melivro-backend/internal/domains/importer/repository"
	personmodel "melivro-backend/internal/domains/person/model"
	"melivro-backend/internal/infrastructure/enrichment"
	"melivro-backend/internal/infrastructure/extraction"
)

// ---- fakes ----

type fakeExtractor struct {
	candidates []extraction.Candidate
	err        error
	lastURL    string
}

func (f *fakeExtractor) ExtractFromURL(_ context.Context, url string) ([]extraction.Candidate, error) {
	f.lastURL = url
	return f.candidates, f.err
}

func (f *fakeExtractor) ExtractFromText(_ context.Context, _ string) ([]extraction.Candidate, error) {
	return f.candidates, f.err
}

// fakeEnricher returns canned metadata per title; unknown titles resolve
// to an empty record, like a failing or empty-handed source.
type fakeEnricher struct {
	byTitle map[string]enrichment.BookMetadata
}

func (f *fakeEnricher) Resolve(_ context.Context, title, _ string) enrichment.BookMetadata {
	return f.byTitle[title]
}

// fakeBookRepo is an in-memory book store backing the real book service,
// so confirmation runs the genuine slug derivation path.
type fakeBookRepo struct {
	books      map[uuid.UUID]*bookmodel.Book
	failTitles map[string]bool
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:      map[uuid.UUID]*bookmodel.Book{},
		failTitles: map[string]bool{},
	}
}

func (f *fakeBookRepo) Create(_ context.Context, book *bookmodel.Book) (*bookmodel.Book, error) {
	if f.failTitles[book.Title] {
		return nil, errors.New("store rejected write")
	}
	for _, b := range f.books {
		if b.Slug == book.Slug {
			return nil, bookmodel.ErrDuplicateSlug
		}
	}
	stored := *book
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.books[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	return b, nil
}

func (f *fakeBookRepo) GetBySlug(_ context.Context, slug string) (*bookmodel.Book, error) {
	for _, b := range f.books {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, bookmodel.ErrBookNotFound
}

func (f *fakeBookRepo) List(_ context.Context, _ bookmodel.BookFilter) ([]bookmodel.Book, int, error) {
	out := []bookmodel.Book{}
	for _, b := range f.books {
		out = append(out, *b)
	}
	return out, len(out), nil
}

func (f *fakeBookRepo) MostCited(_ context.Context, _ int) ([]bookmodel.Book, error) {
	return nil, nil
}

func (f *fakeBookRepo) Update(_ context.Context, id uuid.UUID, _ *bookmodel.UpdateBookRequest) (*bookmodel.Book, error) {
	return f.GetByID(context.Background(), id)
}

func (f *fakeBookRepo) UpdateCoverURL(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (f *fakeBookRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	_, err := f.GetBySlug(context.Background(), slug)
	return err == nil, nil
}

func (f *fakeBookRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.books[id]
	return ok, nil
}

type fakeCitationCreator struct {
	created []citationmodel.CreateCitationRequest
	failFor map[uuid.UUID]bool // by book ID
}

func (f *fakeCitationCreator) Create(_ context.Context, req *citationmodel.CreateCitationRequest) (*citationmodel.Citation, error) {
	if f.failFor[req.BookID] {
		return nil, errors.New("store rejected write")
	}
	f.created = append(f.created, *req)
	return &citationmodel.Citation{
		ID:       uuid.New(),
		PersonID: req.PersonID,
		BookID:   req.BookID,
	}, nil
}

type fakePersonGetter struct {
	people map[uuid.UUID]*personmodel.Person
}

func (f *fakePersonGetter) GetByID(_ context.Context, id uuid.UUID) (*personmodel.Person, error) {
	p, ok := f.people[id]
	if !ok {
		return nil, personmodel.ErrPersonNotFound
	}
	return p, nil
}

type fakeActivityAppender struct {
	appended []activitymodel.Payload
}

func (f *fakeActivityAppender) Append(_ context.Context, _ string, payload activitymodel.Payload) (*activitymodel.Activity, error) {
	f.appended = append(f.appended, payload)
	return &activitymodel.Activity{ID: uuid.New(), Kind: payload.Kind(), Payload: payload}, nil
}

// ---- fixture ----

type fixture struct {
	service    ServiceInterface
	store      repository.SessionStore
	extractor  *fakeExtractor
	enricher   *fakeEnricher
	bookRepo   *fakeBookRepo
	citations  *fakeCitationCreator
	people     *fakePersonGetter
	activities *fakeActivityAppender
	person     *personmodel.Person
}

func newFixture() *fixture {
	f := &fixture{
		store:      repository.NewMemoryStore(),
		extractor:  &fakeExtractor{},
		enricher:   &fakeEnricher{byTitle: map[string]enrichment.BookMetadata{}},
		bookRepo:   newFakeBookRepo(),
		citations:  &fakeCitationCreator{failFor: map[uuid.UUID]bool{}},
		activities: &fakeActivityAppender{},
	}

	f.person = &personmodel.Person{ID: uuid.New(), Name: "Bill Gates", Slug: "bill-gates"}
	f.people = &fakePersonGetter{people: map[uuid.UUID]*personmodel.Person{f.person.ID: f.person}}

	books := bookservice.NewBookService(f.bookRepo, nil, nil)
	f.service = NewImporterService(f.store, f.extractor, f.enricher, books, f.citations, f.people, f.activities)
	return f
}

func (f *fixture) newSessionWithCandidates(t *testing.T, candidates []extraction.Candidate) *model.Session {
	t.Helper()
	session, err := f.service.CreateSession(context.Background())
	require.NoError(t, err)

	f.extractor.candidates = candidates
	session, err = f.service.Extract(context.Background(), session.ID, &model.ExtractRequest{
		URL: "https://example.com/list",
	})
	require.NoError(t, err)
	return session
}

// ---- tests ----

func TestExtractValidation(t *testing.T) {
	f := newFixture()
	session, err := f.service.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = f.service.Extract(context.Background(), session.ID, &model.ExtractRequest{})
	assert.ErrorIs(t, err, model.ErrEmptyInput)

	_, err = f.service.Extract(context.Background(), session.ID, &model.ExtractRequest{
		URL:  "https://example.com",
		Text: "also some text",
	})
	assert.ErrorIs(t, err, model.ErrAmbiguousInput)
}

func TestExtractThenConfirm(t *testing.T) {
	f := newFixture()
	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari", Relevance: "recommended as essential reading"},
	})
	require.Len(t, session.Candidates, 1)

	session, err := f.service.Confirm(context.Background(), session.ID, session.Candidates[0].ID)
	require.NoError(t, err)

	assert.Empty(t, session.Candidates, "confirmed candidate must leave the queue")
	require.Len(t, session.Entries, 1)

	entry := session.Entries[0]
	assert.Equal(t, "recommended as essential reading", entry.Relevance)
	assert.Equal(t, "https://example.com/list", entry.SourceURL)

	book, err := f.bookRepo.GetByID(context.Background(), entry.BookID)
	require.NoError(t, err)
	assert.Equal(t, "sapiens", book.Slug)
	assert.Equal(t, "Yuval Noah Harari", book.Authors)
}

func TestConfirmAllEnrichmentFailureIsolation(t *testing.T) {
	f := newFixture()
	// Only the first candidate has enrichment data; the others resolve
	// empty, as if their enrichment calls had failed.
	f.enricher.byTitle["Sapiens"] = enrichment.BookMetadata{
		Synopsis: "A brief history.",
		CoverURL: "https://covers.example.com/sapiens.jpg",
	}

	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
		{Title: "Educated", Author: "Tara Westover"},
		{Title: "Why We Sleep", Author: "Matthew Walker"},
	})

	report, session, err := f.service.ConfirmAll(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Succeeded)
	assert.Empty(t, report.Failed)
	assert.Empty(t, session.Candidates)
	assert.Len(t, session.Entries, 3)
	assert.Len(t, f.bookRepo.books, 3, "an enrichment miss still creates the book")
}

func TestConfirmAllPersistenceFailureKeepsCandidate(t *testing.T) {
	f := newFixture()
	f.bookRepo.failTitles["Educated"] = true

	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
		{Title: "Educated", Author: "Tara Westover"},
		{Title: "Why We Sleep", Author: "Matthew Walker"},
	})

	report, session, err := f.service.ConfirmAll(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "Educated", report.Failed[0].Title)

	require.Len(t, session.Candidates, 1, "failed candidate stays queued for retry")
	assert.Equal(t, "Educated", session.Candidates[0].Title)
	assert.Len(t, session.Entries, 2)
}

func TestConfirmAllHonorsCancellation(t *testing.T) {
	f := newFixture()
	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
		{Title: "Educated", Author: "Tara Westover"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := f.service.ConfirmAll(ctx, session.ID)
	assert.ErrorIs(t, err, context.Canceled)

	// Nothing was processed after cancellation.
	stored, getErr := f.service.GetSession(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.Len(t, stored.Candidates, 2)
}

func TestAssignRequiresCurator(t *testing.T) {
	f := newFixture()
	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
	})
	session, err := f.service.Confirm(context.Background(), session.ID, session.Candidates[0].ID)
	require.NoError(t, err)
	entryID := session.Entries[0].ID

	_, err = f.service.Assign(context.Background(), session.ID, entryID, uuid.Nil)
	assert.ErrorIs(t, err, model.ErrNoPersonSelected)

	// No citation was created and the entry is still staged.
	assert.Empty(t, f.citations.created)
	stored, err := f.service.GetSession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Entries, 1)
}

func TestAssignUnknownCurator(t *testing.T) {
	f := newFixture()
	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
	})
	session, err := f.service.Confirm(context.Background(), session.ID, session.Candidates[0].ID)
	require.NoError(t, err)

	_, err = f.service.Assign(context.Background(), session.ID, session.Entries[0].ID, uuid.New())
	assert.ErrorIs(t, err, model.ErrPersonNotFound)
	assert.Empty(t, f.citations.created)
}

func TestAssignCreatesCitationWithCarriedRelevance(t *testing.T) {
	f := newFixture()
	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari", Relevance: "recomendado no blog"},
	})
	session, err := f.service.Confirm(context.Background(), session.ID, session.Candidates[0].ID)
	require.NoError(t, err)

	session, err = f.service.Assign(context.Background(), session.ID, session.Entries[0].ID, f.person.ID)
	require.NoError(t, err)

	assert.Empty(t, session.Entries, "assigned entry must leave the stage")
	require.Len(t, f.citations.created, 1)

	c := f.citations.created[0]
	assert.Equal(t, f.person.ID, c.PersonID)
	assert.Equal(t, string(citationmodel.CitationCited), c.CitedType)
	assert.Equal(t, time.Now().Year(), c.CitedYear)
	assert.Equal(t, "https://example.com/list", c.SourceURL)
	assert.Equal(t, "Fonte Importada", c.SourceTitle)
	assert.Equal(t, "recomendado no blog", c.QuoteExcerpt)
}

func TestAssignFromTextInputUsesPlaceholderSource(t *testing.T) {
	f := newFixture()
	session, err := f.service.CreateSession(context.Background())
	require.NoError(t, err)

	f.extractor.candidates = []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
	}
	session, err = f.service.Extract(context.Background(), session.ID, &model.ExtractRequest{
		Text: "li Sapiens recentemente e recomendo",
	})
	require.NoError(t, err)

	session, err = f.service.Confirm(context.Background(), session.ID, session.Candidates[0].ID)
	require.NoError(t, err)
	assert.Empty(t, session.Entries[0].SourceURL)

	_, err = f.service.Assign(context.Background(), session.ID, session.Entries[0].ID, f.person.ID)
	require.NoError(t, err)

	require.Len(t, f.citations.created, 1)
	assert.Equal(t, citationmodel.SourceURLPlaceholder, f.citations.created[0].SourceURL)
}

func TestAssignAll(t *testing.T) {
	f := newFixture()
	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
		{Title: "Educated", Author: "Tara Westover"},
		{Title: "Why We Sleep", Author: "Matthew Walker"},
	})
	report, session, err := f.service.ConfirmAll(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, 3, report.Succeeded)

	report, session, err = f.service.AssignAll(context.Background(), session.ID, f.person.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Succeeded)
	assert.Empty(t, session.Entries, "stage is emptied after a fully successful batch")

	require.Len(t, f.citations.created, 3)
	for _, c := range f.citations.created {
		assert.Equal(t, f.person.ID, c.PersonID)
		assert.Equal(t, string(citationmodel.CitationCited), c.CitedType)
	}

	// A batch assignment lands on the feed.
	require.Len(t, f.activities.appended, 1)
	payload, ok := f.activities.appended[0].(activitymodel.BatchRecommendationPayload)
	require.True(t, ok)
	assert.Equal(t, f.person.ID, payload.PersonID)
	assert.Len(t, payload.BookIDs, 3)
}

func TestAssignAllAggregatesFailures(t *testing.T) {
	f := newFixture()
	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
		{Title: "Educated", Author: "Tara Westover"},
	})
	_, session, err := f.service.ConfirmAll(context.Background(), session.ID)
	require.NoError(t, err)

	var educatedBookID uuid.UUID
	for _, e := range session.Entries {
		if e.BookTitle == "Educated" {
			educatedBookID = e.BookID
		}
	}
	f.citations.failFor[educatedBookID] = true

	report, session, err := f.service.AssignAll(context.Background(), session.ID, f.person.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "Educated", report.Failed[0].Title)

	require.Len(t, session.Entries, 1, "failed entry stays staged")
	assert.Equal(t, "Educated", session.Entries[0].BookTitle)
}

func TestAbandonDiscardsSession(t *testing.T) {
	f := newFixture()
	session := f.newSessionWithCandidates(t, []extraction.Candidate{
		{Title: "Sapiens", Author: "Yuval Noah Harari"},
	})

	require.NoError(t, f.service.Abandon(context.Background(), session.ID))

	_, err := f.service.GetSession(context.Background(), session.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.Empty(t, f.bookRepo.books, "abandoning creates nothing")
}
