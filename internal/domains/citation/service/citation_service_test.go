package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melivro-backend/internal/domains/citation/model"
	"melivro-backend/pkg/cache"
)

// fakeCitationRepo keeps citations and per-book counts in memory,
// mirroring the transactional count maintenance of the real store.
type fakeCitationRepo struct {
	citations map[uuid.UUID]*model.Citation
	counts    map[uuid.UUID]int
}

func newFakeCitationRepo() *fakeCitationRepo {
	return &fakeCitationRepo{
		citations: map[uuid.UUID]*model.Citation{},
		counts:    map[uuid.UUID]int{},
	}
}

func (f *fakeCitationRepo) CreateWithCount(_ context.Context, citation *model.Citation) (*model.Citation, error) {
	stored := *citation
	f.citations[stored.ID] = &stored
	f.counts[stored.BookID]++
	return &stored, nil
}

func (f *fakeCitationRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Citation, error) {
	c, ok := f.citations[id]
	if !ok {
		return nil, model.ErrCitationNotFound
	}
	return c, nil
}

func (f *fakeCitationRepo) Delete(_ context.Context, id uuid.UUID) error {
	c, ok := f.citations[id]
	if !ok {
		return model.ErrCitationNotFound
	}
	delete(f.citations, id)
	if f.counts[c.BookID] > 0 {
		f.counts[c.BookID]--
	}
	return nil
}

func (f *fakeCitationRepo) ListByPerson(_ context.Context, personID uuid.UUID) ([]model.Citation, error) {
	out := []model.Citation{}
	for _, c := range f.citations {
		if c.PersonID == personID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCitationRepo) ListByPersonWithBooks(_ context.Context, _ uuid.UUID) ([]model.CitationWithBook, error) {
	return nil, nil
}

func (f *fakeCitationRepo) ListByBook(_ context.Context, _ uuid.UUID) ([]model.CitationWithPerson, error) {
	return nil, nil
}

func (f *fakeCitationRepo) RecountAll(_ context.Context) (int64, error) {
	actual := map[uuid.UUID]int{}
	for _, c := range f.citations {
		actual[c.BookID]++
	}

	var changed int64
	for bookID, stored := range f.counts {
		if stored != actual[bookID] {
			f.counts[bookID] = actual[bookID]
			changed++
		}
	}
	return changed, nil
}

// trueCount recomputes a book's count from the citation rows themselves.
func (f *fakeCitationRepo) trueCount(bookID uuid.UUID) int {
	n := 0
	for _, c := range f.citations {
		if c.BookID == bookID {
			n++
		}
	}
	return n
}

type fakeExistence struct {
	known map[uuid.UUID]bool
}

func (f *fakeExistence) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

type recordingCache struct {
	cache.Cache
	patterns []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{Cache: cache.NewNoop()}
}

func (c *recordingCache) DeletePattern(_ context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}

func newCitationFixture() (ServiceInterface, *fakeCitationRepo, *recordingCache, uuid.UUID, uuid.UUID) {
	repo := newFakeCitationRepo()
	personID := uuid.New()
	bookID := uuid.New()
	people := &fakeExistence{known: map[uuid.UUID]bool{personID: true}}
	books := &fakeExistence{known: map[uuid.UUID]bool{bookID: true}}
	rc := newRecordingCache()
	return NewCitationService(repo, people, books, rc), repo, rc, personID, bookID
}

func validRequest(personID, bookID uuid.UUID) *model.CreateCitationRequest {
	return &model.CreateCitationRequest{
		PersonID:  personID,
		BookID:    bookID,
		CitedType: string(model.CitationRecommended),
		CitedYear: 2020,
	}
}

func TestCreateMaintainsCount(t *testing.T) {
	svc, repo, _, personID, bookID := newCitationFixture()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), validRequest(personID, bookID))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, repo.counts[bookID])
	assert.Equal(t, repo.trueCount(bookID), repo.counts[bookID])
}

func TestDeleteMaintainsCount(t *testing.T) {
	svc, repo, _, personID, bookID := newCitationFixture()

	created, err := svc.Create(context.Background(), validRequest(personID, bookID))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), validRequest(personID, bookID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	assert.Equal(t, 1, repo.counts[bookID])
	assert.Equal(t, repo.trueCount(bookID), repo.counts[bookID])
}

func TestDeleteUnknownCitation(t *testing.T) {
	svc, _, rc, _, _ := newCitationFixture()

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrCitationNotFound)
	assert.Empty(t, rc.patterns, "a failed delete must not touch the cache")
}

func TestCreateRejectsUnknownPerson(t *testing.T) {
	svc, repo, _, _, bookID := newCitationFixture()

	_, err := svc.Create(context.Background(), validRequest(uuid.New(), bookID))
	assert.ErrorIs(t, err, model.ErrPersonNotFound)
	assert.Empty(t, repo.citations)
	assert.Zero(t, repo.counts[bookID])
}

func TestCreateRejectsUnknownBook(t *testing.T) {
	svc, repo, _, personID, _ := newCitationFixture()

	_, err := svc.Create(context.Background(), validRequest(personID, uuid.New()))
	assert.ErrorIs(t, err, model.ErrBookNotFound)
	assert.Empty(t, repo.citations)
}

func TestCreateRejectsInvalidType(t *testing.T) {
	svc, _, _, personID, bookID := newCitationFixture()

	req := validRequest(personID, bookID)
	req.CitedType = "bookmarked"

	_, err := svc.Create(context.Background(), req)
	assert.Error(t, err)
}

func TestCreateAcceptsPlaceholderSourceURL(t *testing.T) {
	svc, repo, _, personID, bookID := newCitationFixture()

	req := validRequest(personID, bookID)
	req.SourceURL = model.SourceURLPlaceholder

	created, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, created.SourceURL)
	assert.Equal(t, model.SourceURLPlaceholder, *created.SourceURL)

	req = validRequest(personID, bookID)
	req.SourceURL = "not a url"
	_, err = svc.Create(context.Background(), req)
	assert.Error(t, err)

	assert.Equal(t, repo.trueCount(bookID), repo.counts[bookID])
}

func TestCreateInvalidatesBookCache(t *testing.T) {
	svc, _, rc, personID, bookID := newCitationFixture()

	_, err := svc.Create(context.Background(), validRequest(personID, bookID))
	require.NoError(t, err)

	require.Len(t, rc.patterns, 1)
	assert.Equal(t, "books:*", rc.patterns[0])
}

func TestRecountAllRepairsDrift(t *testing.T) {
	svc, repo, rc, personID, bookID := newCitationFixture()

	_, err := svc.Create(context.Background(), validRequest(personID, bookID))
	require.NoError(t, err)
	rc.patterns = nil

	// Corrupt the counter the way an out-of-band write would.
	repo.counts[bookID] = 42

	changed, err := svc.RecountAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), changed)
	assert.Equal(t, repo.trueCount(bookID), repo.counts[bookID])
	assert.Contains(t, rc.patterns, "books:*", "a repair must invalidate cached rankings")
}

func TestRecountAllNoDriftIsQuiet(t *testing.T) {
	svc, _, rc, personID, bookID := newCitationFixture()

	_, err := svc.Create(context.Background(), validRequest(personID, bookID))
	require.NoError(t, err)
	rc.patterns = nil

	changed, err := svc.RecountAll(context.Background())
	require.NoError(t, err)

	assert.Zero(t, changed)
	assert.Empty(t, rc.patterns, "nothing changed, nothing to invalidate")
}
