package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melivro-backend/internal/domains/person/model"
	"melivro-backend/pkg/cache"
)

type fakePersonRepo struct {
	people     map[uuid.UUID]*model.Person
	lastFilter model.PersonFilter
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{people: map[uuid.UUID]*model.Person{}}
}

func (f *fakePersonRepo) Create(_ context.Context, person *model.Person) (*model.Person, error) {
	for _, p := range f.people {
		if p.Slug == person.Slug {
			return nil, model.ErrDuplicateSlug
		}
	}
	stored := *person
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.people[stored.ID] = &stored
	return &stored, nil
}

func (f *fakePersonRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Person, error) {
	p, ok := f.people[id]
	if !ok {
		return nil, model.ErrPersonNotFound
	}
	return p, nil
}

func (f *fakePersonRepo) GetBySlug(_ context.Context, slug string) (*model.Person, error) {
	for _, p := range f.people {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, model.ErrPersonNotFound
}

func (f *fakePersonRepo) List(_ context.Context, filter model.PersonFilter) ([]model.Person, int, error) {
	f.lastFilter = filter
	return []model.Person{}, 0, nil
}

func (f *fakePersonRepo) Update(_ context.Context, id uuid.UUID, _ *model.UpdatePersonRequest) (*model.Person, error) {
	return f.GetByID(context.Background(), id)
}

func (f *fakePersonRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.people[id]; !ok {
		return model.ErrPersonNotFound
	}
	delete(f.people, id)
	return nil
}

func (f *fakePersonRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	_, err := f.GetBySlug(context.Background(), slug)
	return err == nil, nil
}

func (f *fakePersonRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.people[id]
	return ok, nil
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

func TestCreateDerivesSlugFromName(t *testing.T) {
	svc := NewPersonService(newFakePersonRepo(), cache.NewNoop())

	person, err := svc.Create(context.Background(), &model.CreatePersonRequest{
		Name: "Luís Roberto Barroso",
	})

	require.NoError(t, err)
	assert.Equal(t, "luis-roberto-barroso", person.Slug)
}

func TestCreateRespectsExplicitSlug(t *testing.T) {
	svc := NewPersonService(newFakePersonRepo(), cache.NewNoop())

	person, err := svc.Create(context.Background(), &model.CreatePersonRequest{
		Name: "Bill Gates",
		Slug: "bill-gates-microsoft",
	})

	require.NoError(t, err)
	assert.Equal(t, "bill-gates-microsoft", person.Slug)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc := NewPersonService(newFakePersonRepo(), cache.NewNoop())

	_, err := svc.Create(context.Background(), &model.CreatePersonRequest{Name: "Bill Gates"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &model.CreatePersonRequest{Name: "Bill Gates"})
	assert.ErrorIs(t, err, model.ErrDuplicateSlug)
}

func TestCreateRejectsUnsluggableName(t *testing.T) {
	svc := NewPersonService(newFakePersonRepo(), cache.NewNoop())

	_, err := svc.Create(context.Background(), &model.CreatePersonRequest{Name: "!!!"})
	assert.ErrorIs(t, err, model.ErrInvalidName)
}

func TestCreateOptionalFields(t *testing.T) {
	svc := NewPersonService(newFakePersonRepo(), cache.NewNoop())

	person, err := svc.Create(context.Background(), &model.CreatePersonRequest{
		Name:    "Bill Gates",
		Bio:     "Co-founder of Microsoft.",
		Country: "US",
		Tags:    []string{"tech", "philanthropy"},
	})

	require.NoError(t, err)
	require.NotNil(t, person.Bio)
	assert.Equal(t, "Co-founder of Microsoft.", *person.Bio)
	require.NotNil(t, person.Country)
	assert.Equal(t, "US", *person.Country)
	assert.Nil(t, person.ImageURL)
	assert.Equal(t, []string{"tech", "philanthropy"}, []string(person.Tags))
}

func TestDeleteInvalidatesBookCache(t *testing.T) {
	repo := newFakePersonRepo()
	rc := newRecordingCache()
	svc := NewPersonService(repo, rc)

	person, err := svc.Create(context.Background(), &model.CreatePersonRequest{Name: "Bill Gates"})
	require.NoError(t, err)
	rc.patterns = nil

	// The cascade delete changes citation counts, so cached book
	// listings and rankings must be dropped.
	require.NoError(t, svc.Delete(context.Background(), person.ID))
	require.Len(t, rc.patterns, 1)
	assert.Equal(t, "books:*", rc.patterns[0])
}

func TestDeleteUnknownPersonLeavesCacheAlone(t *testing.T) {
	rc := newRecordingCache()
	svc := NewPersonService(newFakePersonRepo(), rc)

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrPersonNotFound)
	assert.Empty(t, rc.patterns)
}

func TestListClampsPagination(t *testing.T) {
	repo := newFakePersonRepo()
	svc := NewPersonService(repo, cache.NewNoop())

	_, _, err := svc.List(context.Background(), model.PersonFilter{Limit: -1, Offset: -10})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastFilter.Limit)
	assert.Equal(t, 0, repo.lastFilter.Offset)

	_, _, err = svc.List(context.Background(), model.PersonFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastFilter.Limit)
}
