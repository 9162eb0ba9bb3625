package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"melivro-backend/internal/domains/importer/model"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()

	session := store.Create()
	require.NotEqual(t, uuid.Nil, session.ID)
	assert.Empty(t, session.Candidates)
	assert.Empty(t, session.Entries)

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	got.Candidates = append(got.Candidates, model.ImportCandidate{
		ID:    uuid.New(),
		Title: "Sapiens",
	})
	require.NoError(t, store.Save(got))

	reloaded, err := store.Get(session.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Candidates, 1)
	assert.Equal(t, "Sapiens", reloaded.Candidates[0].Title)

	require.NoError(t, store.Delete(session.ID))
	_, err = store.Get(session.ID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestMemoryStoreUnknownSession(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	assert.ErrorIs(t, store.Delete(uuid.New()), model.ErrSessionNotFound)

	err = store.Save(&model.Session{ID: uuid.New()})
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()

	session := store.Create()
	session.Candidates = append(session.Candidates, model.ImportCandidate{
		ID:    uuid.New(),
		Title: "Sapiens",
	})
	require.NoError(t, store.Save(session))

	// Mutating a fetched session must not leak into the stored one.
	got, err := store.Get(session.ID)
	require.NoError(t, err)
	got.Candidates[0].Title = "mutated"
	got.Candidates = append(got.Candidates, model.ImportCandidate{ID: uuid.New()})

	reloaded, err := store.Get(session.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Candidates, 1)
	assert.Equal(t, "Sapiens", reloaded.Candidates[0].Title)
}

func TestMemoryStoreList(t *testing.T) {
	store := NewMemoryStore()

	first := store.Create()
	second := store.Create()

	sessions := store.List()
	require.Len(t, sessions, 2)

	ids := map[uuid.UUID]bool{}
	for _, s := range sessions {
		ids[s.ID] = true
	}
	assert.True(t, ids[first.ID])
	assert.True(t, ids[second.ID])
}
