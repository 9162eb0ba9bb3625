package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"melivro-backend/internal/domains/importer/model"
)

// SessionStore holds pipeline sessions. Sessions are operator-scoped
// scratch state, so an in-memory store is sufficient; abandoning a
// session discards its queues without side effects.
type SessionStore interface {
	Create() *model.Session
	Get(id uuid.UUID) (*model.Session, error)
	Save(session *model.Session) error
	Delete(id uuid.UUID) error
	List() []model.Session
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.Session
}

func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[uuid.UUID]*model.Session)}
}

func (s *memoryStore) Create() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	session := &model.Session{
		ID:         uuid.New(),
		Candidates: []model.ImportCandidate{},
		Entries:    []model.AssignmentEntry{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.sessions[session.ID] = session
	return copySession(session)
}

func (s *memoryStore) Get(id uuid.UUID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (s *memoryStore) Save(session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return model.ErrSessionNotFound
	}
	session.UpdatedAt = time.Now()
	s.sessions[session.ID] = copySession(session)
	return nil
}

func (s *memoryStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) List() []model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]model.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, *copySession(session))
	}
	return sessions
}

// copySession returns a deep copy so callers never share slices with the
// stored session.
func copySession(in *model.Session) *model.Session {
	out := *in
	out.Candidates = append([]model.ImportCandidate{}, in.Candidates...)
	out.Entries = append([]model.AssignmentEntry{}, in.Entries...)
	return &out
}
