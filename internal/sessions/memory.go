package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store with the same optimistic versioning
// semantics as the Postgres repository. It backs tests and storage-less
// development runs.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID][]byte
	versions map[uuid.UUID]int
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID][]byte),
		versions: make(map[uuid.UUID]int),
	}
}

func (m *MemoryStore) Load(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	var session Session
	if err := json.Unmarshal(state, &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	session.Version = m.versions[id]
	return &session, nil
}

func (m *MemoryStore) Save(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.versions[session.ID]
	if session.Version != stored {
		return ErrVersionConflict
	}

	next := session.Version + 1
	snapshot := *session
	snapshot.Version = next

	state, err := json.Marshal(&snapshot)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}

	m.sessions[session.ID] = state
	m.versions[session.ID] = next
	session.Version = next
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}

	delete(m.sessions, id)
	delete(m.versions, id)
	return nil
}
