package sessions

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence port for session state. Save enforces a
// single-writer guarantee through optimistic versioning: an unsaved session
// (version 0) is inserted, an existing session is updated only when the
// stored version still matches, and a mismatch returns ErrVersionConflict.
type Store interface {
	// Load returns the session with the given id, or ErrNotFound.
	Load(ctx context.Context, id uuid.UUID) (*Session, error)
	// Save persists the full session snapshot and increments its version.
	Save(ctx context.Context, session *Session) error
	// Delete removes the session with the given id, or ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}
