package sessions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/internal/sessions"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()

	session := sessions.NewSession()
	sub := session.NewSubsession()
	sub.Title = "offsite planning"
	sub.AppendDraft("Hi Alice", "friendly")
	session.Append(sessions.RoleUser, "hello")

	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if session.Version != 1 {
		t.Errorf("version after first save = %d, want 1", session.Version)
	}

	loaded, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Version != 1 {
		t.Errorf("loaded version = %d, want 1", loaded.Version)
	}
	if len(loaded.History) != 1 || loaded.History[0].Text != "hello" {
		t.Error("history did not survive the roundtrip")
	}

	active := loaded.Active()
	if active == nil || active.Title != "offsite planning" {
		t.Fatal("active subsession did not survive the roundtrip")
	}
	if active.CurrentDraft() == nil || active.CurrentDraft().Content != "Hi Alice" {
		t.Error("draft did not survive the roundtrip")
	}
}

func TestMemoryStoreVersionConflict(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()

	session := sessions.NewSession()
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	fresh, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := store.Save(ctx, fresh); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	stale := session
	if err := store.Save(ctx, stale); !errors.Is(err, sessions.ErrVersionConflict) {
		t.Fatalf("stale save err = %v, want ErrVersionConflict", err)
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	store := sessions.NewMemoryStore()

	_, err := store.Load(context.Background(), uuid.New())
	if !errors.Is(err, sessions.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()

	session := sessions.NewSession()
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := store.Delete(ctx, session.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Load(ctx, session.ID); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("load after delete err = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, session.ID); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreIsolatesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()

	session := sessions.NewSession()
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// Mutating the saved pointer must not leak into stored state.
	session.Append(sessions.RoleUser, "after save")

	loaded, err := store.Load(ctx, session.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(loaded.History) != 0 {
		t.Error("post-save mutation leaked into the store")
	}
}
