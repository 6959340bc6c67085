package memory

import (
	"testing"

	"discharge-assist-be/pkg/store"
)

func TestSessionRepositorySaveAndGet(t *testing.T) {
	repo := NewSessionRepository()
	session := store.NewSession()
	session.Turns = append(session.Turns, store.Turn{Role: store.RoleUser, Text: "hi"})

	repo.Save(session)

	got, found := repo.Get(session.ID)
	if !found {
		t.Fatalf("session %s not found after Save", session.ID)
	}
	if got != session {
		t.Error("Get must return the stored session instance")
	}

	if _, found := repo.Get("missing"); found {
		t.Error("unknown id must not be found")
	}
}

func TestSessionRepositoryNeverExpires(t *testing.T) {
	repo := NewSessionRepository()
	session := store.NewSession()

	repo.Save(session)

	_, expiration, found := repo.cache.GetWithExpiration(session.ID)
	if !found {
		t.Fatalf("session %s not found after Save", session.ID)
	}
	if !expiration.IsZero() {
		t.Errorf("session is scheduled to expire at %v; sessions must survive the process lifetime", expiration)
	}
}

func TestSessionRepositoryDelete(t *testing.T) {
	repo := NewSessionRepository()
	session := store.NewSession()

	repo.Save(session)
	repo.Delete(session.ID)

	if _, found := repo.Get(session.ID); found {
		t.Error("session still present after Delete")
	}
}
