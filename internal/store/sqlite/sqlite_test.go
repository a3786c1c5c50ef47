package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/chatroom-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "id-1", "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.ID != "id-1" || created.Username != "alice" || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected user: %+v", created)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName.ID != "id-1" || byName.PasswordHash != "hash" {
		t.Fatalf("unexpected user by name: %+v", byName)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "id-1", "alice", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := s.CreateUser(ctx, "id-2", "alice", "other")
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		get  func() error
	}{
		{name: "by id", get: func() error { _, err := s.GetUserByID(ctx, "nope"); return err }},
		{name: "by username", get: func() error { _, err := s.GetUserByUsername(ctx, "nope"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.get(); !errors.Is(err, store.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}
