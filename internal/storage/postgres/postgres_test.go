package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/storage"
)

// newTestStore connects to INKWELL_TEST_DATABASE_URL and skips when it is unset.
func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("INKWELL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("INKWELL_TEST_DATABASE_URL not set")
	}
	store, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Tests share one database, so every name is unique per run.
	suffix := uuid.New().String()[:8]

	author := models.NewUser("pg-"+suffix, "", "", "hash")
	if err := store.CreateUser(ctx, author); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := store.CreateUser(ctx, models.NewUser("pg-"+suffix, "", "", "hash")); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}

	group := &models.Group{Title: "PG", Slug: "pg-" + suffix}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	for i := 1; i <= 13; i++ {
		post := &models.Post{Text: fmt.Sprintf("post %d", i), AuthorID: author.ID, GroupID: &group.ID, CreatedAt: int64(i)}
		if err := store.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
	}

	t.Run("pagination clamps past the last page", func(t *testing.T) {
		page, err := store.ListPosts(ctx, storage.ByGroup(group.ID), 10, 3)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		if page.Number != 2 || len(page.Items) != 3 {
			t.Errorf("got number=%d len=%d, want 2 and 3", page.Number, len(page.Items))
		}
	})

	t.Run("delete group keeps posts", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		n, err := store.CountPosts(ctx, storage.ByAuthor(author.ID))
		if err != nil {
			t.Fatalf("CountPosts failed: %v", err)
		}
		if n != 13 {
			t.Errorf("CountPosts = %d, want 13", n)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		if _, err := store.GetPost(ctx, -1); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
