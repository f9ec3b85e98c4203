package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "inkwell-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, username string) *models.User {
	t.Helper()
	user := models.NewUser(username, "", "", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", username, err)
	}
	return user
}

func mustCreateGroup(t *testing.T, store *SQLiteStore, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug}
	if err := store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup(%s) failed: %v", slug, err)
	}
	return group
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	author := mustCreateUser(t, store, "leo")
	group := mustCreateGroup(t, store, "cats")

	t.Run("CreateUser rejects duplicate username", func(t *testing.T) {
		dup := models.NewUser("leo", "", "", "hash")
		err := store.CreateUser(ctx, dup)
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("GetUserByUsername returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByUsername(ctx, "nobody")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("GetUserByID round trip", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, author.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Username != "leo" {
			t.Errorf("Username mismatch: got %s, want leo", got.Username)
		}
	})

	t.Run("CreateGroup rejects duplicate slug", func(t *testing.T) {
		err := store.CreateGroup(ctx, &models.Group{Title: "Other", Slug: "cats"})
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("CreatePost generates ID and timestamp", func(t *testing.T) {
		post := &models.Post{Text: "hello", AuthorID: author.ID, GroupID: &group.ID}
		if err := store.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
		if post.ID == 0 {
			t.Error("Expected post ID to be generated")
		}
		if post.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetPost(ctx, post.ID)
		if err != nil {
			t.Fatalf("GetPost failed: %v", err)
		}
		if got.Text != "hello" {
			t.Errorf("Text mismatch: got %s, want hello", got.Text)
		}
		if got.Author == nil || got.Author.Username != "leo" {
			t.Errorf("Expected author leo, got %+v", got.Author)
		}
		if got.Group == nil || got.Group.Slug != "cats" {
			t.Errorf("Expected group cats, got %+v", got.Group)
		}
	})

	t.Run("CreatePost rejects unknown group", func(t *testing.T) {
		missing := int64(9999)
		before, _ := store.CountPosts(ctx, storage.PostFilter{})
		err := store.CreatePost(ctx, &models.Post{Text: "orphan", AuthorID: author.ID, GroupID: &missing})
		if !errors.Is(err, storage.ErrInvalidReference) {
			t.Fatalf("Expected ErrInvalidReference, got %v", err)
		}
		after, _ := store.CountPosts(ctx, storage.PostFilter{})
		if after != before {
			t.Errorf("Post count changed: %d -> %d", before, after)
		}
	})

	t.Run("GetPost returns ErrNotFound for nonexistent post", func(t *testing.T) {
		_, err := store.GetPost(ctx, 424242)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpdatePostKeepsAuthorAndCreatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	author := mustCreateUser(t, store, "author")
	other := mustCreateUser(t, store, "other")
	group := mustCreateGroup(t, store, "news")

	post := &models.Post{Text: "before", AuthorID: author.ID, CreatedAt: 1000}
	if err := store.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	post.Text = "after"
	post.GroupID = &group.ID
	post.AuthorID = other.ID // ignored by UpdatePost
	post.CreatedAt = 2000    // ignored by UpdatePost
	if err := store.UpdatePost(ctx, post); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}

	got, err := store.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Text != "after" {
		t.Errorf("Text = %q, want after", got.Text)
	}
	if got.GroupID == nil || *got.GroupID != group.ID {
		t.Errorf("GroupID = %v, want %d", got.GroupID, group.ID)
	}
	if got.AuthorID != author.ID {
		t.Errorf("AuthorID changed: got %s, want %s", got.AuthorID, author.ID)
	}
	if got.CreatedAt != 1000 {
		t.Errorf("CreatedAt changed: got %d, want 1000", got.CreatedAt)
	}

	got.GroupID = nil
	if err := store.UpdatePost(ctx, got); err != nil {
		t.Fatalf("UpdatePost clearing group failed: %v", err)
	}
	cleared, _ := store.GetPost(ctx, post.ID)
	if cleared.GroupID != nil || cleared.Group != nil {
		t.Errorf("Expected group cleared, got %v", cleared.GroupID)
	}

	err = store.UpdatePost(ctx, &models.Post{ID: 77777, Text: "x"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating missing post, got %v", err)
	}
}

func TestListPosts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")
	group := mustCreateGroup(t, store, "go")

	// 13 posts by alice in the group, 2 by bob without a group.
	for i := 1; i <= 13; i++ {
		post := &models.Post{Text: fmt.Sprintf("alice %d", i), AuthorID: alice.ID, GroupID: &group.ID, CreatedAt: int64(i)}
		if err := store.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
	}
	for i := 1; i <= 2; i++ {
		post := &models.Post{Text: fmt.Sprintf("bob %d", i), AuthorID: bob.ID, CreatedAt: int64(100 + i)}
		if err := store.CreatePost(ctx, post); err != nil {
			t.Fatalf("CreatePost failed: %v", err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		page, err := store.ListPosts(ctx, storage.PostFilter{}, 10, 1)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		if page.Total != 15 {
			t.Errorf("Total = %d, want 15", page.Total)
		}
		if page.Items[0].Text != "bob 2" {
			t.Errorf("First item = %q, want bob 2", page.Items[0].Text)
		}
		for i := 1; i < len(page.Items); i++ {
			if page.Items[i-1].CreatedAt < page.Items[i].CreatedAt {
				t.Fatalf("Items not ordered newest first at %d", i)
			}
		}
	})

	t.Run("group feed paginates 13 posts by 10", func(t *testing.T) {
		filter := storage.ByGroup(group.ID)

		first, err := store.ListPosts(ctx, filter, 10, 1)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		if len(first.Items) != 10 || first.NumPages != 2 || !first.HasNext() {
			t.Errorf("page 1: len=%d pages=%d hasNext=%v", len(first.Items), first.NumPages, first.HasNext())
		}

		second, err := store.ListPosts(ctx, filter, 10, 2)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		if len(second.Items) != 3 {
			t.Errorf("page 2: len=%d, want 3", len(second.Items))
		}

		third, err := store.ListPosts(ctx, filter, 10, 3)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		if third.Number != 2 || len(third.Items) != 3 {
			t.Errorf("page 3: number=%d len=%d, want clamped to page 2", third.Number, len(third.Items))
		}
		for i := range third.Items {
			if third.Items[i].ID != second.Items[i].ID {
				t.Errorf("page 3 item %d = %d, want %d", i, third.Items[i].ID, second.Items[i].ID)
			}
		}
	})

	t.Run("author filter", func(t *testing.T) {
		page, err := store.ListPosts(ctx, storage.ByAuthor(bob.ID), 10, 1)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		if page.Total != 2 {
			t.Errorf("Total = %d, want 2", page.Total)
		}
		for _, p := range page.Items {
			if p.AuthorID != bob.ID {
				t.Errorf("Unexpected author %s", p.AuthorID)
			}
		}
	})

	t.Run("empty feed is a single empty page", func(t *testing.T) {
		empty := mustCreateGroup(t, store, "empty")
		page, err := store.ListPosts(ctx, storage.ByGroup(empty.ID), 10, 4)
		if err != nil {
			t.Fatalf("ListPosts failed: %v", err)
		}
		if page.Number != 1 || page.NumPages != 1 || len(page.Items) != 0 {
			t.Errorf("got number=%d pages=%d len=%d", page.Number, page.NumPages, len(page.Items))
		}
	})
}

func TestDeleteGroupKeepsPosts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	author := mustCreateUser(t, store, "keeper")
	group := mustCreateGroup(t, store, "doomed")

	post := &models.Post{Text: "survivor", AuthorID: author.ID, GroupID: &group.ID}
	if err := store.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	if err := store.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	got, err := store.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("Post should survive group deletion: %v", err)
	}
	if got.GroupID != nil {
		t.Errorf("Expected group cleared, got %d", *got.GroupID)
	}

	if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}
