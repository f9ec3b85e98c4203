package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/storage"
)

func TestStoreCopiesRecords(t *testing.T) {
	ctx := context.Background()
	s := New()

	user := models.NewUser("ann", "", "", "hash")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	post := &models.Post{Text: "original", AuthorID: user.ID}
	if err := s.CreatePost(ctx, post); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}

	got, _ := s.GetPost(ctx, post.ID)
	got.Text = "mutated"

	again, _ := s.GetPost(ctx, post.ID)
	if again.Text != "original" {
		t.Errorf("store returned shared record: %q", again.Text)
	}
}

func TestStoreUpdateIgnoresAuthor(t *testing.T) {
	ctx := context.Background()
	s := New()

	author := models.NewUser("author", "", "", "hash")
	other := models.NewUser("other", "", "", "hash")
	_ = s.CreateUser(ctx, author)
	_ = s.CreateUser(ctx, other)

	post := &models.Post{Text: "x", AuthorID: author.ID, CreatedAt: 5}
	_ = s.CreatePost(ctx, post)

	if err := s.UpdatePost(ctx, &models.Post{ID: post.ID, Text: "y", AuthorID: other.ID, CreatedAt: 9}); err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	got, _ := s.GetPost(ctx, post.ID)
	if got.AuthorID != author.ID || got.CreatedAt != 5 || got.Text != "y" {
		t.Errorf("unexpected post after update: %+v", got)
	}
}

func TestStoreDeleteGroupClearsPosts(t *testing.T) {
	ctx := context.Background()
	s := New()

	user := models.NewUser("u", "", "", "hash")
	_ = s.CreateUser(ctx, user)
	group := &models.Group{Title: "G", Slug: "g"}
	_ = s.CreateGroup(ctx, group)
	post := &models.Post{Text: "x", AuthorID: user.ID, GroupID: &group.ID}
	_ = s.CreatePost(ctx, post)

	if err := s.DeleteGroup(ctx, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	got, err := s.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.GroupID != nil {
		t.Errorf("expected group cleared")
	}

	n, _ := s.CountPosts(ctx, storage.ByGroup(group.ID))
	if n != 0 {
		t.Errorf("CountPosts by deleted group = %d, want 0", n)
	}
}

func TestStoreRejectsUnknownGroup(t *testing.T) {
	ctx := context.Background()
	s := New()

	user := models.NewUser("u", "", "", "hash")
	_ = s.CreateUser(ctx, user)
	missing := int64(3)
	err := s.CreatePost(ctx, &models.Post{Text: "x", AuthorID: user.ID, GroupID: &missing})
	if !errors.Is(err, storage.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}
