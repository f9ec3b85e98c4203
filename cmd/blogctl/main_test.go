package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/inkwell/internal/storage"
	"github.com/mmynk/inkwell/internal/storage/backend"
)

func TestBlogctl(t *testing.T) {
	ctx := context.Background()
	opts := backend.Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "blog.db")}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	exec := func(t *testing.T, args ...string) (string, error) {
		t.Helper()
		var out bytes.Buffer
		err := run(ctx, opts, args, &out, logger)
		return out.String(), err
	}

	t.Run("group create derives the slug", func(t *testing.T) {
		out, err := exec(t, "group", "create", "--title", "Cats & Dogs", "--description", "Pets")
		require.NoError(t, err)
		assert.Contains(t, out, "/group/cats-and-dogs/")
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		_, err := exec(t, "group", "create", "--title", "Other", "--slug", "cats-and-dogs")
		assert.True(t, errors.Is(err, storage.ErrConflict), "got %v", err)
	})

	t.Run("user create", func(t *testing.T) {
		out, err := exec(t, "user", "create", "--username", "leo", "--password", "long-enough-pw", "--first-name", "Leo")
		require.NoError(t, err)
		assert.Equal(t, "created user leo\n", out)
	})

	t.Run("seed", func(t *testing.T) {
		out, err := exec(t, "seed", "--posts", "7", "--author", "leo")
		require.NoError(t, err)
		assert.Equal(t, "created 7 posts\n", out)

		_, err = exec(t, "seed", "--author", "nobody")
		assert.ErrorContains(t, err, "nobody")
	})

	t.Run("group delete keeps posts", func(t *testing.T) {
		_, err := exec(t, "group", "delete", "--slug", "cats-and-dogs")
		require.NoError(t, err)

		store, err := backend.Open(ctx, opts)
		require.NoError(t, err)
		defer store.Close()

		_, err = store.GetGroupBySlug(ctx, "cats-and-dogs")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		n, err := store.CountPosts(ctx, storage.PostFilter{})
		require.NoError(t, err)
		assert.Equal(t, 7, n)
	})

	t.Run("usage errors", func(t *testing.T) {
		for _, args := range [][]string{
			nil,
			{"frobnicate"},
			{"group"},
			{"group", "create"},
			{"group", "delete"},
			{"user", "create", "--username", "x"},
			{"seed", "--posts", "0", "--author", "leo"},
		} {
			_, err := exec(t, args...)
			assert.ErrorIs(t, err, errUsage, "args %v", args)
		}
	})
}
