package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"

	"github.com/mmynk/inkwell/internal/auth"
	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/storage"
)

type cli struct {
	store  storage.Store
	out    io.Writer
	logger *slog.Logger
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func createGroup(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("group create")
	title := fs.String("title", "", "group title (required)")
	groupSlug := fs.String("slug", "", "URL slug, derived from the title when empty")
	description := fs.String("description", "", "group description")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	t := strings.TrimSpace(*title)
	if t == "" {
		return fmt.Errorf("%w: --title is required", errUsage)
	}
	s := *groupSlug
	if s == "" {
		s = slug.Make(t)
	}
	if !slug.IsSlug(s) {
		return fmt.Errorf("invalid slug %q", s)
	}

	group := &models.Group{Title: t, Slug: s, Description: *description}
	if err := c.store.CreateGroup(ctx, group); err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	c.logger.Info("Group created", "group_id", group.ID, "slug", group.Slug)
	fmt.Fprintf(c.out, "created group %d /group/%s/\n", group.ID, group.Slug)
	return nil
}

func deleteGroup(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("group delete")
	groupSlug := fs.String("slug", "", "slug of the group to delete (required)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *groupSlug == "" {
		return fmt.Errorf("%w: --slug is required", errUsage)
	}

	group, err := c.store.GetGroupBySlug(ctx, *groupSlug)
	if err != nil {
		return fmt.Errorf("failed to find group: %w", err)
	}
	if err := c.store.DeleteGroup(ctx, group.ID); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	c.logger.Info("Group deleted", "group_id", group.ID, "slug", group.Slug)
	fmt.Fprintf(c.out, "deleted group %s\n", group.Slug)
	return nil
}

func createUser(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("user create")
	username := fs.String("username", "", "username (required)")
	password := fs.String("password", "", "password, at least 8 characters (required)")
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *username == "" || *password == "" {
		return fmt.Errorf("%w: --username and --password are required", errUsage)
	}

	authenticator := auth.NewPasswordAuthenticator(c.store)
	user, err := authenticator.Register(ctx, *username, *firstName, *lastName, *password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	c.logger.Info("User created", "user_id", user.ID, "username", user.Username)
	fmt.Fprintf(c.out, "created user %s\n", user.Username)
	return nil
}

// seed writes demo posts for an existing author, cycling through the groups
// and leaving every few posts ungrouped.
func seed(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("seed")
	count := fs.Int("posts", 25, "number of posts to create")
	username := fs.String("author", "", "username of the author (required)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *username == "" {
		return fmt.Errorf("%w: --author is required", errUsage)
	}
	if *count < 1 {
		return fmt.Errorf("%w: --posts must be positive", errUsage)
	}

	author, err := c.store.GetUserByUsername(ctx, *username)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no user %q; create one with 'blogctl user create'", *username)
	}
	if err != nil {
		return fmt.Errorf("failed to find author: %w", err)
	}
	groups, err := c.store.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	for i := 1; i <= *count; i++ {
		post := &models.Post{
			Text:     fmt.Sprintf("Demo post %d by %s", i, author.DisplayName()),
			AuthorID: author.ID,
		}
		if len(groups) > 0 && i%4 != 0 {
			post.GroupID = &groups[i%len(groups)].ID
		}
		if err := c.store.CreatePost(ctx, post); err != nil {
			return fmt.Errorf("failed to create post %d: %w", i, err)
		}
	}
	c.logger.Info("Seeded posts", "count", *count, "author", author.Username)
	fmt.Fprintf(c.out, "created %d posts\n", *count)
	return nil
}
