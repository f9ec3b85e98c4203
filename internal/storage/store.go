// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/paginator"
)

var (
	// ErrNotFound is returned when a user, group or post does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique field (username, slug) is already taken.
	ErrConflict = errors.New("already exists")

	// ErrInvalidReference is returned when a post references a group that does not exist.
	ErrInvalidReference = errors.New("invalid reference")
)

// PostFilter narrows a post listing. The zero value matches every post.
type PostFilter struct {
	// GroupID restricts the listing to posts filed under the group.
	GroupID *int64

	// AuthorID restricts the listing to posts written by the user.
	AuthorID string
}

// ByGroup returns a filter matching the group's posts.
func ByGroup(groupID int64) PostFilter {
	return PostFilter{GroupID: &groupID}
}

// ByAuthor returns a filter matching the user's posts.
func ByAuthor(userID string) PostFilter {
	return PostFilter{AuthorID: userID}
}

// Store defines the interface for blog storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, in-memory)
// without changing the handler layer.
//
// Lookups return an error wrapping ErrNotFound when the record does not exist.
type Store interface {
	// CreateUser persists a new user. Returns ErrConflict if the username is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateGroup persists a new group and populates group.ID and group.CreatedAt.
	// Returns ErrConflict if the slug is taken.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, id int64) (*models.Group, error)

	// GetGroupBySlug retrieves a group by slug.
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)

	// ListGroups returns all groups ordered by title.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes a group. Its posts are kept with their group cleared.
	DeleteGroup(ctx context.Context, id int64) error

	// CreatePost persists a new post and populates post.ID and post.CreatedAt.
	// Returns ErrInvalidReference if post.GroupID names a missing group.
	CreatePost(ctx context.Context, post *models.Post) error

	// GetPost retrieves a post by ID with Author and Group hydrated.
	GetPost(ctx context.Context, id int64) (*models.Post, error)

	// UpdatePost saves the post's Text and GroupID.
	// AuthorID and CreatedAt are never written.
	UpdatePost(ctx context.Context, post *models.Post) error

	// CountPosts returns the number of posts matching the filter.
	CountPosts(ctx context.Context, filter PostFilter) (int, error)

	// ListPosts returns one page of posts matching the filter, newest first.
	// number is the requested 1-indexed page; out-of-range values are clamped
	// to the last page.
	ListPosts(ctx context.Context, filter PostFilter, size, number int) (*paginator.Page[*models.Post], error)

	// Close releases any resources held by the store.
	Close() error
}
