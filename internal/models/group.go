package models

// Group represents a community that posts can be filed under.
// Groups are created out of band (see cmd/blogctl) and are addressed by slug.
type Group struct {
	// ID is the store-assigned identifier for the group.
	ID int64

	// Title is the human-readable name (e.g., "Go Programming").
	Title string

	// Slug is the unique, URL-safe identifier (e.g., "go-programming").
	Slug string

	// Description is an optional blurb shown on the group feed.
	Description string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
