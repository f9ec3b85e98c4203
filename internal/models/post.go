package models

// Post represents a single piece of text written by a User.
type Post struct {
	// ID is the store-assigned identifier for the post.
	ID int64

	// Text is the post body. Never empty.
	Text string

	// CreatedAt is the Unix timestamp when the post was created.
	// Set by the store on creation and never updated.
	CreatedAt int64

	// AuthorID references the User who wrote the post.
	// Set on creation and never reassigned.
	AuthorID string

	// GroupID optionally references the Group the post is filed under.
	// Nil means the post has no group.
	GroupID *int64

	// Author and Group are hydrated by the store when reading posts.
	// They are ignored on writes.
	Author *User
	Group  *Group
}

// IsAuthoredBy reports whether the user wrote the post.
func (p *Post) IsAuthoredBy(user *User) bool {
	return user != nil && user.ID != "" && user.ID == p.AuthorID
}

// Excerpt returns at most n runes of the post text.
func (p *Post) Excerpt(n int) string {
	runes := []rune(p.Text)
	if len(runes) <= n {
		return p.Text
	}
	return string(runes[:n])
}
