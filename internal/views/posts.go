package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mmynk/inkwell/internal/forms"
	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/paginator"
)

// Feed kinds select the template used for a FeedPage.
const (
	FeedIndex   = "posts/index"
	FeedGroup   = "posts/group_list"
	FeedProfile = "posts/profile"
)

// FeedPage is a paginated list of posts: the index, a group, or an author's profile.
type FeedPage struct {
	Kind    string
	Heading string

	// Group is set on group feeds.
	Group *models.Group

	// Author and AuthorPostCount are set on profile feeds.
	Author          *models.User
	AuthorPostCount int

	Posts *paginator.Page[*models.Post]
}

func (p *FeedPage) Template() string { return p.Kind }
func (p *FeedPage) Title() string    { return p.Heading }

func (p *FeedPage) Body() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(w)
		h.raw(`<section class="feed"><h1>`)
		h.text(p.Heading)
		h.raw(`</h1>`)
		if p.Group != nil && p.Group.Description != "" {
			h.raw(`<p class="group-description">`)
			h.text(p.Group.Description)
			h.raw(`</p>`)
		}
		if p.Author != nil {
			h.raw(`<p class="post-count">Posts: `)
			h.number(p.AuthorPostCount)
			h.raw(`</p>`)
		}
		if len(p.Posts.Items) == 0 {
			h.raw(`<p class="empty">No posts yet.</p>`)
		}
		for _, post := range p.Posts.Items {
			h.component(ctx, postCard(post, p.Kind != FeedGroup))
		}
		h.component(ctx, pagination(p.Posts.Window))
		h.raw(`</section>`)
		return h.err
	})
}

func postCard(post *models.Post, showGroup bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(w)
		h.raw(`<article class="post"><ul class="meta">`)
		if post.Author != nil {
			h.raw(`<li>Author: <a href="`)
			h.attr(ProfileURL(post.Author.Username))
			h.raw(`">`)
			h.text(post.Author.DisplayName())
			h.raw(`</a></li>`)
		}
		h.raw(`<li>Published: `)
		h.text(formatDate(post.CreatedAt))
		h.raw(`</li></ul><p>`)
		h.text(post.Text)
		h.raw(`</p><a href="`)
		h.attr(PostURL(post.ID))
		h.raw(`">details</a>`)
		if showGroup && post.Group != nil {
			h.raw(` <a href="`)
			h.attr(GroupURL(post.Group.Slug))
			h.raw(`">all posts in `)
			h.text(post.Group.Title)
			h.raw(`</a>`)
		}
		h.raw(`</article>`)
		return h.err
	})
}

func pagination(win paginator.Window) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !win.HasOtherPages() {
			return nil
		}
		h := newHTML(w)
		h.raw(`<nav class="pagination">`)
		if win.HasPrevious() {
			h.raw(`<a href="?page=1">first</a> <a href="?page=`)
			h.number(win.PreviousNumber())
			h.raw(`">previous</a> `)
		}
		h.raw(`<span class="current">Page `)
		h.number(win.Number)
		h.raw(` of `)
		h.number(win.NumPages)
		h.raw(`</span>`)
		if win.HasNext() {
			h.raw(` <a href="?page=`)
			h.number(win.NextNumber())
			h.raw(`">next</a> <a href="?page=`)
			h.number(win.NumPages)
			h.raw(`">last</a>`)
		}
		h.raw(`</nav>`)
		return h.err
	})
}

// PostDetailPage shows a single post.
type PostDetailPage struct {
	Post            *models.Post
	AuthorPostCount int
	CanEdit         bool
}

func (p *PostDetailPage) Template() string { return "posts/post_detail" }

// Title is the first 30 characters of the post.
func (p *PostDetailPage) Title() string { return p.Post.Excerpt(30) }

func (p *PostDetailPage) Body() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		post := p.Post
		h := newHTML(w)
		h.raw(`<article class="post-detail"><aside><ul><li>Published: `)
		h.text(formatDate(post.CreatedAt))
		h.raw(`</li>`)
		if post.Group != nil {
			h.raw(`<li>Group: <a href="`)
			h.attr(GroupURL(post.Group.Slug))
			h.raw(`">`)
			h.text(post.Group.Title)
			h.raw(`</a></li>`)
		}
		if post.Author != nil {
			h.raw(`<li>Author: `)
			h.text(post.Author.DisplayName())
			h.raw(`</li><li>Posts by author: `)
			h.number(p.AuthorPostCount)
			h.raw(`</li><li><a href="`)
			h.attr(ProfileURL(post.Author.Username))
			h.raw(`">all posts by this author</a></li>`)
		}
		h.raw(`</ul></aside><p>`)
		h.text(post.Text)
		h.raw(`</p>`)
		if p.CanEdit {
			h.raw(`<a class="edit" href="`)
			h.attr(PostEditURL(post.ID))
			h.raw(`">edit post</a>`)
		}
		h.raw(`</article>`)
		return h.err
	})
}

// PostFormPage is the create and edit form for a post.
type PostFormPage struct {
	Form   *forms.PostForm
	Groups []*models.Group

	// IsEdit and Post are set when editing an existing post.
	IsEdit bool
	Post   *models.Post
}

func (p *PostFormPage) Template() string { return "posts/create_post" }

func (p *PostFormPage) Title() string {
	if p.IsEdit {
		return "Edit post"
	}
	return "New post"
}

func (p *PostFormPage) Body() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		action := "/create/"
		submit := "Publish"
		if p.IsEdit && p.Post != nil {
			action = PostEditURL(p.Post.ID)
			submit = "Save"
		}

		h := newHTML(w)
		h.raw(`<section class="post-form"><h1>`)
		h.text(p.Title())
		h.raw(`</h1><form method="post" action="`)
		h.attr(action)
		h.raw(`">`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("")))

		h.raw(`<label for="id_text">Text</label><textarea name="text" id="id_text" required>`)
		h.text(p.Form.Text)
		h.raw(`</textarea>`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("text")))

		h.raw(`<label for="id_group">Group</label><select name="group" id="id_group"><option value="">---------</option>`)
		for _, g := range p.Groups {
			h.raw(`<option value="`)
			h.raw(strconv.FormatInt(g.ID, 10))
			h.raw(`"`)
			if p.Form.SelectedGroup(g.ID) {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(g.Title)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("group")))

		h.raw(`<button type="submit">`)
		h.text(submit)
		h.raw(`</button></form></section>`)
		return h.err
	})
}

func fieldErrors(messages []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(messages) == 0 {
			return nil
		}
		h := newHTML(w)
		h.raw(`<ul class="errorlist">`)
		for _, m := range messages {
			h.raw(`<li>`)
			h.text(m)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		return h.err
	})
}
