package views

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// html writes markup and stops at the first write error.
type html struct {
	w   io.Writer
	err error
}

func newHTML(w io.Writer) *html {
	return &html{w: w}
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped for element content.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes s escaped for a quoted attribute value.
func (h *html) attr(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) number(n int) {
	h.raw(strconv.Itoa(n))
}

func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// ProfileURL is the feed of posts written by username.
func ProfileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

// GroupURL is the feed of posts in the group with slug.
func GroupURL(slug string) string {
	return "/group/" + url.PathEscape(slug) + "/"
}

// PostURL is the detail page of a post.
func PostURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/"
}

// PostEditURL is the edit form of a post.
func PostEditURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10) + "/edit/"
}

func formatDate(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2 January 2006")
}
