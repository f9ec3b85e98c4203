// Package views renders HTML pages with templ components.
//
// Handlers build a Page value (the data a template needs) and hand it to a
// Renderer. The HTML renderer wraps the page body in the shared layout.
package views

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mmynk/inkwell/internal/middleware"
	"github.com/mmynk/inkwell/internal/models"
)

// Page is the data behind one rendered page.
type Page interface {
	// Template names the page layout, e.g. "posts/index".
	Template() string

	// Title is the document title.
	Title() string

	// Body renders the page content inside the layout.
	Body() templ.Component
}

// Renderer writes a page as the response.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, page Page)
}

// HTMLRenderer renders pages inside the site layout.
type HTMLRenderer struct {
	logger *slog.Logger
}

// NewHTMLRenderer creates a renderer that logs render failures to logger.
func NewHTMLRenderer(logger *slog.Logger) *HTMLRenderer {
	return &HTMLRenderer{logger: logger}
}

// Render buffers the full document so a failed render can still become a 500.
func (h *HTMLRenderer) Render(w http.ResponseWriter, r *http.Request, status int, page Page) {
	if status <= 0 {
		status = http.StatusOK
	}
	viewer := middleware.CurrentUser(r.Context())

	var buf bytes.Buffer
	if err := Layout(page.Title(), viewer, page.Body()).Render(r.Context(), &buf); err != nil {
		h.logger.Error("Render failed", "template", page.Template(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Layout wraps body in the site chrome: header navigation and footer.
func Layout(title string, viewer *models.User, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(w)
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title></head><body><header><nav><a href="/">Inkwell</a>`)
		if viewer != nil {
			h.raw(`<a href="/create/">New post</a>`)
			h.raw(`<a href="`)
			h.attr(ProfileURL(viewer.Username))
			h.raw(`">`)
			h.text(viewer.Username)
			h.raw(`</a><form method="post" action="/auth/logout/"><button type="submit">Log out</button></form>`)
		} else {
			h.raw(`<a href="/auth/login/">Log in</a><a href="/auth/signup/">Sign up</a>`)
		}
		h.raw(`</nav></header><main>`)
		h.component(ctx, body)
		h.raw(`</main><footer>Inkwell</footer></body></html>`)
		return h.err
	})
}
