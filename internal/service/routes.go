package service

import (
	"log/slog"
	"net/http"

	"github.com/mmynk/inkwell/internal/auth"
	"github.com/mmynk/inkwell/internal/middleware"
	"github.com/mmynk/inkwell/internal/storage"
	"github.com/mmynk/inkwell/internal/views"
)

// Dependencies are the collaborators the HTTP handlers need.
type Dependencies struct {
	Store         storage.Store
	Renderer      views.Renderer
	Authenticator auth.Authenticator
	Sessions      *middleware.Sessions
	PageSize      int
	Logger        *slog.Logger

	// Metrics and MetricsHandler are optional.
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}

// NewHandler builds the routing table and wraps it in the middleware chain:
// sessions, then request logging, then metrics.
func NewHandler(deps Dependencies) http.Handler {
	feeds := NewFeedService(deps.Store, deps.Renderer, deps.PageSize, deps.Logger)
	posts := NewPostService(deps.Store, deps.Renderer, deps.Logger)
	accounts := NewAuthService(deps.Authenticator, deps.Sessions, deps.Renderer, deps.Logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", feeds.Index)
	mux.HandleFunc("GET /group/{slug}/{$}", feeds.GroupPosts)
	mux.HandleFunc("GET /profile/{username}/{$}", feeds.Profile)

	mux.HandleFunc("GET /posts/{id}/{$}", posts.Detail)
	mux.HandleFunc("GET /create/{$}", middleware.RequireAuth(posts.Create))
	mux.HandleFunc("POST /create/{$}", middleware.RequireAuth(posts.Create))
	mux.HandleFunc("GET /posts/{id}/edit/{$}", middleware.RequireAuth(posts.Edit))
	mux.HandleFunc("POST /posts/{id}/edit/{$}", middleware.RequireAuth(posts.Edit))

	mux.HandleFunc("GET /auth/login/{$}", accounts.Login)
	mux.HandleFunc("POST /auth/login/{$}", accounts.Login)
	mux.HandleFunc("POST /auth/logout/{$}", accounts.Logout)
	mux.HandleFunc("GET /auth/signup/{$}", accounts.Signup)
	mux.HandleFunc("POST /auth/signup/{$}", accounts.Signup)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if deps.MetricsHandler != nil {
		mux.Handle("GET /metrics", deps.MetricsHandler)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		deps.Renderer.Render(w, r, http.StatusNotFound, &views.ErrorPage{Status: http.StatusNotFound})
	})

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = deps.Metrics.Middleware(handler)
	}
	handler = middleware.Logging(deps.Logger)(handler)
	return deps.Sessions.Middleware(handler)
}
