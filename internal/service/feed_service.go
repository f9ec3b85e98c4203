package service

import (
	"log/slog"
	"net/http"

	"github.com/mmynk/inkwell/internal/paginator"
	"github.com/mmynk/inkwell/internal/storage"
	"github.com/mmynk/inkwell/internal/views"
)

// FeedService serves the paginated post feeds: index, group and profile.
// All handlers are read-only.
type FeedService struct {
	store    storage.Store
	renderer views.Renderer
	pageSize int
	logger   *slog.Logger
}

// NewFeedService creates a FeedService showing pageSize posts per page.
func NewFeedService(store storage.Store, renderer views.Renderer, pageSize int, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:    store,
		renderer: renderer,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Index shows every post, newest first.
func (s *FeedService) Index(w http.ResponseWriter, r *http.Request) {
	page, err := s.store.ListPosts(r.Context(), storage.PostFilter{}, s.pageSize, pageNumber(r))
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	s.renderer.Render(w, r, http.StatusOK, &views.FeedPage{
		Kind:    views.FeedIndex,
		Heading: "Latest updates",
		Posts:   page,
	})
}

// GroupPosts shows the posts filed under the group named by {slug}.
func (s *FeedService) GroupPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	group, err := s.store.GetGroupBySlug(ctx, r.PathValue("slug"))
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	page, err := s.store.ListPosts(ctx, storage.ByGroup(group.ID), s.pageSize, pageNumber(r))
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	s.renderer.Render(w, r, http.StatusOK, &views.FeedPage{
		Kind:    views.FeedGroup,
		Heading: "Posts in " + group.Title,
		Group:   group,
		Posts:   page,
	})
}

// Profile shows the posts written by the user named by {username}.
func (s *FeedService) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	author, err := s.store.GetUserByUsername(ctx, r.PathValue("username"))
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	page, err := s.store.ListPosts(ctx, storage.ByAuthor(author.ID), s.pageSize, pageNumber(r))
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	s.renderer.Render(w, r, http.StatusOK, &views.FeedPage{
		Kind:            views.FeedProfile,
		Heading:         "Profile of " + author.DisplayName(),
		Author:          author,
		AuthorPostCount: page.Total,
		Posts:           page,
	})
}

func pageNumber(r *http.Request) int {
	return paginator.ParseNumber(r.URL.Query().Get("page"))
}
