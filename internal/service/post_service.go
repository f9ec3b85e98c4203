package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/inkwell/internal/forms"
	"github.com/mmynk/inkwell/internal/middleware"
	"github.com/mmynk/inkwell/internal/models"
	"github.com/mmynk/inkwell/internal/storage"
	"github.com/mmynk/inkwell/internal/views"
)

// PostService serves single posts: detail, create and edit.
type PostService struct {
	store    storage.Store
	renderer views.Renderer
	logger   *slog.Logger
}

// NewPostService creates a new PostService with the given storage backend.
func NewPostService(store storage.Store, renderer views.Renderer, logger *slog.Logger) *PostService {
	return &PostService{
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// Detail shows the post named by {id}.
func (s *PostService) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}
	count, err := s.store.CountPosts(ctx, storage.ByAuthor(post.AuthorID))
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	s.renderer.Render(w, r, http.StatusOK, &views.PostDetailPage{
		Post:            post,
		AuthorPostCount: count,
		CanEdit:         post.IsAuthoredBy(middleware.CurrentUser(ctx)),
	})
}

// Create shows the new post form and publishes submitted posts.
// The author is always the signed-in user. Must be wrapped in middleware.RequireAuth.
func (s *PostService) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.CurrentUser(ctx)

	form := forms.NewPostForm(nil)
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			form.Errors.Add("", "The submitted form could not be read.")
			s.renderForm(w, r, http.StatusBadRequest, form, nil)
			return
		}
		form = forms.BindPostForm(r.PostForm)

		valid, err := form.Validate(ctx, s.store)
		if err != nil {
			writeError(w, r, s.renderer, s.logger, err)
			return
		}
		if valid {
			post := &models.Post{AuthorID: user.ID}
			form.Apply(post)

			err := s.store.CreatePost(ctx, post)
			switch {
			case err == nil:
				s.logger.Info("Post created", "post_id", post.ID, "user_id", user.ID)
				http.Redirect(w, r, views.ProfileURL(user.Username), http.StatusFound)
				return
			case errors.Is(err, storage.ErrInvalidReference):
				// The group disappeared between validation and insert.
				form.Errors.Add("group", "Select a valid choice. That choice is not one of the available choices.")
			default:
				writeError(w, r, s.renderer, s.logger, err)
				return
			}
		}
		s.logger.Debug("Post form rejected", "user_id", user.ID, "errors", form.Errors.Error())
	}

	s.renderForm(w, r, http.StatusOK, form, nil)
}

// Edit shows and saves the edit form for the post named by {id}.
//
// Only the author may edit. Anyone else is redirected to the post's detail
// page whatever the method, and nothing is written. Must be wrapped in
// middleware.RequireAuth.
func (s *PostService) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.CurrentUser(ctx)

	id, err := parsePostID(r)
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	if !post.IsAuthoredBy(user) {
		s.logger.Info("Edit refused for non-author", "post_id", post.ID, "user_id", user.ID, "method", r.Method)
		http.Redirect(w, r, views.PostURL(post.ID), http.StatusFound)
		return
	}

	if r.Method != http.MethodPost {
		s.renderForm(w, r, http.StatusOK, forms.NewPostForm(post), post)
		return
	}

	if err := r.ParseForm(); err != nil {
		form := forms.NewPostForm(post)
		form.Errors.Add("", "The submitted form could not be read.")
		s.renderForm(w, r, http.StatusBadRequest, form, post)
		return
	}
	form := forms.BindPostForm(r.PostForm)

	valid, err := form.Validate(ctx, s.store)
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}
	if valid {
		updated := *post
		form.Apply(&updated)
		err := s.store.UpdatePost(ctx, &updated)
		switch {
		case err == nil:
			s.logger.Info("Post updated", "post_id", post.ID, "user_id", user.ID)
			http.Redirect(w, r, views.PostURL(post.ID), http.StatusFound)
			return
		case errors.Is(err, storage.ErrInvalidReference):
			form.Errors.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		default:
			writeError(w, r, s.renderer, s.logger, err)
			return
		}
	}

	s.renderForm(w, r, http.StatusOK, form, post)
}

// renderForm shows the post form. post is nil when creating.
func (s *PostService) renderForm(w http.ResponseWriter, r *http.Request, status int, form *forms.PostForm, post *models.Post) {
	groups, err := s.store.ListGroups(r.Context())
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}
	s.renderer.Render(w, r, status, &views.PostFormPage{
		Form:   form,
		Groups: groups,
		IsEdit: post != nil,
		Post:   post,
	})
}
