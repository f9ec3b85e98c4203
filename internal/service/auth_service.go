package service

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmynk/inkwell/internal/auth"
	"github.com/mmynk/inkwell/internal/forms"
	"github.com/mmynk/inkwell/internal/middleware"
	"github.com/mmynk/inkwell/internal/views"
)

// AuthService serves the login, logout and signup pages.
type AuthService struct {
	authenticator auth.Authenticator
	sessions      *middleware.Sessions
	renderer      views.Renderer
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, sessions *middleware.Sessions, renderer views.Renderer, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		renderer:      renderer,
		logger:        logger,
	}
}

// Login shows the login form and signs users in.
// After signing in the user is sent to the "next" parameter when it is a local path.
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		form := &forms.LoginForm{Next: r.URL.Query().Get("next"), Errors: forms.Errors{}}
		s.renderer.Render(w, r, http.StatusOK, &views.LoginPage{Form: form})
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}
	form := forms.BindLoginForm(r.PostForm)
	if !form.Validate() {
		s.renderer.Render(w, r, http.StatusOK, &views.LoginPage{Form: form})
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.logger.Warn("Login failed", "username", form.Username)
		form.Errors.Add("", "Please enter a correct username and password.")
		s.renderer.Render(w, r, http.StatusOK, &views.LoginPage{Form: form})
		return
	}
	if err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	if err := s.sessions.Start(w, user); err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	s.logger.Info("User logged in", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, safeNext(form.Next), http.StatusFound)
}

// Logout clears the session.
func (s *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	if user := middleware.CurrentUser(r.Context()); user != nil {
		s.logger.Info("User logged out", "user_id", user.ID)
	}
	s.sessions.End(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Signup shows the registration form, creates the account and signs the user in.
func (s *AuthService) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.renderer.Render(w, r, http.StatusOK, &views.SignupPage{Form: forms.BindSignupForm(url.Values{})})
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}
	form := forms.BindSignupForm(r.PostForm)
	if !form.Validate() {
		s.renderer.Render(w, r, http.StatusOK, &views.SignupPage{Form: form})
		return
	}

	user, err := s.authenticator.Register(r.Context(), form.Username, form.FirstName, form.LastName, form.Password)
	switch {
	case errors.Is(err, auth.ErrUsernameExists):
		form.Errors.Add("username", "A user with that username already exists.")
	case errors.Is(err, auth.ErrWeakPassword):
		form.Errors.Add("password1", err.Error())
	case err != nil:
		writeError(w, r, s.renderer, s.logger, err)
		return
	}
	if form.Errors.Any() {
		s.renderer.Render(w, r, http.StatusOK, &views.SignupPage{Form: form})
		return
	}

	if err := s.sessions.Start(w, user); err != nil {
		writeError(w, r, s.renderer, s.logger, err)
		return
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	http.Redirect(w, r, "/", http.StatusFound)
}

// safeNext returns next when it is a local absolute path, otherwise "/".
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
