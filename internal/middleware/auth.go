package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mmynk/inkwell/internal/auth"
	"github.com/mmynk/inkwell/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userKey is the context key for storing the authenticated user.
	userKey contextKey = "user"

	// SessionCookie is the name of the cookie carrying the session token.
	SessionCookie = "inkwell_session"

	// LoginPath is where unauthenticated users are sent.
	LoginPath = "/auth/login/"
)

// CurrentUser extracts the authenticated user from the context.
// Returns nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserLookup loads the user named by a session token.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Sessions manages the signed session cookie.
type Sessions struct {
	jwt    *auth.JWTManager
	users  UserLookup
	secure bool
	logger *slog.Logger
}

// NewSessions creates a session manager. secure sets the cookie's Secure flag.
func NewSessions(jwtManager *auth.JWTManager, users UserLookup, secure bool, logger *slog.Logger) *Sessions {
	return &Sessions{
		jwt:    jwtManager,
		users:  users,
		secure: secure,
		logger: logger,
	}
}

// Start issues a session cookie for user.
func (s *Sessions) Start(w http.ResponseWriter, user *models.User) error {
	token, err := s.jwt.Generate(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.jwt.TokenDuration().Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End clears the session cookie.
func (s *Sessions) End(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware resolves the session cookie if present, but allows requests without
// authentication. A valid token for an existing user adds that user to the context;
// anything else is treated as anonymous and the stale cookie is cleared.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.jwt.Validate(cookie.Value)
		if err != nil {
			s.logger.Debug("Discarding invalid session", "error", err)
			s.End(w)
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			s.logger.Warn("Session user lookup failed", "user_id", claims.UserID, "error", err)
			s.End(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAuth redirects anonymous requests to the login page, remembering
// where they were headed in the "next" query parameter.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next(w, r)
	}
}

// LoginURL returns the login page URL that returns to next after signing in.
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}
