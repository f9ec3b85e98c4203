package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/inkwell/internal/auth"
	"github.com/mmynk/inkwell/internal/models"
)

type stubUsers map[string]*models.User

func (s stubUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestSessionsRoundTrip(t *testing.T) {
	user := &models.User{ID: "u1", Username: "leo"}
	sessions := NewSessions(auth.NewJWTManager("secret", time.Hour), stubUsers{"u1": user}, false, discardLogger())

	login := httptest.NewRecorder()
	require.NoError(t, sessions.Start(login, user))
	cookies := login.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	var seen *models.User
	handler := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, "leo", seen.Username)
}

func TestSessionsDiscardInvalidCookie(t *testing.T) {
	sessions := NewSessions(auth.NewJWTManager("secret", time.Hour), stubUsers{}, false, discardLogger())

	var seen *models.User
	handler := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Nil(t, seen)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	called := false
	handler := RequireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/create/", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login/?next=%2Fcreate%2F", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	handler(rec, req.WithContext(WithUser(req.Context(), &models.User{ID: "u1"})))
	assert.True(t, called)
}

func TestMetricsCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := m.Middleware(mux)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.requests))
	total := 0.0
	for _, route := range []string{"GET /ping", "unmatched"} {
		total += testutil.ToFloat64(m.requests.WithLabelValues(route, http.MethodGet, "418"))
	}
	assert.Equal(t, 2.0, total)
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Contains(t, buf.String(), "status=404")
	assert.Contains(t, buf.String(), "path=/missing")
}
