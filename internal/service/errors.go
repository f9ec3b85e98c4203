package service

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mmynk/inkwell/internal/storage"
	"github.com/mmynk/inkwell/internal/views"
)

// writeError maps err to a response: missing records are a 404 page,
// anything else is logged and becomes a 500 page.
func writeError(w http.ResponseWriter, r *http.Request, renderer views.Renderer, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
		logger.Debug("Not found", "path", r.URL.Path, "error", err)
	} else {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	renderer.Render(w, r, status, &views.ErrorPage{Status: status})
}

// parsePostID reads the {id} path value. Malformed IDs are reported as not found.
func parsePostID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &notFoundError{what: "post " + strconv.Quote(raw)}
	}
	return id, nil
}

type notFoundError struct {
	what string
}

func (e *notFoundError) Error() string { return e.what + " not found" }
func (e *notFoundError) Unwrap() error { return storage.ErrNotFound }
