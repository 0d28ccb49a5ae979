package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/metrics"
	"github.com/shrimpsizemoose/lussekatt/internal/notify"
	"github.com/shrimpsizemoose/lussekatt/internal/quiz"
	"github.com/shrimpsizemoose/lussekatt/internal/storage"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500 with the detail kept in the log, not the
// response.
func writeError(w http.ResponseWriter, err error) {
	var (
		limitErr      *store.AttemptLimitError
		validationErr validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, quiz.ErrNoAnswers),
		errors.Is(err, storage.ErrExtensionNotAllowed):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, app.ErrInvalidCredentials),
		errors.Is(err, app.ErrInvalidSession):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, quiz.ErrNotAssigned):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, quiz.ErrQuizNotFound),
		errors.Is(err, quiz.ErrNoResults),
		errors.Is(err, notify.ErrEmptyClass):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &limitErr),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, app.ErrSessionConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		logger.Error.Printf("Internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s in path", name)
	}
	return id, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// timed wraps a handler with the request duration histogram. The
// pattern is the registered route, so cardinality stays bounded.
func timed(pattern string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		metrics.APIRequestDuration.WithLabelValues(
			pattern,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	}
}
