package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmaguire/rsvp/internal/service"
)

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func pageCount(total, perPage int) int {
	if total == 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// apiSuccess writes the success envelope. data may be nil for bodyless
// confirmations.
func apiSuccess(w http.ResponseWriter, status int, data any) {
	body := map[string]any{"status": "success"}
	if data != nil {
		body["data"] = data
	}
	writeJSON(w, status, body)
}

func apiError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, map[string]any{
		"status":  "error",
		"message": message,
		"code":    code,
	})
}

// apiServiceError maps the service error taxonomy onto the API envelope.
func apiServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		apiError(w, http.StatusUnprocessableEntity, verr.Message, "VALIDATION_ERROR")
	case errors.Is(err, service.ErrNotFound):
		apiError(w, http.StatusNotFound, "Resource not found", "NOT_FOUND")
	case errors.Is(err, service.ErrForbidden):
		apiError(w, http.StatusForbidden, "Access denied", "FORBIDDEN")
	default:
		apiError(w, http.StatusInternalServerError, "Internal server error", "ERROR")
	}
}

// xhrServiceError answers the page-level fetch endpoints, which expect a
// bare {"error": ...} object rather than the v1 envelope.
func xhrServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verr.Message})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]any{"error": "Forbidden"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
	}
}

// htmlServiceError is the plain-text counterpart for the HTML routes.
func htmlServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Message, http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
