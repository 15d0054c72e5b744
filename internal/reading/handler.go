package reading

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gitadaily/gita-daily-api/internal/auth"
	"github.com/gitadaily/gita-daily-api/pkg/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return Handler{service: service}
}

func (h *Handler) GetTodaySetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	result, err := h.service.GetOrCreateTodaySet(r.Context(), userID)
	if err != nil {
		writeReadingError(w, "Failed to get today's set", err)
		return
	}

	response.Success(w, result, "successfully")
}

func (h *Handler) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	result, err := h.service.MarkVerseRead(r.Context(), userID, req.DailySetID, req.VerseID)
	if err != nil {
		writeReadingError(w, "Failed to mark verse read", err)
		return
	}

	response.Success(w, result, "successfully")
}

func (h *Handler) RereadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req RereadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	result, err := h.service.LogReread(r.Context(), userID, req.VerseID)
	if err != nil {
		writeReadingError(w, "Failed to log reread", err)
		return
	}

	response.Success(w, result, "successfully")
}

func (h *Handler) GetProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	progress, err := h.service.GetTodayProgress(r.Context(), userID)
	if err != nil {
		writeReadingError(w, "Failed to get progress", err)
		return
	}

	response.Success(w, progress, "successfully")
}

// writeReadingError maps the engine's validation errors onto HTTP statuses.
// These are client-correctable; none should be retried as-is.
func writeReadingError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrStateNotFound),
		errors.Is(err, ErrSetNotFound),
		errors.Is(err, ErrVerseNotFound):
		response.Error(w, http.StatusNotFound, message, err.Error())
	case errors.Is(err, ErrNotYourSet):
		response.Error(w, http.StatusForbidden, message, err.Error())
	case errors.Is(err, ErrOutOfSequence):
		response.Error(w, http.StatusConflict, message, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, message, err.Error())
	}
}
