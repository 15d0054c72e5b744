package streaks

import (
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

func (h *Handler) GetStreakHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	streak, err := h.service.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get streak", err.Error())
		return
	}

	response.Success(w, streak, "successfully")
}

func (h *Handler) GetStatsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	stats, err := h.service.GetStats(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get streak stats", err.Error())
		return
	}

	response.Success(w, stats, "successfully")
}

// CheckHandler is called by the client on app foreground to reconcile a
// streak that may have expired while the app was closed.
func (h *Handler) CheckHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	result, err := h.service.CheckAndReset(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to check streak", err.Error())
		return
	}

	response.Success(w, result, "successfully")
}
