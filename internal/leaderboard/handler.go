package leaderboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gitadaily/gita-daily-api/internal/auth"
	"github.com/gitadaily/gita-daily-api/pkg/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return Handler{service: service}
}

func (h *Handler) GetGlobalHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	result, err := h.service.Global(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get leaderboard", err.Error())
		return
	}

	response.Success(w, result, "successfully")
}

func (h *Handler) GetCommunityHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	communityID, err := strconv.Atoi(chi.URLParam(r, "communityID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid community id", err.Error())
		return
	}

	result, err := h.service.Community(r.Context(), communityID, userID)
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			response.Error(w, http.StatusForbidden, "Failed to get leaderboard", err.Error())
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to get leaderboard", err.Error())
		return
	}

	response.Success(w, result, "successfully")
}
