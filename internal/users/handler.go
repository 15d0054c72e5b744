package users

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

func (h *Handler) SyncHandler(w http.ResponseWriter, r *http.Request) {
	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	user, created, err := h.service.Sync(r.Context(), req)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to sync user", err.Error())
		return
	}

	response.Success(w, map[string]interface{}{
		"user":    user,
		"created": created,
	}, "successfully")
}

func (h *Handler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(w, http.StatusNotFound, "User not found", nil)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to get user", err.Error())
		return
	}

	response.Success(w, user, "successfully")
}

func (h *Handler) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(w, http.StatusNotFound, "User not found", nil)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to update profile", err.Error())
		return
	}

	response.Success(w, user, "successfully")
}
