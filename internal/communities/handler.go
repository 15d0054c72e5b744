package communities

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/gitadaily/gita-daily-api/internal/auth"
	"github.com/gitadaily/gita-daily-api/pkg/response"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return Handler{service: service}
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	community, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if isValidationError(err) {
			response.Error(w, http.StatusBadRequest, "Validation failed", err)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to create community", err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, response.APIResponse{
		Status:  http.StatusCreated,
		Success: true,
		Message: "successfully",
		Data:    community,
	})
}

func (h *Handler) ListPublicHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPublic(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list communities", err.Error())
		return
	}
	response.Success(w, list, "successfully")
}

func (h *Handler) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	list, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list communities", err.Error())
		return
	}
	response.Success(w, list, "successfully")
}

func (h *Handler) JoinHandler(w http.ResponseWriter, r *http.Request) {
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

	community, err := h.service.JoinPublic(r.Context(), userID, communityID)
	if err != nil {
		writeCommunityError(w, "Failed to join community", err)
		return
	}
	response.Success(w, community, "successfully")
}

func (h *Handler) JoinByCodeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req JoinByCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	community, err := h.service.JoinByInviteCode(r.Context(), userID, req.InviteCode)
	if err != nil {
		writeCommunityError(w, "Failed to join community", err)
		return
	}
	response.Success(w, community, "successfully")
}

func (h *Handler) LeaveHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Leave(r.Context(), userID, communityID); err != nil {
		writeCommunityError(w, "Failed to leave community", err)
		return
	}
	response.Success(w, nil, "successfully")
}

func (h *Handler) MembersHandler(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.service.Members(r.Context(), userID, communityID)
	if err != nil {
		writeCommunityError(w, "Failed to list members", err)
		return
	}
	response.Success(w, members, "successfully")
}

func (h *Handler) SetActiveHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.SetActive(r.Context(), userID, communityID); err != nil {
		writeCommunityError(w, "Failed to set active community", err)
		return
	}
	response.Success(w, nil, "successfully")
}

func (h *Handler) GetActiveHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	community, err := h.service.GetActive(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get active community", err.Error())
		return
	}
	response.Success(w, community, "successfully")
}

func writeCommunityError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInviteCode):
		response.Error(w, http.StatusNotFound, message, err.Error())
	case errors.Is(err, ErrAlreadyMember):
		response.Error(w, http.StatusConflict, message, err.Error())
	case errors.Is(err, ErrNotMember), errors.Is(err, ErrOwnerCannotLeave), errors.Is(err, ErrPrivateCommunity):
		response.Error(w, http.StatusForbidden, message, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, message, err.Error())
	}
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}
