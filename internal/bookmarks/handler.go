package bookmarks

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

func (h *Handler) CreateBucketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req CreateBucketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	bucket, err := h.service.CreateBucket(r.Context(), userID, req)
	if err != nil {
		writeBookmarkError(w, "Failed to create bucket", err)
		return
	}

	response.JSON(w, http.StatusCreated, response.APIResponse{
		Status:  http.StatusCreated,
		Success: true,
		Message: "successfully",
		Data:    bucket,
	})
}

func (h *Handler) ListBucketsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	buckets, err := h.service.ListBuckets(r.Context(), userID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list buckets", err.Error())
		return
	}
	response.Success(w, buckets, "successfully")
}

func (h *Handler) RenameBucketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	bucketID, err := strconv.Atoi(chi.URLParam(r, "bucketID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid bucket id", err.Error())
		return
	}

	var req CreateBucketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	bucket, err := h.service.RenameBucket(r.Context(), userID, bucketID, req)
	if err != nil {
		writeBookmarkError(w, "Failed to rename bucket", err)
		return
	}
	response.Success(w, bucket, "successfully")
}

func (h *Handler) DeleteBucketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	bucketID, err := strconv.Atoi(chi.URLParam(r, "bucketID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid bucket id", err.Error())
		return
	}

	if err := h.service.DeleteBucket(r.Context(), userID, bucketID); err != nil {
		writeBookmarkError(w, "Failed to delete bucket", err)
		return
	}
	response.Success(w, nil, "successfully")
}

func (h *Handler) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	result, err := h.service.Toggle(r.Context(), userID, req)
	if err != nil {
		writeBookmarkError(w, "Failed to toggle bookmark", err)
		return
	}
	response.Success(w, result, "successfully")
}

func (h *Handler) ListBucketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	bucketID, err := strconv.Atoi(chi.URLParam(r, "bucketID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid bucket id", err.Error())
		return
	}

	bookmarks, err := h.service.ListBucket(r.Context(), userID, bucketID)
	if err != nil {
		writeBookmarkError(w, "Failed to list bookmarks", err)
		return
	}
	response.Success(w, bookmarks, "successfully")
}

func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "user not logged in")
		return
	}

	verseID, err := strconv.Atoi(chi.URLParam(r, "verseID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid verse id", err.Error())
		return
	}

	status, err := h.service.Status(r.Context(), userID, verseID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get bookmark status", err.Error())
		return
	}
	response.Success(w, status, "successfully")
}

func writeBookmarkError(w http.ResponseWriter, message string, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
	case errors.Is(err, ErrBucketNotFound), errors.Is(err, ErrVerseNotFound):
		response.Error(w, http.StatusNotFound, message, err.Error())
	case errors.Is(err, ErrNotYourBucket), errors.Is(err, ErrDefaultBucket):
		response.Error(w, http.StatusForbidden, message, err.Error())
	case errors.Is(err, ErrDuplicateBucketName):
		response.Error(w, http.StatusConflict, message, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, message, err.Error())
	}
}
