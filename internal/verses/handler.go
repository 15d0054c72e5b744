package verses

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gitadaily/gita-daily-api/pkg/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) Handler {
	return Handler{repo: repo}
}

func (h *Handler) GetChapterHandler(w http.ResponseWriter, r *http.Request) {
	chapter, err := strconv.Atoi(chi.URLParam(r, "chapter"))
	if err != nil || chapter < 1 {
		response.Error(w, http.StatusBadRequest, "Invalid chapter number", nil)
		return
	}

	list, err := h.repo.ByChapter(r.Context(), chapter)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to load chapter", err.Error())
		return
	}
	if list == nil {
		list = []Verse{}
	}

	response.Success(w, list, "successfully")
}

func (h *Handler) GetVerseHandler(w http.ResponseWriter, r *http.Request) {
	chapter, err1 := strconv.Atoi(chi.URLParam(r, "chapter"))
	verse, err2 := strconv.Atoi(chi.URLParam(r, "verse"))
	if err1 != nil || err2 != nil {
		response.Error(w, http.StatusBadRequest, "Invalid verse reference", nil)
		return
	}

	v, err := h.repo.ByPosition(r.Context(), chapter, verse)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Verse not found", nil)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to load verse", err.Error())
		return
	}

	response.Success(w, v, "successfully")
}
