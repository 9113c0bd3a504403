package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"smartbrief-backend/internal/models"
	"smartbrief-backend/internal/repository"
)

type summaryHistory interface {
	GetByID(ctx context.Context, id string) (*models.Summary, error)
	ListRecent(ctx context.Context, limit int) ([]models.Summary, error)
}

type SummaryHandler struct {
	summaryRepo summaryHistory
}

func NewSummaryHandler(summaryRepo summaryHistory) *SummaryHandler {
	return &SummaryHandler{summaryRepo: summaryRepo}
}

func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.summaryRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("UNAVAILABLE", "Summary history is not configured", r))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	summaries, err := h.summaryRepo.ListRecent(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch summaries", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": summaries,
		"limit":     limit,
	})
}

func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.summaryRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResp("UNAVAILABLE", "Summary history is not configured", r))
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid summary ID", r))
		return
	}

	summary, err := h.summaryRepo.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Summary not found", r))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch summary", r))
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
