package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jesseglab/postduck/internal/model"
	"github.com/jesseglab/postduck/internal/permissions"
	"github.com/jesseglab/postduck/internal/repository"
)

type HistoryHandler struct {
	repo   repository.IRepository
	logger *log.Logger
}

func NewHistoryHandler(repo repository.IRepository, logger *log.Logger) *HistoryHandler {
	return &HistoryHandler{repo: repo, logger: logger}
}

// ListByRequest returns past exchanges for one request, newest first.
func (h *HistoryHandler) ListByRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetUserFromContext(r.Context())
	if !ok || !permissions.CanRead(claims.Role) {
		respondWithError(w, http.StatusForbidden, "Role does not permit reading history")
		return
	}

	requestID := chi.URLParam(r, "requestID")
	if requestID == "" {
		respondWithError(w, http.StatusBadRequest, "Request id is required")
		return
	}

	entries, err := h.repo.History().ListByRequest(r.Context(), requestID)
	if err != nil {
		h.logger.Printf("ERROR: failed to list history for request %s: %v", requestID, err)
		respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	if entries == nil {
		entries = []model.RequestHistory{}
	}

	respondWithJSON(w, http.StatusOK, entries)
}
