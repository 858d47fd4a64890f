package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jesseglab/postduck/internal/model"
	"github.com/jesseglab/postduck/internal/permissions"
	"github.com/jesseglab/postduck/internal/postman"
	"github.com/jesseglab/postduck/internal/repository"
)

type ImportHandler struct {
	repo   repository.IRepository
	logger *log.Logger
}

func NewImportHandler(repo repository.IRepository, logger *log.Logger) *ImportHandler {
	return &ImportHandler{repo: repo, logger: logger}
}

type importSummary struct {
	RootCollectionID string `json:"rootCollectionId"`
	Collections      int    `json:"collections"`
	Requests         int    `json:"requests"`
}

// ImportPostman parses a Postman v2.1 document and persists its folders
// and requests under a fresh root collection in the workspace. A parse
// failure imports nothing.
func (h *ImportHandler) ImportPostman(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetUserFromContext(r.Context())
	if !ok || !permissions.CanWrite(claims.Role) {
		respondWithError(w, http.StatusForbidden, "Role does not permit importing collections")
		return
	}

	var dto model.DTOImportPostmanRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	parsed, err := postman.Parse([]byte(dto.Collection))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	// The document itself becomes the root collection; its synthetic ids
	// map onto stored ones as folders are created in document order.
	rootID, err := h.repo.Collection().Create(ctx, &model.Collection{
		WorkspaceID: dto.WorkspaceID,
		Name:        parsed.Name,
	})
	if err != nil {
		h.logger.Printf("ERROR: failed to create root collection: %v", err)
		respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	idMap := map[string]string{postman.RootCollectionID: rootID}
	for _, col := range parsed.Collections {
		parentID := rootID
		if col.ParentID != nil {
			parentID = idMap[*col.ParentID]
		}
		storedID, err := h.repo.Collection().Create(ctx, &model.Collection{
			WorkspaceID: dto.WorkspaceID,
			ParentID:    &parentID,
			Name:        col.Name,
			Order:       col.Order,
		})
		if err != nil {
			h.logger.Printf("ERROR: failed to create collection %q: %v", col.Name, err)
			respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
			return
		}
		idMap[col.ID] = storedID
	}

	for _, req := range parsed.Requests {
		_, err := h.repo.Request().Create(ctx, &model.Request{
			CollectionID: idMap[req.CollectionID],
			Name:         req.Name,
			Method:       req.Method,
			URL:          req.URL,
			Headers:      req.Headers,
			Body:         req.Body,
			AuthType:     req.AuthType,
			AuthConfig:   req.AuthConfig,
			Order:        req.Order,
		})
		if err != nil {
			h.logger.Printf("ERROR: failed to create request %q: %v", req.Name, err)
			respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
			return
		}
	}

	respondWithJSON(w, http.StatusCreated, importSummary{
		RootCollectionID: rootID,
		Collections:      len(parsed.Collections) + 1,
		Requests:         len(parsed.Requests),
	})
}
