package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jesseglab/postduck/internal/authsession"
	"github.com/jesseglab/postduck/internal/codegen"
	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/model"
	"github.com/jesseglab/postduck/internal/permissions"
	"github.com/jesseglab/postduck/internal/repository"
)

// ExecuteHandler dispatches requests and renders code snippets. Both
// operations resolve against the same workspace snapshot, so what a
// snippet shows is what a dispatch sends.
type ExecuteHandler struct {
	executor  *executor.Executor
	repo      repository.IRepository
	extractor *authsession.Extractor
	logger    *log.Logger
}

func NewExecuteHandler(e *executor.Executor, repo repository.IRepository, extractor *authsession.Extractor, logger *log.Logger) *ExecuteHandler {
	return &ExecuteHandler{
		executor:  e,
		repo:      repo,
		extractor: extractor,
		logger:    logger,
	}
}

func (h *ExecuteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetUserFromContext(r.Context())
	if !ok || !permissions.CanExecute(claims.Role) {
		respondWithError(w, http.StatusForbidden, "Role does not permit executing requests")
		return
	}

	var dto model.DTOExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	snap, err := h.snapshot(r.Context(), dto.WorkspaceID)
	if err != nil {
		h.logger.Printf("ERROR: failed to snapshot workspace %s: %v", dto.WorkspaceID, err)
		respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	response, err := h.executor.Execute(r.Context(), &dto.Params, snap)
	if err != nil {
		if errors.Is(err, executor.ErrInvalidInput) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Printf("ERROR: %v", err)
		respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	historyID := h.recordHistory(r.Context(), &dto, response)
	h.applyExtraction(r.Context(), &dto, response, historyID, snap.Environment)

	respondWithJSON(w, http.StatusOK, response)
}

func (h *ExecuteHandler) GenerateCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetUserFromContext(r.Context())
	if !ok || !permissions.CanRead(claims.Role) {
		respondWithError(w, http.StatusForbidden, "Role does not permit reading requests")
		return
	}

	var dto model.DTOGenerateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if err := validate.Struct(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	snap, err := h.snapshot(r.Context(), dto.WorkspaceID)
	if err != nil {
		h.logger.Printf("ERROR: failed to snapshot workspace %s: %v", dto.WorkspaceID, err)
		respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	code, err := codegen.Generate(codegen.Language(dto.Language), &dto.Params, snap)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"language": dto.Language, "code": code})
}

// snapshot reads the workspace's auth sessions and active environment
// once, before resolution starts.
func (h *ExecuteHandler) snapshot(ctx context.Context, workspaceID string) (executor.Snapshot, error) {
	sessions, err := h.repo.AuthSession().ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return executor.Snapshot{}, err
	}
	env, err := h.repo.Environment().GetActive(ctx, workspaceID)
	if err != nil {
		return executor.Snapshot{}, err
	}
	return executor.Snapshot{
		Sessions:    sessions,
		Environment: env,
		Now:         time.Now(),
	}, nil
}

// recordHistory persists the exchange. Failure to record never fails the
// dispatch itself.
func (h *ExecuteHandler) recordHistory(ctx context.Context, dto *model.DTOExecuteRequest, response *model.ExecuteResponse) string {
	body := ""
	if dto.Params.Body != nil {
		body = dto.Params.Body.Content
	}

	historyID, err := h.repo.History().Create(ctx, &model.RequestHistory{
		RequestID:       dto.RequestID,
		URL:             dto.Params.URL,
		Method:          dto.Params.Method,
		StatusCode:      response.StatusCode,
		Duration:        response.Duration,
		Headers:         dto.Params.Headers,
		Body:            body,
		ResponseHeaders: response.Headers,
		ResponseBody:    response.Body,
	})
	if err != nil {
		h.logger.Printf("WARN: failed to record history for request %s: %v", dto.RequestID, err)
		return ""
	}
	return historyID
}

// applyExtraction runs the token capture step. Extraction failures are
// logged, never surfaced to the caller.
func (h *ExecuteHandler) applyExtraction(ctx context.Context, dto *model.DTOExecuteRequest, response *model.ExecuteResponse, historyID string, env *model.Environment) {
	if dto.AuthExtraction == nil || !dto.AuthExtraction.Enabled {
		return
	}

	req := &model.Request{
		ID:             dto.RequestID,
		Name:           dto.RequestName,
		AuthExtraction: dto.AuthExtraction,
	}
	if err := h.extractor.Apply(ctx, dto.WorkspaceID, req, response, historyID, env); err != nil {
		h.logger.Printf("WARN: auth extraction failed for request %s: %v", dto.RequestID, err)
	}
}
