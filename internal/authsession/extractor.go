package authsession

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jesseglab/postduck/internal/model"
	"github.com/jesseglab/postduck/internal/repository"
)

// ExtractToken pulls a token out of a response according to the
// extraction rule. It returns "" when the source is missing or
// unparseable; the caller treats that as a no-op.
func ExtractToken(resp *model.ExecuteResponse, cfg *model.AuthExtraction) string {
	if cfg == nil || !cfg.Enabled {
		return ""
	}

	switch cfg.ExtractFrom {
	case "body":
		if cfg.Path == "" || !gjson.Valid(resp.Body) {
			return ""
		}
		result := gjson.Get(resp.Body, cfg.Path)
		if !result.Exists() {
			return ""
		}
		return result.String()

	case "header":
		if cfg.Path == "" {
			return ""
		}
		return resp.Headers[cfg.Path]

	case "cookie":
		if cfg.CookieName == "" {
			return ""
		}
		for _, c := range resp.Cookies {
			if strings.EqualFold(c.Name, cfg.CookieName) {
				return c.Value
			}
		}
	}

	return ""
}

// Extractor applies extraction rules after a dispatch, upserting auth
// sessions and optionally environment variables.
type Extractor struct {
	sessions     repository.IAuthSessionRepository
	environments repository.IEnvironmentRepository
	logger       *log.Logger
}

func NewExtractor(sessions repository.IAuthSessionRepository, environments repository.IEnvironmentRepository, logger *log.Logger) *Extractor {
	return &Extractor{
		sessions:     sessions,
		environments: environments,
		logger:       logger,
	}
}

// Apply runs the extraction step for one finished dispatch. It only acts
// when the request has extraction enabled and the response status is 2xx.
// A missing token is not an error; storage failures are.
func (e *Extractor) Apply(ctx context.Context, workspaceID string, req *model.Request, resp *model.ExecuteResponse, historyID string, env *model.Environment) error {
	cfg := req.AuthExtraction
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}

	token := ExtractToken(resp, cfg)
	if token == "" {
		e.logger.Printf("auth extraction produced no token for request %s (from=%s)", req.ID, cfg.ExtractFrom)
		return nil
	}

	if err := e.upsertSession(ctx, workspaceID, req, cfg, token, historyID); err != nil {
		return fmt.Errorf("failed to upsert auth session: %w", err)
	}

	if cfg.SaveAsEnvVariable != "" && env != nil {
		if err := e.environments.UpsertVariable(ctx, env.ID, cfg.SaveAsEnvVariable, token, true); err != nil {
			return fmt.Errorf("failed to save env variable %q: %w", cfg.SaveAsEnvVariable, err)
		}
	}

	return nil
}

// upsertSession keeps the one-session-per-request invariant: an existing
// session for this request id is refreshed in place, otherwise a new one
// is created.
func (e *Extractor) upsertSession(ctx context.Context, workspaceID string, req *model.Request, cfg *model.AuthExtraction, token, historyID string) error {
	existing, err := e.sessions.GetByRequestID(ctx, req.ID)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.TokenValue = token
		existing.LoginResponseHistoryID = historyID
		existing.UpdatedAt = time.Now()
		return e.sessions.Update(ctx, existing)
	}

	name := cfg.SessionName
	if name == "" {
		name = req.Name
	}
	if name == "" {
		name = "Auth Session"
	}

	_, err = e.sessions.Create(ctx, &model.AuthSession{
		WorkspaceID:            workspaceID,
		Name:                   name,
		RequestID:              req.ID,
		TokenType:              cfg.TokenType,
		TokenValue:             token,
		LoginResponseHistoryID: historyID,
	})
	return err
}
