package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// ExecuteRequestParams is the wire shape accepted by the dispatch endpoint
// and by the local agent's /proxy endpoint. Headers arrive already
// interpolated by the caller or are interpolated server-side against the
// active environment snapshot.
type ExecuteRequestParams struct {
	Method         string            `json:"method" validate:"required,httpmethod"`
	URL            string            `json:"url" validate:"required"`
	PathParams     map[string]string `json:"pathParams,omitempty"`
	Headers        map[string]string `json:"headers"`
	Body           *RequestBody      `json:"body,omitempty"`
	AuthType       AuthType          `json:"authType"`
	AuthConfig     AuthConfig        `json:"authConfig"`
	UseAuthSession string            `json:"useAuthSession,omitempty"`
}

// ParsedCookie is derived from one Set-Cookie header occurrence.
type ParsedCookie struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Domain  string `json:"domain,omitempty"`
	Path    string `json:"path,omitempty"`
	Expires string `json:"expires,omitempty"`
}

// ExecuteResponse is the normalized result of a dispatch. Transport
// failures are represented with StatusCode 0 and a diagnostic Body;
// upstream 4xx/5xx are ordinary responses. Duration is wall-clock
// milliseconds, Size the byte length of Body. Cookies is omitted, not
// empty, when no Set-Cookie header was present.
type ExecuteResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	Duration   int64             `json:"duration"`
	Size       int               `json:"size"`
	Cookies    []ParsedCookie    `json:"cookies,omitempty"`
}

// DTOExecuteRequest wraps the dispatch parameters with the workspace
// context needed for session snapshots, history, and auth extraction.
type DTOExecuteRequest struct {
	WorkspaceID    string               `json:"workspaceId" validate:"required"`
	RequestID      string               `json:"requestId,omitempty"`
	RequestName    string               `json:"requestName,omitempty"`
	Params         ExecuteRequestParams `json:"params"`
	AuthExtraction *AuthExtraction      `json:"authExtraction,omitempty"`
}

type DTOGenerateCodeRequest struct {
	WorkspaceID string               `json:"workspaceId" validate:"required"`
	Language    string               `json:"language" validate:"required,oneof=curl node python php"`
	Params      ExecuteRequestParams `json:"params"`
}

type DTOParseCurlRequest struct {
	CurlCommand string `json:"curlCommand" validate:"required"`
}

type DTOImportPostmanRequest struct {
	WorkspaceID string `json:"workspaceId" validate:"required"`
	Collection  string `json:"collection" validate:"required"`
}

type Claims struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Role  TeamRole `json:"role"`
	jwt.RegisteredClaims
}
