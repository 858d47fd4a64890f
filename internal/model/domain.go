package model

import "time"

type AuthType string

const (
	AuthNone         AuthType = "none"
	AuthBearer       AuthType = "bearer"
	AuthBasic        AuthType = "basic"
	AuthAPIKey       AuthType = "apikey"
	AuthSavedSession AuthType = "saved-session"
)

type BodyType string

const (
	BodyNone     BodyType = "none"
	BodyJSON     BodyType = "json"
	BodyRaw      BodyType = "raw"
	BodyFormData BodyType = "form-data"
)

// TokenType describes how a captured credential is put on the wire.
type TokenType string

const (
	TokenBearer TokenType = "bearer"
	TokenCookie TokenType = "cookie"
)

type FormField struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// RequestBody is a tagged union: Content is set for json/raw,
// FormData for form-data, neither for none.
type RequestBody struct {
	Type     BodyType    `json:"type"`
	Content  string      `json:"content,omitempty"`
	FormData []FormField `json:"formData,omitempty"`
}

type BearerAuth struct {
	Token string `json:"token"`
}

type BasicAuth struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// APIKeyAuth carries a key/value pair added either as a header or a
// query-string parameter, selected by AddTo ("header" or "query").
type APIKeyAuth struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	AddTo string `json:"addTo"`
}

type AuthConfig struct {
	Bearer *BearerAuth `json:"bearer,omitempty"`
	Basic  *BasicAuth  `json:"basic,omitempty"`
	APIKey *APIKeyAuth `json:"apikey,omitempty"`
}

// AuthExtraction configures the post-dispatch token capture step.
// ExtractFrom selects the source: "body" (dot-notation Path into the JSON
// body), "header" (Path is the header name), or "cookie" (CookieName).
type AuthExtraction struct {
	Enabled           bool      `json:"enabled"`
	TokenType         TokenType `json:"tokenType"`
	ExtractFrom       string    `json:"extractFrom"`
	Path              string    `json:"path,omitempty"`
	CookieName        string    `json:"cookieName,omitempty"`
	SessionName       string    `json:"sessionName,omitempty"`
	SaveAsEnvVariable string    `json:"saveAsEnvVariable,omitempty"`
}

// Request is the stored, user-edited definition of an HTTP request prior
// to interpolation. Header keys keep the casing the user authored.
type Request struct {
	ID             string            `json:"id"`
	CollectionID   string            `json:"collectionId"`
	Name           string            `json:"name"`
	Method         string            `json:"method"`
	URL            string            `json:"url"`
	Headers        map[string]string `json:"headers"`
	Body           RequestBody       `json:"body"`
	AuthType       AuthType          `json:"authType"`
	AuthConfig     AuthConfig        `json:"authConfig"`
	AuthExtraction *AuthExtraction   `json:"authExtraction,omitempty"`
	UseAuthSession string            `json:"useAuthSession,omitempty"`
	Order          int               `json:"order"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

type Collection struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	ParentID    *string   `json:"parentId"`
	Name        string    `json:"name"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type EnvironmentVariable struct {
	ID       string `json:"id"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	IsSecret bool   `json:"isSecret"`
}

// Environment is a named variable set. At most one environment per
// workspace is active; activating one deactivates its siblings.
type Environment struct {
	ID          string                `json:"id"`
	WorkspaceID string                `json:"workspaceId"`
	Name        string                `json:"name"`
	IsActive    bool                  `json:"isActive"`
	Variables   []EnvironmentVariable `json:"variables"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// AuthSession is a captured credential created by the token extractor
// after a successful login-style request. At most one session exists per
// originating request id.
type AuthSession struct {
	ID                     string     `json:"id"`
	WorkspaceID            string     `json:"workspaceId"`
	Name                   string     `json:"name"`
	RequestID              string     `json:"requestId"`
	TokenType              TokenType  `json:"tokenType"`
	TokenValue             string     `json:"tokenValue"`
	ExpiresAt              *time.Time `json:"expiresAt,omitempty"`
	LoginResponseHistoryID string     `json:"loginResponseHistoryId,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

type RequestHistory struct {
	ID              string            `json:"id"`
	RequestID       string            `json:"requestId"`
	URL             string            `json:"url"`
	Method          string            `json:"method"`
	StatusCode      int               `json:"statusCode"`
	Duration        int64             `json:"duration"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	ResponseHeaders map[string]string `json:"responseHeaders"`
	ResponseBody    string            `json:"responseBody"`
	ExecutedAt      time.Time         `json:"executedAt"`
}

type TeamRole string

const (
	RoleSpaceCommander TeamRole = "SPACE_COMMANDER"
	RoleStarNavigator  TeamRole = "STAR_NAVIGATOR"
	RoleCosmicObserver TeamRole = "COSMIC_OBSERVER"
)
