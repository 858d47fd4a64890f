package codegen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/model"
)

func bearerParams() *model.ExecuteRequestParams {
	return &model.ExecuteRequestParams{
		Method:  "POST",
		URL:     "https://api.example.com/users",
		Headers: map[string]string{"Accept": "application/json"},
		Body: &model.RequestBody{
			Type:    model.BodyJSON,
			Content: `{"name":"duck"}`,
		},
		AuthType: model.AuthBearer,
		AuthConfig: model.AuthConfig{
			Bearer: &model.BearerAuth{Token: "abc123"},
		},
	}
}

func TestGenerateCurl(t *testing.T) {
	out, err := Generate(LangCurl, bearerParams(), executor.Snapshot{Now: time.Now()})
	require.NoError(t, err)

	assert.Contains(t, out, "curl \\\n")
	assert.Contains(t, out, "-X POST")
	assert.Contains(t, out, `-H "Authorization: Bearer abc123"`)
	assert.Contains(t, out, `-H "Content-Type: application/json"`)
	assert.Contains(t, out, `--data-raw '{"name":"duck"}'`)
	assert.Contains(t, out, `"https://api.example.com/users"`)
}

func TestGenerateCurlGetOmitsMethod(t *testing.T) {
	out, err := Generate(LangCurl, &model.ExecuteRequestParams{
		Method: "GET",
		URL:    "https://api.example.com",
	}, executor.Snapshot{Now: time.Now()})
	require.NoError(t, err)

	assert.NotContains(t, out, "-X")
}

func TestGenerateCurlEscapesSingleQuotesInBody(t *testing.T) {
	out, err := Generate(LangCurl, &model.ExecuteRequestParams{
		Method: "POST",
		URL:    "https://api.example.com",
		Body: &model.RequestBody{
			Type:    model.BodyRaw,
			Content: "it's raw",
		},
	}, executor.Snapshot{Now: time.Now()})
	require.NoError(t, err)

	assert.Contains(t, out, `--data-raw 'it'\''s raw'`)
}

func TestGenerateNode(t *testing.T) {
	out, err := Generate(LangNode, bearerParams(), executor.Snapshot{Now: time.Now()})
	require.NoError(t, err)

	assert.Contains(t, out, "// Node.js 18+ (built-in fetch)")
	assert.Contains(t, out, "'Authorization': 'Bearer abc123',")
	assert.Contains(t, out, "method: 'POST',")
	assert.Contains(t, out, "body: JSON.stringify(body),")
	assert.Contains(t, out, "fetch('https://api.example.com/users', options)")
}

func TestGeneratePython(t *testing.T) {
	out, err := Generate(LangPython, bearerParams(), executor.Snapshot{Now: time.Now()})
	require.NoError(t, err)

	assert.Contains(t, out, "import requests")
	assert.Contains(t, out, "'Authorization': 'Bearer abc123',")
	assert.Contains(t, out, "json_data = json.loads(")
	assert.Contains(t, out, "response = requests.post('https://api.example.com/users', headers=headers, json=json_data)")
}

func TestGeneratePythonFormData(t *testing.T) {
	out, err := Generate(LangPython, &model.ExecuteRequestParams{
		Method: "POST",
		URL:    "https://api.example.com/login",
		Body: &model.RequestBody{
			Type: model.BodyFormData,
			FormData: []model.FormField{
				{Key: "user", Value: "duck", Enabled: true},
				{Key: "skip", Value: "x", Enabled: false},
			},
		},
	}, executor.Snapshot{Now: time.Now()})
	require.NoError(t, err)

	assert.Contains(t, out, "'user': 'duck',")
	assert.NotContains(t, out, "'skip'")
	assert.Contains(t, out, "data=data")
}

func TestGeneratePHP(t *testing.T) {
	out, err := Generate(LangPHP, bearerParams(), executor.Snapshot{Now: time.Now()})
	require.NoError(t, err)

	assert.Contains(t, out, "<?php")
	assert.Contains(t, out, "curl_setopt($ch, CURLOPT_URL, 'https://api.example.com/users');")
	assert.Contains(t, out, "curl_setopt($ch, CURLOPT_CUSTOMREQUEST, 'POST');")
	assert.Contains(t, out, "'Authorization: Bearer abc123',")
	assert.Contains(t, out, "curl_setopt($ch, CURLOPT_POSTFIELDS, $jsonData);")
}

func TestGenerateUnsupportedLanguage(t *testing.T) {
	_, err := Generate(Language("ruby"), bearerParams(), executor.Snapshot{Now: time.Now()})
	assert.Error(t, err)
}

// Generated snippets must carry the same auth the dispatcher would
// send, including the global session override.
func TestGenerateUsesGlobalSession(t *testing.T) {
	now := time.Now()
	snap := executor.Snapshot{
		Sessions: []model.AuthSession{
			{ID: "s1", TokenType: model.TokenCookie, TokenValue: "sid=xyz", UpdatedAt: now},
		},
		Now: now,
	}

	out, err := Generate(LangCurl, bearerParams(), snap)
	require.NoError(t, err)

	assert.Contains(t, out, `-H "Cookie: sid=xyz"`)
	assert.NotContains(t, out, "Authorization")
}

func TestGenerateAppendsAPIKeyQuery(t *testing.T) {
	params := &model.ExecuteRequestParams{
		Method:   "GET",
		URL:      "https://api.example.com/v1",
		AuthType: model.AuthAPIKey,
		AuthConfig: model.AuthConfig{
			APIKey: &model.APIKeyAuth{Key: "api_key", Value: "secret", AddTo: "query"},
		},
	}

	for _, lang := range []Language{LangCurl, LangNode, LangPython, LangPHP} {
		out, err := Generate(lang, params, executor.Snapshot{Now: time.Now()})
		require.NoError(t, err)
		assert.Contains(t, out, "https://api.example.com/v1?api_key=secret", "language %s", lang)
	}
}
