package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesseglab/postduck/internal/curl"
	"github.com/jesseglab/postduck/internal/model"
)

func newTestCurlHandler() *CurlHandler {
	return NewCurlHandler(log.New(io.Discard, "", 0))
}

func TestParseCurlEndpoint(t *testing.T) {
	h := newTestCurlHandler()

	payload, _ := json.Marshal(model.DTOParseCurlRequest{
		CurlCommand: `curl -X POST -H "Authorization: Bearer tok" -d '{"a":1}' https://api.example.com/v1`,
	})

	w := httptest.NewRecorder()
	h.Parse(w, httptest.NewRequest(http.MethodPost, "/api/v1/parse-curl", bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, w.Code)

	var parsed curl.ParsedRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.Equal(t, "POST", parsed.Method)
	assert.Equal(t, "https://api.example.com/v1", parsed.URL)
	assert.Equal(t, model.AuthBearer, parsed.AuthType)
}

func TestParseCurlEndpointRejectsMalformed(t *testing.T) {
	h := newTestCurlHandler()

	payload, _ := json.Marshal(model.DTOParseCurlRequest{
		CurlCommand: `curl -H "unterminated https://example.com`,
	})

	w := httptest.NewRecorder()
	h.Parse(w, httptest.NewRequest(http.MethodPost, "/api/v1/parse-curl", bytes.NewReader(payload)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseCurlEndpointRequiresCommand(t *testing.T) {
	h := newTestCurlHandler()

	w := httptest.NewRecorder()
	h.Parse(w, httptest.NewRequest(http.MethodPost, "/api/v1/parse-curl", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSerializeCurlEndpoint(t *testing.T) {
	h := newTestCurlHandler()

	payload, _ := json.Marshal(model.Request{
		Method:  "POST",
		URL:     "https://api.example.com/v1",
		Headers: map[string]string{"accept": "application/json"},
		Body: model.RequestBody{
			Type:    model.BodyJSON,
			Content: `{"a":1}`,
		},
	})

	w := httptest.NewRecorder()
	h.Serialize(w, httptest.NewRequest(http.MethodPost, "/api/v1/serialize-curl", bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["curlCommand"], "curl")
	assert.Contains(t, resp["curlCommand"], "-X POST")
	assert.Contains(t, resp["curlCommand"], `"https://api.example.com/v1"`)
}
