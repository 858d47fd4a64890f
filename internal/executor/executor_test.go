package executor

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesseglab/postduck/internal/model"
)

func newTestExecutor() *Executor {
	return NewExecutor("http://127.0.0.1:1", log.New(io.Discard, "", 0))
}

func TestExecuteDirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer abc123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"duck"}`, string(body))

		w.Header().Set("X-Request-Id", "r-1")
		w.Header().Add("Set-Cookie", "sid=abc; Path=/")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	}))
	defer server.Close()

	e := newTestExecutor()
	resp, err := e.Execute(context.Background(), &model.ExecuteRequestParams{
		Method: "post",
		URL:    server.URL,
		Body: &model.RequestBody{
			Type:    model.BodyJSON,
			Content: `{"name":"duck"}`,
		},
		AuthType: model.AuthBearer,
		AuthConfig: model.AuthConfig{
			Bearer: &model.BearerAuth{Token: "abc123"},
		},
	}, Snapshot{Now: time.Now()})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, `{"id":"1"}`, resp.Body)
	assert.Equal(t, len(resp.Body), resp.Size)
	assert.Equal(t, "r-1", resp.Headers["X-Request-Id"])
	require.Len(t, resp.Cookies, 1)
	assert.Equal(t, "sid", resp.Cookies[0].Name)
	assert.GreaterOrEqual(t, resp.Duration, int64(0))
}

func TestExecuteLeavesParamsUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := newTestExecutor()
	params := &model.ExecuteRequestParams{
		Method: "post",
		URL:    server.URL,
	}

	_, err := e.Execute(context.Background(), params, Snapshot{Now: time.Now()})
	require.NoError(t, err)
	assert.Equal(t, "post", params.Method)
}

func TestExecuteErrorStatusIsNormalResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	e := newTestExecutor()
	resp, err := e.Execute(context.Background(), &model.ExecuteRequestParams{
		Method: "GET",
		URL:    server.URL + "/missing",
	}, Snapshot{Now: time.Now()})

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found\n", resp.Body)
}

func TestExecuteFormDataBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "duck", r.PostFormValue("name"))
		assert.Empty(t, r.PostFormValue("disabled"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := newTestExecutor()
	resp, err := e.Execute(context.Background(), &model.ExecuteRequestParams{
		Method: "POST",
		URL:    server.URL,
		Body: &model.RequestBody{
			Type: model.BodyFormData,
			FormData: []model.FormField{
				{Key: "name", Value: "duck", Enabled: true},
				{Key: "disabled", Value: "x", Enabled: false},
			},
		},
	}, Snapshot{Now: time.Now()})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExecuteUnresolvedVariablesFailFast(t *testing.T) {
	e := newTestExecutor()
	_, err := e.Execute(context.Background(), &model.ExecuteRequestParams{
		Method: "GET",
		URL:    "https://{{missing}}.example.com",
	}, Snapshot{Now: time.Now()})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "{{missing}}")
}

func TestExecuteInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		params *model.ExecuteRequestParams
	}{
		{
			name:   "unsupported method",
			params: &model.ExecuteRequestParams{Method: "TRACE", URL: "https://example.com"},
		},
		{
			name:   "empty url",
			params: &model.ExecuteRequestParams{Method: "GET", URL: "  "},
		},
		{
			name:   "relative url",
			params: &model.ExecuteRequestParams{Method: "GET", URL: "/api/users"},
		},
		{
			name:   "unsupported scheme",
			params: &model.ExecuteRequestParams{Method: "GET", URL: "ftp://example.com"},
		},
	}

	e := newTestExecutor()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Execute(context.Background(), tc.params, Snapshot{Now: time.Now()})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecuteConnectionRefused(t *testing.T) {
	// Grab a port that was listening a moment ago and is now closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	e := newTestExecutor()
	resp, err := e.Execute(context.Background(), &model.ExecuteRequestParams{
		Method: "GET",
		URL:    target,
	}, Snapshot{Now: time.Now()})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.StatusCode)
	assert.Contains(t, resp.Body, "Error: Connection refused.")
	assert.Contains(t, resp.Body, "URL: "+target)
	assert.Contains(t, resp.Body, "Method: GET")
}

func TestExecuteSubstitutesPathParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/42", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	e := newTestExecutor()
	resp, err := e.Execute(context.Background(), &model.ExecuteRequestParams{
		Method:     "GET",
		URL:        server.URL + "/users/:id",
		PathParams: map[string]string{"id": "42"},
	}, Snapshot{Now: time.Now()})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExecuteForwardsLoopbackThroughAgent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})
	mux.HandleFunc("/proxy", func(w http.ResponseWriter, r *http.Request) {
		var params model.ExecuteRequestParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))

		// Auth already materialized into headers; the agent must not
		// apply it again.
		assert.Equal(t, model.AuthNone, params.AuthType)
		assert.Equal(t, "Bearer abc123", params.Headers["Authorization"])

		json.NewEncoder(w).Encode(&model.ExecuteResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"X-Via": "agent"},
			Body:       "agent response",
			Duration:   5,
			Size:       14,
		})
	})
	agent := httptest.NewServer(mux)
	defer agent.Close()

	e := NewExecutor(agent.URL, log.New(io.Discard, "", 0))
	resp, err := e.Execute(context.Background(), &model.ExecuteRequestParams{
		Method:   "GET",
		URL:      "http://localhost:3000/api/me",
		AuthType: model.AuthBearer,
		AuthConfig: model.AuthConfig{
			Bearer: &model.BearerAuth{Token: "abc123"},
		},
	}, Snapshot{Now: time.Now()})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "agent response", resp.Body)
	assert.Equal(t, "agent", resp.Headers["X-Via"])
}

func TestClassifyTransportErrorTimeout(t *testing.T) {
	resp := classifyTransportError(context.DeadlineExceeded, "https://slow.example.com", "GET", 30000)

	assert.Equal(t, 0, resp.StatusCode)
	assert.Contains(t, resp.Body, "timeout")
	assert.Contains(t, resp.Body, "URL: https://slow.example.com")
	assert.Contains(t, resp.Body, "Method: GET")
	assert.Equal(t, int64(30000), resp.Duration)
}
