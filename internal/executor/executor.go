package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jesseglab/postduck/internal/interp"
	"github.com/jesseglab/postduck/internal/model"
)

const (
	// RequestTimeout bounds every outbound dispatch.
	RequestTimeout = 30 * time.Second

	// agentHealthTimeout bounds the local agent health probe. The probe
	// runs on every localhost dispatch, so it has to fail fast.
	agentHealthTimeout = 1 * time.Second

	maxResponseBodySize = 10 * 1024 * 1024 // 10MB
)

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Executor dispatches materialized requests to target servers. Requests
// aimed at the user's own machine are forwarded through the local agent
// when one is running, since the backend cannot reach the user's
// loopback interface itself. An empty agentURL disables forwarding; the
// agent itself runs that way so it cannot loop back into itself.
type Executor struct {
	client      *http.Client
	agentClient *http.Client
	agentURL    string
	logger      *log.Logger
}

func NewExecutor(agentURL string, logger *log.Logger) *Executor {
	// Create a custom transport with optimized settings
	transport := &http.Transport{
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Executor{
		client: &http.Client{
			Transport: transport,
		},
		agentClient: &http.Client{},
		agentURL:    agentURL,
		logger:      logger,
	}
}

// Execute validates, resolves, and dispatches a request. Validation
// failures return an error wrapping ErrInvalidInput; transport failures
// after validation are reported as a zero-status ExecuteResponse so the
// caller always has a body to show.
func (e *Executor) Execute(ctx context.Context, p *model.ExecuteRequestParams, snap Snapshot) (*model.ExecuteResponse, error) {
	method := strings.ToUpper(p.Method)
	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: unsupported method %q", ErrInvalidInput, method)
	}

	resolved := Resolve(p, snap)

	if strings.TrimSpace(resolved.URL) == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrInvalidInput)
	}
	if unresolved := interp.UnresolvedVariables(resolved.URL); len(unresolved) > 0 {
		return nil, fmt.Errorf(
			"%w: unresolved variables in URL: %s. Please set these variables in your active environment",
			ErrInvalidInput, strings.Join(unresolved, ", "),
		)
	}

	target, err := url.Parse(resolved.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL format: %s: %v", ErrInvalidInput, resolved.URL, err)
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf(
			"%w: invalid URL format: %s. URL must be a valid absolute URL (e.g., https://example.com/api)",
			ErrInvalidInput, resolved.URL,
		)
	}

	if e.agentURL != "" && isLoopbackHost(target.Hostname()) && e.agentAvailable(ctx) {
		if resp, err := e.forwardToAgent(ctx, resolved); err == nil {
			return resp, nil
		} else if e.logger != nil {
			e.logger.Printf("agent forwarding failed, dispatching directly: %v", err)
		}
	}

	return e.dispatch(ctx, resolved), nil
}

// dispatch sends the resolved request directly and reads the response.
// It never returns an error; transport failures become zero-status
// responses.
func (e *Executor) dispatch(ctx context.Context, resolved Resolved) *model.ExecuteResponse {
	headers := make(map[string]string, len(resolved.Headers))
	for key, value := range resolved.Headers {
		headers[key] = value
	}

	bodyReader, err := buildBody(resolved.Body, headers)
	if err != nil {
		return classifyTransportError(err, resolved.URL, resolved.Method, 0)
	}

	startTime := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	httpRequest, err := http.NewRequestWithContext(reqCtx, resolved.Method, resolved.URL, bodyReader)
	if err != nil {
		return classifyTransportError(err, resolved.URL, resolved.Method, time.Since(startTime).Milliseconds())
	}
	for key, value := range headers {
		httpRequest.Header.Set(key, value)
	}

	httpResponse, err := e.client.Do(httpRequest)
	if err != nil {
		return classifyTransportError(err, resolved.URL, resolved.Method, time.Since(startTime).Milliseconds())
	}
	defer httpResponse.Body.Close()

	limitedReader := &io.LimitedReader{R: httpResponse.Body, N: maxResponseBodySize}
	bodyBytes, err := io.ReadAll(limitedReader)
	// Duration covers the full exchange including the body read.
	duration := time.Since(startTime).Milliseconds()
	if err != nil {
		return classifyTransportError(err, resolved.URL, resolved.Method, duration)
	}

	responseHeaders := make(map[string]string, len(httpResponse.Header))
	for key, values := range httpResponse.Header {
		for _, value := range values {
			responseHeaders[key] = value
		}
	}

	return &model.ExecuteResponse{
		StatusCode: httpResponse.StatusCode,
		Headers:    responseHeaders,
		Body:       string(bodyBytes),
		Duration:   duration,
		Size:       len(bodyBytes),
		Cookies:    CollectCookies(httpResponse.Header),
	}
}

// buildBody converts the request body into a reader and fills in the
// Content-Type header where the body type dictates one. A nil body or
// empty content yields a nil reader.
func buildBody(body *model.RequestBody, headers map[string]string) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}

	switch body.Type {
	case model.BodyJSON:
		if body.Content == "" {
			return nil, nil
		}
		if !hasHeader(headers, "Content-Type") {
			headers["Content-Type"] = "application/json"
		}
		return strings.NewReader(body.Content), nil

	case model.BodyRaw:
		if body.Content == "" {
			return nil, nil
		}
		return strings.NewReader(body.Content), nil

	case model.BodyFormData:
		if len(body.FormData) == 0 {
			return nil, nil
		}
		form := url.Values{}
		for _, field := range body.FormData {
			if field.Enabled {
				form.Set(field.Key, field.Value)
			}
		}
		if len(form) == 0 {
			return nil, nil
		}
		headers["Content-Type"] = "application/x-www-form-urlencoded"
		return strings.NewReader(form.Encode()), nil
	}

	return nil, nil
}

func isLoopbackHost(hostname string) bool {
	switch hostname {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// agentAvailable probes the local agent's health endpoint.
func (e *Executor) agentAvailable(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, agentHealthTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(probeCtx, http.MethodGet, e.agentURL+"/health", nil)
	if err != nil {
		return false
	}

	response, err := e.agentClient.Do(request)
	if err != nil {
		return false
	}
	defer response.Body.Close()
	io.Copy(io.Discard, response.Body)

	return response.StatusCode == http.StatusOK
}

// forwardToAgent sends the already resolved request to the local agent.
// Auth is stripped to none so the agent does not apply it a second
// time; the resolved headers and URL already carry it.
func (e *Executor) forwardToAgent(ctx context.Context, resolved Resolved) (*model.ExecuteResponse, error) {
	payload, err := json.Marshal(&model.ExecuteRequestParams{
		Method:     resolved.Method,
		URL:        resolved.URL,
		Headers:    resolved.Headers,
		Body:       resolved.Body,
		AuthType:   model.AuthNone,
		AuthConfig: model.AuthConfig{},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent payload: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout+agentHealthTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(reqCtx, http.MethodPost, e.agentURL+"/proxy", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create agent request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := e.agentClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to reach agent: %w", err)
	}
	defer response.Body.Close()

	// The agent answers transport failures with a 500 whose body is
	// still a well-formed ExecuteResponse, so decode regardless of the
	// outer status.
	var result model.ExecuteResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode agent response: %w", err)
	}

	return &result, nil
}
