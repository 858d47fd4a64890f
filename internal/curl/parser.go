package curl

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/jesseglab/postduck/internal/model"
)

// ParsedRequest is the structured descriptor produced from a curl command.
// Header keys are lowercased on storage.
type ParsedRequest struct {
	Method     string            `json:"method"`
	URL        string            `json:"url"`
	Headers    map[string]string `json:"headers"`
	Body       model.RequestBody `json:"body"`
	AuthType   model.AuthType    `json:"authType"`
	AuthConfig model.AuthConfig  `json:"authConfig"`
}

// Flags that take no value and carry no request semantics.
var skipFlags = map[string]bool{
	"-k": true, "--insecure": true,
	"-v": true, "--verbose": true,
	"-s": true, "--silent": true,
	"-S": true, "--show-error": true,
	"-L": true, "--location": true,
	"-i": true, "--include": true,
	"--compressed": true,
}

// Flags that consume the following token but carry no request semantics.
var skipValueFlags = map[string]bool{
	"-o": true, "--output": true,
	"-A": true, "--user-agent": true,
	"-e": true, "--referer": true,
	"-m": true, "--max-time": true,
	"-w": true, "--write-out": true,
	"--connect-timeout": true,
	"--retry":           true,
}

var dataFlags = map[string]bool{
	"-d": true, "--data": true,
	"--data-raw":    true,
	"--data-binary": true,
	"--data-ascii":  true,
}

// Parse converts a curl command string into a ParsedRequest. Unrecognized
// flags are skipped. When several URL-looking tokens appear, the last one
// wins.
func Parse(command string) (*ParsedRequest, error) {
	tokens, err := splitTokens(normalizeCommand(command))
	if err != nil {
		return nil, err
	}

	parsed := &ParsedRequest{
		Method:   "GET",
		Headers:  make(map[string]string),
		Body:     model.RequestBody{Type: model.BodyNone},
		AuthType: model.AuthNone,
	}
	var formData []model.FormField

	next := func(i *int) (string, bool) {
		*i++
		if *i < len(tokens) {
			return tokens[*i], true
		}
		return "", false
	}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch {
		case token == "curl":

		case token == "-X" || token == "--request":
			if v, ok := next(&i); ok {
				parsed.Method = strings.ToUpper(v)
			}

		case token == "-H" || token == "--header":
			if v, ok := next(&i); ok {
				if colon := strings.Index(v, ":"); colon > 0 {
					key := strings.TrimSpace(v[:colon])
					parsed.Headers[strings.ToLower(key)] = strings.TrimSpace(v[colon+1:])
				}
			}

		case dataFlags[token]:
			if v, ok := next(&i); ok {
				parsed.Body = classifyBody(v)
				if parsed.Method == "GET" {
					parsed.Method = "POST"
				}
			}

		case token == "--json":
			if v, ok := next(&i); ok {
				parsed.Body = model.RequestBody{Type: model.BodyJSON, Content: v}
				if parsed.Method == "GET" {
					parsed.Method = "POST"
				}
			}

		case token == "-F" || token == "--form":
			if v, ok := next(&i); ok {
				if eq := strings.Index(v, "="); eq > 0 {
					formData = append(formData, model.FormField{
						Key:     v[:eq],
						Value:   v[eq+1:],
						Enabled: true,
					})
				}
				if parsed.Method == "GET" {
					parsed.Method = "POST"
				}
			}

		case token == "--data-urlencode":
			if v, ok := next(&i); ok {
				if eq := strings.Index(v, "="); eq > 0 {
					formData = append(formData, model.FormField{
						Key:     v[:eq],
						Value:   url.QueryEscape(v[eq+1:]),
						Enabled: true,
					})
				}
				if parsed.Method == "GET" {
					parsed.Method = "POST"
				}
			}

		case token == "-u" || token == "--user":
			if v, ok := next(&i); ok {
				parsed.AuthType = model.AuthBasic
				basic := &model.BasicAuth{Username: v}
				if colon := strings.Index(v, ":"); colon > 0 {
					basic.Username = v[:colon]
					basic.Password = v[colon+1:]
				}
				parsed.AuthConfig.Basic = basic
			}

		case skipFlags[token]:

		case skipValueFlags[token]:
			i++

		case !strings.HasPrefix(token, "-") && (strings.Contains(token, "://") || strings.Contains(token, ".")):
			parsed.URL = token
		}
	}

	if len(formData) > 0 && parsed.Body.Type == model.BodyNone {
		parsed.Body = model.RequestBody{Type: model.BodyFormData, FormData: formData}
	}

	// An Authorization: Bearer header is promoted to bearer auth unless
	// -u already set basic auth.
	if auth, ok := parsed.Headers["authorization"]; ok && parsed.AuthType == model.AuthNone {
		if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			parsed.AuthType = model.AuthBearer
			parsed.AuthConfig.Bearer = &model.BearerAuth{Token: strings.TrimSpace(auth[7:])}
			delete(parsed.Headers, "authorization")
		}
	}

	return parsed, nil
}

// classifyBody tags data payloads as json when they parse as JSON and raw
// otherwise, so both outcomes are first-class values.
func classifyBody(data string) model.RequestBody {
	if json.Valid([]byte(data)) {
		return model.RequestBody{Type: model.BodyJSON, Content: data}
	}
	return model.RequestBody{Type: model.BodyRaw, Content: data}
}
