package executor

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/jesseglab/postduck/internal/authsession"
	"github.com/jesseglab/postduck/internal/interp"
	"github.com/jesseglab/postduck/internal/model"
)

// Snapshot is the auth-session and environment state read once at the
// start of materialization. Taking it up front keeps one dispatch
// internally consistent even if a session expires or changes mid-flight.
type Snapshot struct {
	Sessions    []model.AuthSession
	Environment *model.Environment
	Now         time.Time
}

// Resolved is a fully materialized request: interpolated URL and headers
// with auth applied, and the body content interpolated where its type
// supports it.
type Resolved struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    *model.RequestBody
}

// Resolve turns request parameters plus a state snapshot into the exact
// wire-level method, URL, headers, and body. Both the dispatcher and the
// code generators consume this single implementation so their auth and
// header semantics cannot drift apart.
//
// Precedence: a globally active auth session unconditionally overrides
// the request's own auth configuration; otherwise the request's authType
// applies. An apikey placed in the query string is appended to the URL
// here.
func Resolve(p *model.ExecuteRequestParams, snap Snapshot) Resolved {
	env := snap.Environment

	url, headers, _ := interp.Request(p.URL, p.Headers, "", env)
	if len(p.PathParams) > 0 {
		url = interp.ReplacePathParams(url, p.PathParams)
	}

	var body *model.RequestBody
	if p.Body != nil {
		b := *p.Body
		if b.Type == model.BodyJSON || b.Type == model.BodyRaw {
			b.Content = interp.Variables(b.Content, env)
		}
		body = &b
	}

	if global := authsession.ActiveSession(snap.Sessions, snap.Now); global != nil {
		applySession(headers, global)
	} else {
		switch p.AuthType {
		case model.AuthSavedSession:
			if session := findSession(snap.Sessions, p.UseAuthSession); session != nil {
				applySession(headers, session)
			}
			// A stale reference silently no-ops.

		case model.AuthBearer:
			if p.AuthConfig.Bearer != nil {
				headers["Authorization"] = "Bearer " + interp.Variables(p.AuthConfig.Bearer.Token, env)
			}

		case model.AuthBasic:
			if p.AuthConfig.Basic != nil {
				username := interp.Variables(p.AuthConfig.Basic.Username, env)
				password := interp.Variables(p.AuthConfig.Basic.Password, env)
				credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
				headers["Authorization"] = "Basic " + credentials
			}

		case model.AuthAPIKey:
			if p.AuthConfig.APIKey != nil && p.AuthConfig.APIKey.AddTo == "header" {
				key := interp.Variables(p.AuthConfig.APIKey.Key, env)
				headers[key] = interp.Variables(p.AuthConfig.APIKey.Value, env)
			}
		}
	}

	if p.AuthType == model.AuthAPIKey && p.AuthConfig.APIKey != nil && p.AuthConfig.APIKey.AddTo == "query" {
		key := interp.Variables(p.AuthConfig.APIKey.Key, env)
		value := interp.Variables(p.AuthConfig.APIKey.Value, env)
		separator := "?"
		if strings.Contains(url, "?") {
			separator = "&"
		}
		url = url + separator + key + "=" + value
	}

	return Resolved{
		Method:  strings.ToUpper(p.Method),
		URL:     url,
		Headers: headers,
		Body:    body,
	}
}

func applySession(headers map[string]string, session *model.AuthSession) {
	switch session.TokenType {
	case model.TokenBearer:
		headers["Authorization"] = "Bearer " + session.TokenValue
	case model.TokenCookie:
		headers["Cookie"] = session.TokenValue
	}
}

func findSession(sessions []model.AuthSession, id string) *model.AuthSession {
	if id == "" {
		return nil
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i]
		}
	}
	return nil
}

// hasHeader reports whether a header name is present, ignoring case.
func hasHeader(headers map[string]string, name string) bool {
	for key := range headers {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}
