// Package postman imports Postman v2.1 collection documents into flat,
// parent-linked collection and request records.
package postman

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/jesseglab/postduck/internal/model"
)

// RootCollectionID is the sentinel assigned to requests that sit at the
// top of the document with no enclosing folder. The caller maps it onto a
// real destination collection at import time.
const RootCollectionID = "root"

type pmHeader struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type pmQuery struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type pmURL struct {
	Raw      string    `json:"raw"`
	Protocol string    `json:"protocol"`
	Host     []string  `json:"host"`
	Path     []string  `json:"path"`
	Query    []pmQuery `json:"query"`
}

// pmURLValue accepts either a raw string or a structured URL object.
type pmURLValue struct {
	str *string
	obj *pmURL
}

func (u *pmURLValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		u.str = &s
		return nil
	}
	var obj pmURL
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	u.obj = &obj
	return nil
}

type pmKV struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type pmAuth struct {
	Type   string `json:"type"`
	Bearer []pmKV `json:"bearer"`
	Basic  []pmKV `json:"basic"`
	APIKey []pmKV `json:"apikey"`
}

type pmBodyField struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type pmBody struct {
	Mode       string        `json:"mode"`
	Raw        string        `json:"raw"`
	URLEncoded []pmBodyField `json:"urlencoded"`
	FormData   []pmBodyField `json:"formdata"`
	Options    *struct {
		Raw *struct {
			Language string `json:"language"`
		} `json:"raw"`
	} `json:"options"`
}

type pmRequest struct {
	Method string      `json:"method"`
	Header []pmHeader  `json:"header"`
	Body   *pmBody     `json:"body"`
	URL    *pmURLValue `json:"url"`
	Auth   *pmAuth     `json:"auth"`
}

type pmItem struct {
	Name    string     `json:"name"`
	Request *pmRequest `json:"request"`
	Item    []pmItem   `json:"item"`
	Auth    *pmAuth    `json:"auth"`
}

type pmCollection struct {
	Info *struct {
		Name   string `json:"name"`
		Schema string `json:"schema"`
	} `json:"info"`
	Item []pmItem `json:"item"`
	Auth *pmAuth  `json:"auth"`
}

// ImportedCollection is a folder node flattened out of the item tree.
// ID is synthetic and only meaningful within one parse result.
type ImportedCollection struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
	Order    int     `json:"order"`
}

type ImportedRequest struct {
	Name         string            `json:"name"`
	CollectionID string            `json:"collectionId"`
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	Headers      map[string]string `json:"headers"`
	Body         model.RequestBody `json:"body"`
	AuthType     model.AuthType    `json:"authType"`
	AuthConfig   model.AuthConfig  `json:"authConfig"`
	Order        int               `json:"order"`
}

type ParsedCollection struct {
	Name        string               `json:"name"`
	Collections []ImportedCollection `json:"collections"`
	Requests    []ImportedRequest    `json:"requests"`
}

// Parse reads a Postman v2.1 collection document and flattens its item
// tree. Folders become collections with parent links; requests keep their
// document order through a counter shared across the whole tree. A
// malformed document fails outright; there is no partial import.
func Parse(data []byte) (*ParsedCollection, error) {
	var doc pmCollection
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}
	if doc.Info == nil || doc.Item == nil {
		return nil, fmt.Errorf("invalid Postman collection format")
	}

	name := doc.Info.Name
	if name == "" {
		name = "Imported Collection"
	}

	result := &ParsedCollection{
		Name:        name,
		Collections: []ImportedCollection{},
		Requests:    []ImportedRequest{},
	}

	// Explicit worklist instead of recursion so deeply nested folder
	// trees cannot exhaust the stack. Items are pushed in reverse to keep
	// document order.
	type workItem struct {
		item     pmItem
		parentID *string
	}
	var stack []workItem
	for i := len(doc.Item) - 1; i >= 0; i-- {
		stack = append(stack, workItem{item: doc.Item[i]})
	}

	collectionCounter := 0
	requestCounter := 0

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if w.item.Item != nil {
			id := fmt.Sprintf("col_%d", collectionCounter)
			result.Collections = append(result.Collections, ImportedCollection{
				ID:       id,
				Name:     w.item.Name,
				ParentID: w.parentID,
				Order:    collectionCounter,
			})
			collectionCounter++

			parent := id
			for i := len(w.item.Item) - 1; i >= 0; i-- {
				stack = append(stack, workItem{item: w.item.Item[i], parentID: &parent})
			}
			continue
		}

		if w.item.Request == nil {
			continue
		}

		auth := w.item.Request.Auth
		if auth == nil {
			auth = w.item.Auth
		}
		if auth == nil {
			auth = doc.Auth
		}
		authType, authConfig := parseAuth(auth)

		collectionID := RootCollectionID
		if w.parentID != nil {
			collectionID = *w.parentID
		}

		result.Requests = append(result.Requests, ImportedRequest{
			Name:         w.item.Name,
			CollectionID: collectionID,
			Method:       normalizeMethod(w.item.Request.Method),
			URL:          parseURL(w.item.Request.URL),
			Headers:      parseHeaders(w.item.Request.Header),
			Body:         parseBody(w.item.Request.Body),
			AuthType:     authType,
			AuthConfig:   authConfig,
			Order:        requestCounter,
		})
		requestCounter++
	}

	return result, nil
}

func parseHeaders(headers []pmHeader) map[string]string {
	result := make(map[string]string)
	for _, h := range headers {
		if !h.Disabled && h.Key != "" {
			result[h.Key] = h.Value
		}
	}
	return result
}

func parseURL(u *pmURLValue) string {
	if u == nil {
		return ""
	}
	if u.str != nil {
		return *u.str
	}
	obj := u.obj
	if obj == nil {
		return ""
	}
	if obj.Raw != "" {
		return obj.Raw
	}

	protocol := obj.Protocol
	if protocol == "" {
		protocol = "https"
	}
	host := strings.Join(obj.Host, ".")

	path := ""
	if len(obj.Path) > 0 {
		path = "/" + strings.Join(obj.Path, "/")
	}

	var query []string
	for _, q := range obj.Query {
		if !q.Disabled && q.Key != "" {
			query = append(query, q.Key+"="+url.QueryEscape(q.Value))
		}
	}
	queryString := ""
	if len(query) > 0 {
		queryString = "?" + strings.Join(query, "&")
	}

	return protocol + "://" + host + path + queryString
}

func parseBody(body *pmBody) model.RequestBody {
	if body == nil || body.Mode == "" || body.Mode == "file" || body.Mode == "graphql" {
		return model.RequestBody{Type: model.BodyNone}
	}

	switch body.Mode {
	case "raw":
		content := body.Raw
		trimmed := strings.TrimSpace(content)
		isJSON := strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
		if body.Options != nil && body.Options.Raw != nil && body.Options.Raw.Language == "json" {
			isJSON = true
		}
		bodyType := model.BodyRaw
		if isJSON {
			bodyType = model.BodyJSON
		}
		return model.RequestBody{Type: bodyType, Content: content}

	case "formdata":
		return model.RequestBody{Type: model.BodyFormData, FormData: bodyFields(body.FormData)}

	case "urlencoded":
		// Represented the same way as form-data downstream.
		return model.RequestBody{Type: model.BodyFormData, FormData: bodyFields(body.URLEncoded)}
	}

	return model.RequestBody{Type: model.BodyNone}
}

func bodyFields(fields []pmBodyField) []model.FormField {
	var out []model.FormField
	for _, f := range fields {
		if !f.Disabled && f.Key != "" {
			out = append(out, model.FormField{Key: f.Key, Value: f.Value, Enabled: true})
		}
	}
	return out
}

func findKV(items []pmKV, key string) string {
	for _, item := range items {
		if item.Key == key {
			return item.Value
		}
	}
	return ""
}

func parseAuth(auth *pmAuth) (model.AuthType, model.AuthConfig) {
	if auth == nil || auth.Type == "" || auth.Type == "noauth" {
		return model.AuthNone, model.AuthConfig{}
	}

	switch auth.Type {
	case "bearer":
		return model.AuthBearer, model.AuthConfig{
			Bearer: &model.BearerAuth{Token: findKV(auth.Bearer, "token")},
		}
	case "basic":
		return model.AuthBasic, model.AuthConfig{
			Basic: &model.BasicAuth{
				Username: findKV(auth.Basic, "username"),
				Password: findKV(auth.Basic, "password"),
			},
		}
	case "apikey":
		addTo := "query"
		if findKV(auth.APIKey, "in") == "header" {
			addTo = "header"
		}
		return model.AuthAPIKey, model.AuthConfig{
			APIKey: &model.APIKeyAuth{
				Key:   findKV(auth.APIKey, "key"),
				Value: findKV(auth.APIKey, "value"),
				AddTo: addTo,
			},
		}
	}

	return model.AuthNone, model.AuthConfig{}
}

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

func normalizeMethod(method string) string {
	upper := strings.ToUpper(method)
	if upper == "" || !validMethods[upper] {
		return "GET"
	}
	return upper
}
