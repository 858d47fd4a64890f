package executor

import (
	"net/http"
	"strings"

	"github.com/jesseglab/postduck/internal/model"
)

// ParseSetCookie parses a single Set-Cookie header value into its name,
// value, and the Domain, Path, and Expires attributes. Other attributes
// (HttpOnly, Secure, SameSite, Max-Age) are ignored. Returns nil when
// the cookie name is empty.
func ParseSetCookie(raw string) *model.ParsedCookie {
	segments := strings.Split(raw, ";")
	if len(segments) == 0 {
		return nil
	}

	name, value, _ := strings.Cut(strings.TrimSpace(segments[0]), "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	cookie := &model.ParsedCookie{
		Name:  name,
		Value: strings.TrimSpace(value),
	}

	for _, segment := range segments[1:] {
		attrName, attrValue, found := strings.Cut(strings.TrimSpace(segment), "=")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(attrName)) {
		case "domain":
			cookie.Domain = strings.TrimSpace(attrValue)
		case "path":
			cookie.Path = strings.TrimSpace(attrValue)
		case "expires":
			cookie.Expires = strings.TrimSpace(attrValue)
		}
	}

	return cookie
}

// CollectCookies parses every Set-Cookie header in the response,
// preserving their order. Returns nil when the response set none.
func CollectCookies(h http.Header) []model.ParsedCookie {
	var cookies []model.ParsedCookie
	for _, raw := range h.Values("Set-Cookie") {
		if cookie := ParseSetCookie(raw); cookie != nil {
			cookies = append(cookies, *cookie)
		}
	}
	return cookies
}
