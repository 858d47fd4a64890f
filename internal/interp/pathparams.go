package interp

import (
	"net/url"
	"regexp"
	"strings"
)

var pathParamPattern = regexp.MustCompile(`:([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExtractPathParams returns the distinct :name tokens found in a URL
// template, in first-occurrence order.
func ExtractPathParams(rawURL string) []string {
	if rawURL == "" {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	for _, m := range pathParamPattern.FindAllStringSubmatch(rawURL, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// ReplacePathParams substitutes every occurrence of :name with the
// percent-encoded value for each supplied pair. Names without a supplied
// value are left in place.
func ReplacePathParams(rawURL string, params map[string]string) string {
	result := rawURL
	for name, value := range params {
		result = strings.ReplaceAll(result, ":"+name, url.PathEscape(value))
	}
	return result
}
