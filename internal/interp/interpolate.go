package interp

import (
	"regexp"
	"strings"

	"github.com/jesseglab/postduck/internal/model"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Variables replaces every {{name}} token whose trimmed name matches a
// variable key in the environment. Unmatched tokens are left verbatim,
// and a nil environment returns the input unchanged.
func Variables(text string, env *model.Environment) string {
	if env == nil || text == "" {
		return text
	}

	return variablePattern.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		for _, v := range env.Variables {
			if v.Key == name {
				return v.Value
			}
		}
		return match
	})
}

// Request interpolates a URL, header map, and body string in one pass.
// Header keys and values are interpolated independently.
func Request(url string, headers map[string]string, body string, env *model.Environment) (string, map[string]string, string) {
	outHeaders := make(map[string]string, len(headers))
	for key, value := range headers {
		outHeaders[Variables(key, env)] = Variables(value, env)
	}
	return Variables(url, env), outHeaders, Variables(body, env)
}

// UnresolvedVariables returns every {{...}} token still present in text,
// verbatim and in order of appearance.
func UnresolvedVariables(text string) []string {
	return variablePattern.FindAllString(text, -1)
}
