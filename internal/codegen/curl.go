package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/model"
)

func generateCurl(resolved executor.Resolved) string {
	parts := []string{"curl"}

	if resolved.Method != "GET" {
		parts = append(parts, "-X "+resolved.Method)
	}

	for _, key := range sortedHeaderKeys(resolved.Headers) {
		value := strings.ReplaceAll(resolved.Headers[key], `"`, `\"`)
		parts = append(parts, fmt.Sprintf(`-H "%s: %s"`, key, value))
	}

	body := resolved.Body
	switch {
	case body != nil && body.Type == model.BodyJSON && body.Content != "":
		if compacted, ok := compactJSON(body.Content); ok {
			if !hasContentType(resolved.Headers) {
				parts = append(parts, `-H "Content-Type: application/json"`)
			}
			parts = append(parts, fmt.Sprintf("--data-raw '%s'", escapeShellSingleQuotes(compacted)))
		} else {
			parts = append(parts, fmt.Sprintf("--data-raw '%s'", escapeShellSingleQuotes(body.Content)))
		}

	case body != nil && body.Type == model.BodyRaw && body.Content != "":
		parts = append(parts, fmt.Sprintf("--data-raw '%s'", escapeShellSingleQuotes(body.Content)))

	case body != nil && body.Type == model.BodyFormData:
		for _, field := range enabledFormFields(body) {
			key := strings.ReplaceAll(field.Key, `"`, `\"`)
			value := strings.ReplaceAll(field.Value, `"`, `\"`)
			parts = append(parts, fmt.Sprintf(`-F "%s=%s"`, key, value))
		}
	}

	escapedURL := strings.ReplaceAll(resolved.URL, `"`, `\"`)
	parts = append(parts, `"`+escapedURL+`"`)

	return strings.Join(parts, " \\\n  ")
}

// escapeShellSingleQuotes ends the quoted section, emits an escaped
// quote, and reopens it, the standard shell idiom.
func escapeShellSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

// compactJSON compacts valid JSON to a single line. Returns false when
// the input is not valid JSON.
func compactJSON(content string) (string, bool) {
	if !json.Valid([]byte(content)) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(content)); err != nil {
		return "", false
	}
	return buf.String(), true
}

func hasContentType(headers map[string]string) bool {
	for key := range headers {
		if strings.EqualFold(key, "Content-Type") {
			return true
		}
	}
	return false
}
