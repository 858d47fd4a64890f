// Package codegen renders an executable snippet for a request in a
// handful of target languages. All generators share the dispatcher's
// resolution step, so the snippet carries exactly the headers, auth, and
// URL a real dispatch would use.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/model"
)

type Language string

const (
	LangCurl   Language = "curl"
	LangNode   Language = "node"
	LangPython Language = "python"
	LangPHP    Language = "php"
)

// Generate renders the request as a snippet in the given language.
func Generate(lang Language, p *model.ExecuteRequestParams, snap executor.Snapshot) (string, error) {
	resolved := executor.Resolve(p, snap)

	switch lang {
	case LangCurl:
		return generateCurl(resolved), nil
	case LangNode:
		return generateNode(resolved), nil
	case LangPython:
		return generatePython(resolved), nil
	case LangPHP:
		return generatePHP(resolved), nil
	}
	return "", fmt.Errorf("unsupported language: %s", lang)
}

// sortedHeaderKeys returns the header names in a stable order, skipping
// entries with an empty name or value.
func sortedHeaderKeys(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for key, value := range headers {
		if key != "" && value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// escapeSingleQuoted escapes a value for inclusion inside a
// single-quoted string literal in JavaScript, Python, or PHP.
func escapeSingleQuoted(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// enabledFormFields filters the form fields down to enabled ones with a
// non-empty key.
func enabledFormFields(body *model.RequestBody) []model.FormField {
	if body == nil {
		return nil
	}
	var fields []model.FormField
	for _, field := range body.FormData {
		if field.Enabled && field.Key != "" {
			fields = append(fields, field)
		}
	}
	return fields
}
