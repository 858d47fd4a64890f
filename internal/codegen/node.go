package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/model"
)

func generateNode(resolved executor.Resolved) string {
	var lines []string
	lines = append(lines, "// Node.js 18+ (built-in fetch)", "")

	headerKeys := sortedHeaderKeys(resolved.Headers)
	if len(headerKeys) > 0 {
		lines = append(lines, "const headers = {")
		for _, key := range headerKeys {
			lines = append(lines, fmt.Sprintf("  '%s': '%s',", key, escapeSingleQuoted(resolved.Headers[key])))
		}
		lines = append(lines, "};", "")
	}

	bodyCode := ""
	body := resolved.Body
	switch {
	case body != nil && body.Type == model.BodyJSON && body.Content != "":
		if indented, ok := indentJSON(body.Content); ok {
			lines = append(lines, "const body = "+indented+";", "")
			bodyCode = "JSON.stringify(body)"
		} else {
			lines = append(lines, fmt.Sprintf("const body = '%s';", escapeSingleQuoted(body.Content)), "")
			bodyCode = "body"
		}

	case body != nil && body.Type == model.BodyRaw && body.Content != "":
		lines = append(lines, fmt.Sprintf("const body = '%s';", escapeSingleQuoted(body.Content)), "")
		bodyCode = "body"

	case body != nil && body.Type == model.BodyFormData:
		fields := enabledFormFields(body)
		if len(fields) > 0 {
			lines = append(lines, "const formData = new FormData();")
			for _, field := range fields {
				lines = append(lines, fmt.Sprintf("formData.append('%s', '%s');",
					escapeSingleQuoted(field.Key), escapeSingleQuoted(field.Value)))
			}
			lines = append(lines, "")
			bodyCode = "formData"
		}
	}

	lines = append(lines, "const options = {")
	if resolved.Method != "GET" {
		lines = append(lines, fmt.Sprintf("  method: '%s',", resolved.Method))
	}
	if len(headerKeys) > 0 {
		lines = append(lines, "  headers,")
	}
	if bodyCode != "" {
		lines = append(lines, "  body: "+bodyCode+",")
	}
	lines = append(lines, "};", "")

	lines = append(lines,
		fmt.Sprintf("fetch('%s', options)", escapeSingleQuoted(resolved.URL)),
		"  .then(response => response.json())",
		"  .then(data => console.log(data))",
		"  .catch(error => console.error('Error:', error));",
	)

	return strings.Join(lines, "\n")
}

// indentJSON pretty-prints valid JSON with two-space indentation.
// Returns false when the input is not valid JSON.
func indentJSON(content string) (string, bool) {
	if !json.Valid([]byte(content)) {
		return "", false
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(content), "", "  "); err != nil {
		return "", false
	}
	return buf.String(), true
}
