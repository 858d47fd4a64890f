package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/model"
)

func generatePython(resolved executor.Resolved) string {
	var lines []string
	lines = append(lines, "import requests", "")

	headerKeys := sortedHeaderKeys(resolved.Headers)
	if len(headerKeys) > 0 {
		lines = append(lines, "headers = {")
		for _, key := range headerKeys {
			lines = append(lines, fmt.Sprintf("    '%s': '%s',", key, escapeSingleQuoted(resolved.Headers[key])))
		}
		lines = append(lines, "}", "")
	}

	dataCode := ""
	body := resolved.Body
	switch {
	case body != nil && body.Type == model.BodyJSON && body.Content != "":
		if json.Valid([]byte(body.Content)) {
			lines = append(lines, "import json")
			jsonLines := strings.Split(body.Content, "\n")
			if len(jsonLines) > 1 {
				// Triple quotes sidestep per-line escaping.
				lines = append(lines, "json_data = json.loads(", "    '''")
				for _, line := range jsonLines {
					lines = append(lines, "    "+line)
				}
				lines = append(lines, "    '''", ")")
			} else {
				lines = append(lines, fmt.Sprintf("json_data = json.loads('%s')", escapeSingleQuoted(body.Content)))
			}
			lines = append(lines, "")
			dataCode = "json=json_data"
		} else {
			lines = append(lines, fmt.Sprintf("data = '%s'", escapeSingleQuoted(body.Content)), "")
			dataCode = "data=data"
		}

	case body != nil && body.Type == model.BodyRaw && body.Content != "":
		lines = append(lines, fmt.Sprintf("data = '%s'", escapeSingleQuoted(body.Content)), "")
		dataCode = "data=data"

	case body != nil && body.Type == model.BodyFormData:
		fields := enabledFormFields(body)
		if len(fields) > 0 {
			lines = append(lines, "data = {")
			for _, field := range fields {
				lines = append(lines, fmt.Sprintf("    '%s': '%s',", field.Key, escapeSingleQuoted(field.Value)))
			}
			lines = append(lines, "}", "")
			dataCode = "data=data"
		}
	}

	args := []string{fmt.Sprintf("'%s'", escapeSingleQuoted(resolved.URL))}
	if len(headerKeys) > 0 {
		args = append(args, "headers=headers")
	}
	if dataCode != "" {
		args = append(args, dataCode)
	}

	lines = append(lines,
		fmt.Sprintf("response = requests.%s(%s)", strings.ToLower(resolved.Method), strings.Join(args, ", ")),
		"print(response.json())",
	)

	return strings.Join(lines, "\n")
}
