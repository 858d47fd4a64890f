package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jesseglab/postduck/internal/executor"
	"github.com/jesseglab/postduck/internal/model"
)

func generatePHP(resolved executor.Resolved) string {
	var lines []string
	lines = append(lines, "<?php", "")

	headerKeys := sortedHeaderKeys(resolved.Headers)
	if len(headerKeys) > 0 {
		lines = append(lines, "$headers = [")
		for _, key := range headerKeys {
			value := strings.ReplaceAll(escapeSingleQuoted(resolved.Headers[key]), `"`, `\"`)
			lines = append(lines, fmt.Sprintf("    '%s' => '%s',", key, value))
		}
		lines = append(lines, "];", "")
	}

	bodyCode := ""
	body := resolved.Body
	switch {
	case body != nil && body.Type == model.BodyJSON && body.Content != "":
		if json.Valid([]byte(body.Content)) {
			lines = append(lines, fmt.Sprintf("$jsonData = '%s';", escapeSingleQuoted(body.Content)), "")
			bodyCode = "$jsonData"
		} else {
			lines = append(lines, fmt.Sprintf("$data = '%s';", escapeSingleQuoted(body.Content)), "")
			bodyCode = "$data"
		}

	case body != nil && body.Type == model.BodyRaw && body.Content != "":
		lines = append(lines, fmt.Sprintf("$data = '%s';", escapeSingleQuoted(body.Content)), "")
		bodyCode = "$data"

	case body != nil && body.Type == model.BodyFormData:
		fields := enabledFormFields(body)
		if len(fields) > 0 {
			lines = append(lines, "$data = [")
			for _, field := range fields {
				lines = append(lines, fmt.Sprintf("    '%s' => '%s',", field.Key, escapeSingleQuoted(field.Value)))
			}
			lines = append(lines, "];", "")
			bodyCode = "http_build_query($data)"
		}
	}

	lines = append(lines,
		"$ch = curl_init();",
		"",
		fmt.Sprintf("curl_setopt($ch, CURLOPT_URL, '%s');", escapeSingleQuoted(resolved.URL)),
		"curl_setopt($ch, CURLOPT_RETURNTRANSFER, true);",
	)

	if resolved.Method != "GET" {
		lines = append(lines, fmt.Sprintf("curl_setopt($ch, CURLOPT_CUSTOMREQUEST, '%s');", resolved.Method))
	}

	if len(headerKeys) > 0 {
		lines = append(lines, "curl_setopt($ch, CURLOPT_HTTPHEADER, [")
		for _, key := range headerKeys {
			lines = append(lines, fmt.Sprintf("    '%s: %s',", key, escapeSingleQuoted(resolved.Headers[key])))
		}
		lines = append(lines, "]);")
	}

	if bodyCode != "" {
		lines = append(lines, fmt.Sprintf("curl_setopt($ch, CURLOPT_POSTFIELDS, %s);", bodyCode))
	}

	lines = append(lines,
		"",
		"$response = curl_exec($ch);",
		"curl_close($ch);",
		"",
		"echo $response;",
	)

	return strings.Join(lines, "\n")
}
