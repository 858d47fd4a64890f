package curl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jesseglab/postduck/internal/model"
)

// RequestToCurl serializes a request descriptor into an equivalent curl
// command. The auth-to-wire mapping here mirrors the dispatcher's
// materialization: bearer and header-placed api keys become -H flags,
// basic auth becomes -u, and query-placed api keys are appended to the
// URL.
func RequestToCurl(req *model.Request) string {
	parts := []string{"curl"}

	if req.Method != "GET" {
		parts = append(parts, fmt.Sprintf("-X %s", req.Method))
	}

	// Sorted so the emitted command is stable for the same request.
	keys := make([]string, 0, len(req.Headers))
	for key := range req.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("-H %q", key+": "+req.Headers[key]))
	}

	switch {
	case req.AuthType == model.AuthBearer && req.AuthConfig.Bearer != nil:
		parts = append(parts, fmt.Sprintf("-H %q", "Authorization: Bearer "+req.AuthConfig.Bearer.Token))
	case req.AuthType == model.AuthBasic && req.AuthConfig.Basic != nil:
		parts = append(parts, fmt.Sprintf("-u %q", req.AuthConfig.Basic.Username+":"+req.AuthConfig.Basic.Password))
	case req.AuthType == model.AuthAPIKey && req.AuthConfig.APIKey != nil && req.AuthConfig.APIKey.AddTo == "header":
		parts = append(parts, fmt.Sprintf("-H %q", req.AuthConfig.APIKey.Key+": "+req.AuthConfig.APIKey.Value))
	}

	switch {
	case req.Body.Type == model.BodyJSON && req.Body.Content != "":
		parts = append(parts, fmt.Sprintf("-d '%s'", escapeSingleQuotes(req.Body.Content)))
		parts = append(parts, `-H "Content-Type: application/json"`)
	case req.Body.Type == model.BodyRaw && req.Body.Content != "":
		parts = append(parts, fmt.Sprintf("--data-raw '%s'", escapeSingleQuotes(req.Body.Content)))
	case req.Body.Type == model.BodyFormData:
		for _, field := range req.Body.FormData {
			if field.Enabled {
				parts = append(parts, fmt.Sprintf("-F %q", field.Key+"="+field.Value))
			}
		}
	}

	url := req.URL
	if req.AuthType == model.AuthAPIKey && req.AuthConfig.APIKey != nil && req.AuthConfig.APIKey.AddTo == "query" {
		separator := "?"
		if strings.Contains(url, "?") {
			separator = "&"
		}
		url = url + separator + req.AuthConfig.APIKey.Key + "=" + req.AuthConfig.APIKey.Value
	}
	parts = append(parts, fmt.Sprintf("%q", url))

	return strings.Join(parts, " \\\n  ")
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}
