package curl

import (
	"fmt"
	"strings"
)

// splitTokens performs shell-style tokenization: single and double quotes
// group characters, a backslash takes the next character literally, and
// unquoted whitespace splits tokens.
func splitTokens(input string) ([]string, error) {
	var (
		tokens        []string
		current       strings.Builder
		inSingleQuote bool
		inDoubleQuote bool
		escape        bool
		hasToken      bool
	)

	flush := func() {
		if hasToken {
			tokens = append(tokens, current.String())
			current.Reset()
			hasToken = false
		}
	}

	for _, r := range input {
		if escape {
			current.WriteRune(r)
			hasToken = true
			escape = false
			continue
		}

		switch {
		case r == '\\':
			escape = true
		case r == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			hasToken = true
		case r == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			hasToken = true
		case isWhitespace(r) && !inSingleQuote && !inDoubleQuote:
			flush()
		default:
			current.WriteRune(r)
			hasToken = true
		}
	}

	if escape {
		return nil, fmt.Errorf("unterminated escape sequence")
	}
	if inSingleQuote || inDoubleQuote {
		return nil, fmt.Errorf("unterminated quoted string")
	}

	flush()
	return tokens, nil
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// normalizeCommand joins line continuations and collapses runs of
// whitespace so multi-line curl commands tokenize like one-liners.
func normalizeCommand(command string) string {
	joined := strings.ReplaceAll(command, "\\\r\n", " ")
	joined = strings.ReplaceAll(joined, "\\\n", " ")
	return strings.TrimSpace(joined)
}
