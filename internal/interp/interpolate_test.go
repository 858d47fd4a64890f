package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jesseglab/postduck/internal/model"
)

func testEnv(vars map[string]string) *model.Environment {
	env := &model.Environment{Name: "test"}
	for k, v := range vars {
		env.Variables = append(env.Variables, model.EnvironmentVariable{Key: k, Value: v})
	}
	return env
}

func TestVariables(t *testing.T) {
	env := testEnv(map[string]string{
		"baseUrl": "https://api.example.com",
		"token":   "abc123",
	})

	tests := []struct {
		name string
		in   string
		env  *model.Environment
		want string
	}{
		{
			name: "single token",
			in:   "{{baseUrl}}/users",
			env:  env,
			want: "https://api.example.com/users",
		},
		{
			name: "multiple tokens",
			in:   "{{baseUrl}}/auth?t={{token}}",
			env:  env,
			want: "https://api.example.com/auth?t=abc123",
		},
		{
			name: "whitespace inside token is trimmed",
			in:   "{{ baseUrl }}/users",
			env:  env,
			want: "https://api.example.com/users",
		},
		{
			name: "unmatched token left verbatim",
			in:   "{{missing}}/users",
			env:  env,
			want: "{{missing}}/users",
		},
		{
			name: "nil environment returns input",
			in:   "{{baseUrl}}/users",
			env:  nil,
			want: "{{baseUrl}}/users",
		},
		{
			name: "no tokens",
			in:   "https://plain.example.com",
			env:  env,
			want: "https://plain.example.com",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Variables(tc.in, tc.env))
		})
	}
}

func TestVariablesIdempotent(t *testing.T) {
	env := testEnv(map[string]string{"host": "example.com"})

	in := "https://{{host}}/v1"
	once := Variables(in, env)
	twice := Variables(once, env)
	assert.Equal(t, once, twice)
}

func TestRequest(t *testing.T) {
	env := testEnv(map[string]string{
		"base":  "https://api.example.com",
		"key":   "X-Api-Key",
		"value": "secret",
		"name":  "duck",
	})

	url, headers, body := Request(
		"{{base}}/ducks",
		map[string]string{"{{key}}": "{{value}}", "Accept": "application/json"},
		`{"name":"{{name}}"}`,
		env,
	)

	assert.Equal(t, "https://api.example.com/ducks", url)
	assert.Equal(t, map[string]string{
		"X-Api-Key": "secret",
		"Accept":    "application/json",
	}, headers)
	assert.Equal(t, `{"name":"duck"}`, body)
}

func TestUnresolvedVariables(t *testing.T) {
	got := UnresolvedVariables("https://{{host}}/x/{{ path }}/{{host}}")
	assert.Equal(t, []string{"{{host}}", "{{ path }}", "{{host}}"}, got)

	assert.Empty(t, UnresolvedVariables("https://example.com"))
}
