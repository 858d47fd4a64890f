package executor

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesseglab/postduck/internal/model"
)

func TestParseSetCookie(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *model.ParsedCookie
	}{
		{
			name: "full attribute set",
			raw:  "sid=abc123; Domain=example.com; Path=/; Expires=Wed, 21 Oct 2026 07:28:00 GMT; HttpOnly",
			want: &model.ParsedCookie{
				Name:    "sid",
				Value:   "abc123",
				Domain:  "example.com",
				Path:    "/",
				Expires: "Wed, 21 Oct 2026 07:28:00 GMT",
			},
		},
		{
			name: "value containing equals",
			raw:  "token=a=b=c; Path=/api",
			want: &model.ParsedCookie{Name: "token", Value: "a=b=c", Path: "/api"},
		},
		{
			name: "unknown attributes ignored",
			raw:  "sid=abc; Secure; SameSite=Lax; Max-Age=3600",
			want: &model.ParsedCookie{Name: "sid", Value: "abc"},
		},
		{
			name: "empty value",
			raw:  "cleared=; Path=/",
			want: &model.ParsedCookie{Name: "cleared", Value: "", Path: "/"},
		},
		{
			name: "empty name is dropped",
			raw:  "=orphan; Path=/",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSetCookie(tc.raw))
		})
	}
}

func TestCollectCookiesPreservesOrder(t *testing.T) {
	h := http.Header{}
	h.Add("Set-Cookie", "first=1; Path=/")
	h.Add("Set-Cookie", "second=2; Domain=example.com")

	cookies := CollectCookies(h)
	require.Len(t, cookies, 2)
	assert.Equal(t, "first", cookies[0].Name)
	assert.Equal(t, "second", cookies[1].Name)
	assert.Equal(t, "example.com", cookies[1].Domain)
}

func TestCollectCookiesEmpty(t *testing.T) {
	assert.Nil(t, CollectCookies(http.Header{}))
}
