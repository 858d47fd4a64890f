package authsession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesseglab/postduck/internal/model"
)

func ptr(t time.Time) *time.Time { return &t }

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		session model.AuthSession
		want    bool
	}{
		{
			name:    "no expiry never expires",
			session: model.AuthSession{},
			want:    false,
		},
		{
			name:    "future expiry",
			session: model.AuthSession{ExpiresAt: ptr(now.Add(time.Hour))},
			want:    false,
		},
		{
			name:    "past expiry",
			session: model.AuthSession{ExpiresAt: ptr(now.Add(-time.Hour))},
			want:    true,
		},
		{
			name:    "expiry exactly now",
			session: model.AuthSession{ExpiresAt: ptr(now)},
			want:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsExpired(tc.session, now))
		})
	}
}

func TestActiveSessionPicksMostRecentlyUpdated(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := []model.AuthSession{
		{ID: "old", UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: "new", UpdatedAt: now.Add(-time.Minute)},
		{ID: "middle", UpdatedAt: now.Add(-time.Hour)},
	}

	active := ActiveSession(sessions, now)
	require.NotNil(t, active)
	assert.Equal(t, "new", active.ID)
}

func TestActiveSessionSkipsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := []model.AuthSession{
		{ID: "fresh-but-expired", UpdatedAt: now, ExpiresAt: ptr(now.Add(-time.Second))},
		{ID: "older-but-valid", UpdatedAt: now.Add(-time.Hour)},
	}

	active := ActiveSession(sessions, now)
	require.NotNil(t, active)
	assert.Equal(t, "older-but-valid", active.ID)
}

func TestActiveSessionNoneValid(t *testing.T) {
	now := time.Now()
	sessions := []model.AuthSession{
		{ID: "expired", UpdatedAt: now, ExpiresAt: ptr(now.Add(-time.Second))},
	}

	assert.Nil(t, ActiveSession(sessions, now))
	assert.Nil(t, ActiveSession(nil, now))
}
