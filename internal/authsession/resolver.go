// Package authsession holds the workspace-wide captured-credential logic:
// deciding which session is globally active and extracting tokens from
// responses to create or refresh sessions.
package authsession

import (
	"time"

	"github.com/jesseglab/postduck/internal/model"
)

// IsExpired reports whether a session has passed its expiry. Sessions
// without an expiry never expire.
func IsExpired(s model.AuthSession, now time.Time) bool {
	if s.ExpiresAt == nil {
		return false
	}
	return !now.Before(*s.ExpiresAt)
}

// ActiveSession returns the single globally-active session: the most
// recently updated among the non-expired ones, or nil. It is a pure query
// over the passed snapshot; callers must re-fetch sessions before each
// dispatch since sessions can expire or be superseded between calls.
func ActiveSession(sessions []model.AuthSession, now time.Time) *model.AuthSession {
	var active *model.AuthSession
	for i := range sessions {
		s := &sessions[i]
		if IsExpired(*s, now) {
			continue
		}
		if active == nil || s.UpdatedAt.After(active.UpdatedAt) {
			active = s
		}
	}
	return active
}
