package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jesseglab/postduck/internal/model"
)

func TestRoleGrants(t *testing.T) {
	tests := []struct {
		role          model.TeamRole
		read          bool
		write         bool
		execute       bool
		manage        bool
		manageBilling bool
	}{
		{model.RoleSpaceCommander, true, true, true, true, true},
		{model.RoleStarNavigator, true, true, true, false, false},
		{model.RoleCosmicObserver, true, false, true, false, false},
		{model.TeamRole("UNKNOWN"), false, false, false, false, false},
		{model.TeamRole(""), false, false, false, false, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.role), func(t *testing.T) {
			assert.Equal(t, tc.read, CanRead(tc.role))
			assert.Equal(t, tc.write, CanWrite(tc.role))
			assert.Equal(t, tc.execute, CanExecute(tc.role))
			assert.Equal(t, tc.manage, CanManage(tc.role))
			assert.Equal(t, tc.manageBilling, CanManageBilling(tc.role))
		})
	}
}
