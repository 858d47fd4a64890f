// Package permissions maps team roles to the actions they allow.
package permissions

import "github.com/jesseglab/postduck/internal/model"

type Permission string

const (
	ManageTeam    Permission = "manage:team"
	ManageBilling Permission = "manage:billing"
	WriteAll      Permission = "write:all"
	ReadAll       Permission = "read:all"
	ExecuteAll    Permission = "execute:all"
)

var rolePermissions = map[model.TeamRole][]Permission{
	model.RoleSpaceCommander: {ManageTeam, ManageBilling, WriteAll, ReadAll, ExecuteAll},
	model.RoleStarNavigator:  {WriteAll, ReadAll, ExecuteAll},
	model.RoleCosmicObserver: {ReadAll, ExecuteAll},
}

// HasPermission reports whether the role grants the permission. Unknown
// roles grant nothing.
func HasPermission(role model.TeamRole, permission Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

func CanRead(role model.TeamRole) bool {
	return HasPermission(role, ReadAll)
}

func CanWrite(role model.TeamRole) bool {
	return HasPermission(role, WriteAll)
}

func CanExecute(role model.TeamRole) bool {
	return HasPermission(role, ExecuteAll)
}

func CanManage(role model.TeamRole) bool {
	return HasPermission(role, ManageTeam)
}

func CanManageBilling(role model.TeamRole) bool {
	return HasPermission(role, ManageBilling)
}
