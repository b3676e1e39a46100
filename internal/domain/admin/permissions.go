package admin

// Permission represents an admin permission
type Permission string

const (
	// Catalog
	PermViewInstitutions Permission = "institutions.view"
	PermEditInstitutions Permission = "institutions.edit"

	// System
	PermManageAdmins  Permission = "admins.manage"
	PermViewAuditLogs Permission = "audit.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermViewInstitutions, PermEditInstitutions,
		PermManageAdmins, PermViewAuditLogs,
	},
	RoleAdmin: {
		PermViewInstitutions, PermEditInstitutions,
		PermViewAuditLogs,
	},
	RoleEditor: {
		PermViewInstitutions, PermEditInstitutions,
	},
	RoleViewer: {
		PermViewInstitutions,
	},
}

// RoleHierarchy defines role levels (higher = more permissions)
var RoleHierarchy = map[Role]int{
	RoleSuperAdmin: 100,
	RoleAdmin:      80,
	RoleEditor:     60,
	RoleViewer:     40,
}

// RoleHasPermission reports whether role grants perm
func RoleHasPermission(role Role, perm Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// CanManage checks if role1 can manage role2
func CanManage(role1, role2 Role) bool {
	return RoleHierarchy[role1] > RoleHierarchy[role2]
}
