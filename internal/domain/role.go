package domain

import "strings"

// RoleKind is the shape of a role, independent of department.
type RoleKind string

const (
	RoleKindManager    RoleKind = "MANAGER"
	RoleKindLead       RoleKind = "LEAD"
	RoleKindSpecialist RoleKind = "SPECIALIST"
	RoleKindUnknown    RoleKind = "UNKNOWN"
)

// Department names an organizational unit. Free-form by design; the
// policy only ever compares departments for equality.
type Department string

const (
	DepartmentSales       Department = "sales"
	DepartmentSupport     Department = "support"
	DepartmentEngineering Department = "engineering"
)

// Role is the parsed form of the stored role string. Managers carry no
// department.
type Role struct {
	Kind       RoleKind
	Department Department
}

const (
	roleManager      = "manager"
	leadPrefix       = "lead of "
	specialistPrefix = "specialist of "
)

// ParseRole parses a stored role string such as "manager",
// "lead of sales" or "specialist of support". Unrecognized strings
// yield RoleKindUnknown, which holds no referral privileges.
func ParseRole(raw string) Role {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case normalized == roleManager:
		return Role{Kind: RoleKindManager}
	case strings.HasPrefix(normalized, leadPrefix):
		return Role{
			Kind:       RoleKindLead,
			Department: Department(strings.TrimSpace(strings.TrimPrefix(normalized, leadPrefix))),
		}
	case strings.HasPrefix(normalized, specialistPrefix):
		return Role{
			Kind:       RoleKindSpecialist,
			Department: Department(strings.TrimSpace(strings.TrimPrefix(normalized, specialistPrefix))),
		}
	default:
		return Role{Kind: RoleKindUnknown}
	}
}

// String renders the role back to its stored form. Unknown roles
// render empty.
func (r Role) String() string {
	switch r.Kind {
	case RoleKindManager:
		return roleManager
	case RoleKindLead:
		return leadPrefix + string(r.Department)
	case RoleKindSpecialist:
		return specialistPrefix + string(r.Department)
	default:
		return ""
	}
}

// IsManager reports whether the role is the manager role.
func (r Role) IsManager() bool {
	return r.Kind == RoleKindManager
}
