package domain

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		raw        string
		kind       RoleKind
		department Department
	}{
		{"manager", RoleKindManager, ""},
		{"Manager", RoleKindManager, ""},
		{"lead of sales", RoleKindLead, DepartmentSales},
		{"lead of engineering", RoleKindLead, DepartmentEngineering},
		{"specialist of support", RoleKindSpecialist, DepartmentSupport},
		{"  specialist of sales  ", RoleKindSpecialist, DepartmentSales},
		{"intern", RoleKindUnknown, ""},
		{"", RoleKindUnknown, ""},
		{"lead", RoleKindUnknown, ""},
	}

	for _, tt := range tests {
		role := ParseRole(tt.raw)
		if role.Kind != tt.kind || role.Department != tt.department {
			t.Errorf("ParseRole(%q) = {%s %s}, want {%s %s}",
				tt.raw, role.Kind, role.Department, tt.kind, tt.department)
		}
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	for _, raw := range []string{"manager", "lead of sales", "specialist of support"} {
		if got := ParseRole(raw).String(); got != raw {
			t.Errorf("round trip of %q produced %q", raw, got)
		}
	}
}

func TestUnknownRoleRendersEmpty(t *testing.T) {
	if got := ParseRole("whatever").String(); got != "" {
		t.Errorf("unknown role rendered %q, want empty", got)
	}
}
