package domain

import "testing"

func policyUsers() []User {
	roles := map[string]string{
		"mgr_a":      "manager",
		"mgr_b":      "manager",
		"lead_sales": "lead of sales",
		"lead_supp":  "lead of support",
		"spec_sales": "specialist of sales",
		"spec_sale2": "specialist of sales",
		"spec_supp":  "specialist of support",
		"nobody":     "intern",
	}
	order := []string{"mgr_a", "mgr_b", "lead_sales", "lead_supp", "spec_sales", "spec_sale2", "spec_supp", "nobody"}
	users := make([]User, 0, len(order))
	for _, name := range order {
		users = append(users, User{Username: name, Role: ParseRole(roles[name])})
	}
	return users
}

func usernames(users []User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	return names
}

func equalNames(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestEligibleReferralTargets(t *testing.T) {
	users := policyUsers()
	byName := map[string]*User{}
	for i := range users {
		byName[users[i].Username] = &users[i]
	}

	tests := []struct {
		name      string
		actor     string
		assignees map[string]struct{}
		want      []string
	}{
		{
			name:  "manager refers to managers and leads",
			actor: "mgr_a",
			want:  []string{"mgr_b", "lead_sales", "lead_supp"},
		},
		{
			name:  "lead refers to managers leads and own specialists",
			actor: "lead_sales",
			want:  []string{"mgr_a", "mgr_b", "lead_supp", "spec_sales", "spec_sale2"},
		},
		{
			name:  "specialist refers within department",
			actor: "spec_sales",
			want:  []string{"lead_sales", "spec_sale2"},
		},
		{
			name:  "unknown role refers to nobody",
			actor: "nobody",
			want:  []string{},
		},
		{
			name:      "current assignee excluded",
			actor:     "spec_sales",
			assignees: map[string]struct{}{"spec_sale2": {}},
			want:      []string{"lead_sales"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usernames(EligibleReferralTargets(byName[tt.actor], users, tt.assignees))
			if !equalNames(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEligibleTargetsNeverIncludesActor(t *testing.T) {
	users := policyUsers()
	for i := range users {
		for _, target := range EligibleReferralTargets(&users[i], users, nil) {
			if target.Username == users[i].Username {
				t.Errorf("actor %s appeared in own target list", users[i].Username)
			}
		}
	}
}

func TestSpecialistCannotCrossDepartments(t *testing.T) {
	users := policyUsers()
	var actor *User
	for i := range users {
		if users[i].Username == "spec_sales" {
			actor = &users[i]
		}
	}
	for _, target := range EligibleReferralTargets(actor, users, nil) {
		if target.Role.Department != DepartmentSales {
			t.Errorf("sales specialist may not refer to %s (%s)", target.Username, target.Role.String())
		}
	}
}

func TestNilActorHasNoTargets(t *testing.T) {
	if got := EligibleReferralTargets(nil, policyUsers(), nil); got != nil {
		t.Errorf("nil actor should produce nil, got %v", usernames(got))
	}
}
