package domain

// EligibleReferralTargets returns, in the order of allUsers, the users
// the actor may refer work to. Pure and deterministic.
//
// Rules, in precedence order:
//   - the actor and anyone in currentAssignees are never eligible
//   - manager: other managers and every department lead
//   - lead of D: managers, leads of any department, specialists of D
//   - specialist of D: the lead of D and peer specialists of D
//   - any other role: nothing
func EligibleReferralTargets(actor *User, allUsers []User, currentAssignees map[string]struct{}) []User {
	if actor == nil {
		return nil
	}

	eligible := make([]User, 0, len(allUsers))
	for i := range allUsers {
		candidate := &allUsers[i]
		if candidate.Username == actor.Username {
			continue
		}
		if _, held := currentAssignees[candidate.Username]; held {
			continue
		}
		if roleMayReferTo(actor.Role, candidate.Role) {
			eligible = append(eligible, *candidate)
		}
	}
	return eligible
}

func roleMayReferTo(actor, target Role) bool {
	switch actor.Kind {
	case RoleKindManager:
		return target.Kind == RoleKindManager || target.Kind == RoleKindLead
	case RoleKindLead:
		if target.Kind == RoleKindManager || target.Kind == RoleKindLead {
			return true
		}
		return target.Kind == RoleKindSpecialist && target.Department == actor.Department
	case RoleKindSpecialist:
		if target.Department != actor.Department {
			return false
		}
		return target.Kind == RoleKindLead || target.Kind == RoleKindSpecialist
	default:
		return false
	}
}
