package auth

import "strings"

// Role is the closed set of actor roles recognized by the service.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleDoctor        Role = "doctor"
	RoleNurse         Role = "nurse"
	RoleLabTechnician Role = "lab_technician"
	RolePatient       Role = "patient"
	RoleCashier       Role = "cashier"
)

var knownRoles = map[Role]bool{
	RoleAdmin:         true,
	RoleDoctor:        true,
	RoleNurse:         true,
	RoleLabTechnician: true,
	RolePatient:       true,
	RoleCashier:       true,
}

// ParseRole normalizes a role claim ("ADMIN", "Lab_Technician") and reports
// whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, knownRoles[r]
}

// ParseRoles keeps the known roles of a claim list, dropping duplicates.
func ParseRoles(claims []string) []Role {
	seen := make(map[Role]bool, len(claims))
	out := make([]Role, 0, len(claims))
	for _, c := range claims {
		r, ok := ParseRole(c)
		if !ok || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// Has reports whether roles contains r.
func Has(roles []Role, r Role) bool {
	for _, have := range roles {
		if have == r {
			return true
		}
	}
	return false
}
