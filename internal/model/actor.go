package model

// Role is the closed set of user roles known to the system.
// Policy decisions switch on this type; string comparison against raw
// request values happens only at the parse boundary.
type Role string

const (
	RoleAdmin            Role = "admin"
	RoleCouncilPresident Role = "council_president"
	RoleVicePresident    Role = "vice_president"
	RoleGeneralSecretary Role = "general_secretary"
	RoleDeputySecretary  Role = "deputy_secretary"
	RoleJudge            Role = "judge"
	RoleCourtPresident   Role = "court_president"
	RolePressDirector    Role = "press_director"
	RolePressTechnician  Role = "press_technician"
)

var validRoles = map[Role]bool{
	RoleAdmin:            true,
	RoleCouncilPresident: true,
	RoleVicePresident:    true,
	RoleGeneralSecretary: true,
	RoleDeputySecretary:  true,
	RoleJudge:            true,
	RoleCourtPresident:   true,
	RolePressDirector:    true,
	RolePressTechnician:  true,
}

// ParseRole validates a raw role string (e.g. from a token claim).
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, validRoles[r]
}

func (r Role) String() string { return string(r) }

// IsValid reports whether the role belongs to the closed enumeration.
func (r Role) IsValid() bool { return validRoles[r] }

// Actor is the acting user as resolved from the session.
// Immutable for the duration of a request.
type Actor struct {
	ID           string `json:"id"`
	Role         Role   `json:"role"`
	DepartmentID string `json:"department_id"`
}

// IsZero reports whether no actor was resolved. A zero actor is treated
// as unauthenticated and denied everything by the policy engine.
func (a Actor) IsZero() bool { return a.ID == "" }
