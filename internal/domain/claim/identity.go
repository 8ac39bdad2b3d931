package claim

// Role is one of the fixed workflow roles
type Role string

const (
	RoleLecturer    Role = "LECTURER"
	RoleCoordinator Role = "COORDINATOR"
	RoleManager     Role = "MANAGER"
	RoleHR          Role = "HR"
)

var validRoles = map[Role]bool{
	RoleLecturer:    true,
	RoleCoordinator: true,
	RoleManager:     true,
	RoleHR:          true,
}

// IsValid returns true if the role is one of the fixed workflow roles
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Identity describes the acting caller as supplied by the external identity
// provider. The engine never looks identities up itself.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Roles  []Role `json:"roles"`
}

// HasRole returns true if the identity carries the given role
func (i Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
