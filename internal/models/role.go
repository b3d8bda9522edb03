package models

type Role string

const (
	RoleStandard Role = "standard"
	RoleStudent  Role = "student"
	RoleAlumni   Role = "alumni"
	RoleFaculty  Role = "faculty"
	RoleAdmin    Role = "admin"
)

var Roles = []Role{RoleStandard, RoleStudent, RoleAlumni, RoleFaculty, RoleAdmin}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// CanManageEvents reports whether the role may create events and run check-in.
func (r Role) CanManageEvents() bool {
	return r == RoleFaculty || r == RoleAdmin
}
