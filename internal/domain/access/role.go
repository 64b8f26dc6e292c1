package access

import "strings"

// Role is the closed set of access roles recognized by the system.
// The raw FUNCAO label from AD_USUARIOSVENDAS is converted exactly once,
// at the point where it is read; call sites compare Role values only.
type Role string

const (
	RoleAdministrator Role = "ADMINISTRATOR"
	RoleManager       Role = "MANAGER"
	RoleSalesperson   Role = "SALESPERSON"
	RoleOther         Role = "OTHER"
)

// Legacy function labels as stored in the ERP. The admin label appears in
// two spellings across installations.
const (
	labelAdminPT = "ADMINISTRADOR"
	labelAdminEN = "ADMIN"
	labelManager = "GERENTE"
	labelSeller  = "VENDEDOR"
)

// RoleFromLabel maps a raw function label to a Role. Matching is
// case-insensitive; unknown labels map to RoleOther.
func RoleFromLabel(label string) Role {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case labelAdminPT, labelAdminEN:
		return RoleAdministrator
	case labelManager:
		return RoleManager
	case labelSeller:
		return RoleSalesperson
	default:
		return RoleOther
	}
}

// IsAdmin reports whether the role is Administrator.
func (r Role) IsAdmin() bool {
	return r == RoleAdministrator
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
