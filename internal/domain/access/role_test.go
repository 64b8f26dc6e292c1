package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Role
	}{
		{"Administrador", RoleAdministrator},
		{"ADMINISTRADOR", RoleAdministrator},
		{"ADMIN", RoleAdministrator},
		{"admin", RoleAdministrator},
		{"  Admin  ", RoleAdministrator},
		{"Gerente", RoleManager},
		{"GERENTE", RoleManager},
		{"Vendedor", RoleSalesperson},
		{"vendedor", RoleSalesperson},
		{"Usuário", RoleOther},
		{"", RoleOther},
		{"Supervisor", RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleFromLabel(tt.label))
		})
	}
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleAdministrator.IsAdmin())
	assert.False(t, RoleManager.IsAdmin())
	assert.False(t, RoleSalesperson.IsAdmin())
	assert.False(t, RoleOther.IsAdmin())
}
