package treatment

import (
	"testing"

	"earcare-app-server/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveScope(t *testing.T) {
	doctor := Identity{UserID: "doc-1", Roles: []models.Role{models.RoleDoctor}}
	patient := Identity{UserID: "pat-1", Roles: []models.Role{models.RolePatient}}
	admin := Identity{UserID: "adm-1", Roles: []models.Role{models.RoleAdmin}}
	nobody := Identity{UserID: "x"}

	tests := []struct {
		name     string
		caller   Identity
		mineOnly bool
		want     Scope
	}{
		{"doctor sees everything", doctor, false, Scope{}},
		{"doctor narrowed to own records", doctor, true, Scope{doctorID: "doc-1"}},
		{"patient pinned to own records", patient, false, Scope{patientID: "pat-1"}},
		{"patient cannot widen via mineOnly", patient, true, Scope{patientID: "pat-1"}},
		{"admin has no treatment scope", admin, false, Scope{deny: true}},
		{"no roles means empty set", nobody, false, Scope{deny: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveScope(tt.caller, tt.mineOnly))
		})
	}
}

func TestCapabilities(t *testing.T) {
	doctor := Identity{UserID: "doc-1", Roles: []models.Role{models.RoleDoctor}}
	patient := Identity{UserID: "pat-1", Roles: []models.Role{models.RolePatient}}
	admin := Identity{UserID: "adm-1", Roles: []models.Role{models.RoleAdmin}}

	assert.True(t, doctor.Allowed(CapRead))
	assert.True(t, doctor.Allowed(CapWrite))
	assert.True(t, doctor.Allowed(CapStatistics))
	assert.True(t, doctor.Allowed(CapListPatients))

	// A patient may read within their scope but never mutate or aggregate
	assert.True(t, patient.Allowed(CapRead))
	assert.False(t, patient.Allowed(CapWrite))
	assert.False(t, patient.Allowed(CapStatistics))
	assert.False(t, patient.Allowed(CapListPatients))

	assert.False(t, admin.Allowed(CapRead))
	assert.False(t, admin.Allowed(CapWrite))
}

func TestHasRole(t *testing.T) {
	id := Identity{UserID: "u", Roles: []models.Role{models.RoleDoctor, models.RolePatient}}
	assert.True(t, id.HasRole(models.RoleDoctor))
	assert.True(t, id.HasRole(models.RolePatient))
	assert.False(t, id.HasRole(models.RoleAdmin))
}
