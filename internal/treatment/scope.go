package treatment

import (
	"earcare-app-server/internal/models"

	"gorm.io/gorm"
)

// Identity is the authenticated caller an operation acts on behalf of.
type Identity struct {
	UserID string
	Roles  []models.Role
}

// HasRole reports whether the caller holds the given role.
func (id Identity) HasRole(r models.Role) bool {
	for _, role := range id.Roles {
		if role == r {
			return true
		}
	}
	return false
}

// Capability gates an entire operation, independent of row-level scope.
type Capability int

const (
	CapRead Capability = iota
	CapWrite
	CapStatistics
	CapListPatients
)

// Allowed is the capability check executed as the first step of every
// operation. Writes, statistics and the patient directory are doctor-only;
// a patient is denied those even within their own scope.
func (id Identity) Allowed(cap Capability) bool {
	switch cap {
	case CapRead:
		return id.HasRole(models.RoleDoctor) || id.HasRole(models.RolePatient)
	case CapWrite, CapStatistics, CapListPatients:
		return id.HasRole(models.RoleDoctor)
	}
	return false
}

// Scope is the subset of treatments a caller is authorized to read or act on.
// The zero value means unrestricted; deny means the empty set.
type Scope struct {
	deny      bool
	doctorID  string
	patientID string
}

// ResolveScope computes the row-level scope for a caller. It is the sole
// authorization boundary for row access: every list, show, update, delete and
// statistics query goes through the scope it returns.
//
// Doctors see everything unless they ask for mineOnly, which narrows to
// treatments they created. Patients see their own treatments unconditionally;
// mineOnly is ignored for them. Any other caller gets the empty set.
func ResolveScope(caller Identity, mineOnly bool) Scope {
	switch {
	case caller.HasRole(models.RoleDoctor):
		if mineOnly {
			return Scope{doctorID: caller.UserID}
		}
		return Scope{}
	case caller.HasRole(models.RolePatient):
		return Scope{patientID: caller.UserID}
	default:
		return Scope{deny: true}
	}
}

// Denied reports whether the scope is the empty set.
func (s Scope) Denied() bool {
	return s.deny
}

// Apply narrows a treatments query to the scope. Soft-deleted rows are
// already excluded by GORM's default DeletedAt handling.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.deny {
		return db.Where("1 = 0")
	}
	if s.doctorID != "" {
		db = db.Where("doctor_id = ?", s.doctorID)
	}
	if s.patientID != "" {
		db = db.Where("patient_id = ?", s.patientID)
	}
	return db
}
