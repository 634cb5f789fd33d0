package models

import (
	"time"

	"gorm.io/gorm"
)

// EarSide represents which ear a treatment concerns
type EarSide string

const (
	EarLeft  EarSide = "left"
	EarRight EarSide = "right"
	EarBoth  EarSide = "both"
)

// TreatmentStatus represents the lifecycle status of a treatment.
// Completed and cancelled are terminal by convention only; no transition
// rules are enforced.
type TreatmentStatus string

const (
	StatusPending   TreatmentStatus = "pending"
	StatusCompleted TreatmentStatus = "completed"
	StatusCancelled TreatmentStatus = "cancelled"
)

// Treatment represents one clinical encounter between a doctor and a patient.
// DoctorID is always the creating doctor and never changes after creation.
type Treatment struct {
	BaseModel
	PatientID      string          `gorm:"size:36;index:idx_treatments_patient_created;not null" json:"patientId"`
	DoctorID       string          `gorm:"size:36;index;not null" json:"doctorId"`
	TreatmentDate  time.Time       `gorm:"type:date;index;not null" json:"treatmentDate"`
	Complaint      string          `gorm:"type:text;not null" json:"complaint"`
	MedicalHistory string          `gorm:"type:text" json:"medicalHistory,omitempty"`
	Diagnosis      string          `gorm:"size:500" json:"diagnosis,omitempty"`
	EarAffected    EarSide         `gorm:"size:10;not null" json:"earAffected"`
	Action         string          `gorm:"type:text" json:"action,omitempty"`
	Status         TreatmentStatus `gorm:"size:20;default:'pending';index" json:"status"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations, preloaded explicitly where a response embeds them
	Patient *User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"-"`
}

// ValidEarSide reports whether s is one of the persistable ear values.
func ValidEarSide(s EarSide) bool {
	return s == EarLeft || s == EarRight || s == EarBoth
}

// ValidTreatmentStatus reports whether s is one of the persistable statuses.
func ValidTreatmentStatus(s TreatmentStatus) bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCancelled
}

// TreatmentSanitized is the API view of a treatment with embedded
// patient and doctor summaries.
type TreatmentSanitized struct {
	ID             string          `json:"id"`
	PatientID      string          `json:"patientId"`
	DoctorID       string          `json:"doctorId"`
	TreatmentDate  string          `json:"treatmentDate"`
	Complaint      string          `json:"complaint"`
	MedicalHistory string          `json:"medicalHistory,omitempty"`
	Diagnosis      string          `json:"diagnosis,omitempty"`
	EarAffected    EarSide         `json:"earAffected"`
	Action         string          `json:"action,omitempty"`
	Status         TreatmentStatus `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	Patient        *PersonSummary  `json:"patient,omitempty"`
	Doctor         *PersonSummary  `json:"doctor,omitempty"`
}

// Sanitize creates a TreatmentSanitized from a Treatment model. Relations are
// embedded only when they were preloaded.
func (t *Treatment) Sanitize() TreatmentSanitized {
	out := TreatmentSanitized{
		ID:             t.ID,
		PatientID:      t.PatientID,
		DoctorID:       t.DoctorID,
		TreatmentDate:  t.TreatmentDate.Format(time.DateOnly),
		Complaint:      t.Complaint,
		MedicalHistory: t.MedicalHistory,
		Diagnosis:      t.Diagnosis,
		EarAffected:    t.EarAffected,
		Action:         t.Action,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.Patient != nil {
		p := t.Patient.Summary()
		out.Patient = &p
	}
	if t.Doctor != nil {
		d := t.Doctor.Summary()
		out.Doctor = &d
	}
	return out
}
