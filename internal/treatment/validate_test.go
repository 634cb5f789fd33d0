package treatment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validCreateInput() CreateInput {
	return CreateInput{
		PatientID:     "0b8a5c3e-4f43-4f2b-9f39-6f2f4a3f9a11",
		TreatmentDate: "2025-06-15",
		Complaint:     "Ear pain and ringing",
		EarAffected:   "left",
	}
}

func TestCreateInputValidate(t *testing.T) {
	assert.NoError(t, validCreateInput().Validate())
}

func TestCreateInputValidateAggregatesAllViolations(t *testing.T) {
	err := CreateInput{}.Validate()

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	// Every missing required field shows up, not just the first
	assert.Contains(t, vErr.Fields, "patientId")
	assert.Contains(t, vErr.Fields, "treatmentDate")
	assert.Contains(t, vErr.Fields, "complaint")
	assert.Contains(t, vErr.Fields, "earAffected")
	assert.Len(t, vErr.Fields, 4)
}

func TestCreateInputValidateFieldConstraints(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateInput)
		field   string
		message string
	}{
		{
			"patient id must be a uuid",
			func(in *CreateInput) { in.PatientID = "42" },
			"patientId", "uuid",
		},
		{
			"treatment date must be a calendar date",
			func(in *CreateInput) { in.TreatmentDate = "15-06-2025" },
			"treatmentDate", "YYYY-MM-DD",
		},
		{
			"complaint capped at 1000 chars",
			func(in *CreateInput) { in.Complaint = strings.Repeat("a", 1001) },
			"complaint", "at most 1000",
		},
		{
			"diagnosis capped at 500 chars",
			func(in *CreateInput) { in.Diagnosis = strings.Repeat("a", 501) },
			"diagnosis", "at most 500",
		},
		{
			"ear side is an enum",
			func(in *CreateInput) { in.EarAffected = "middle" },
			"earAffected", "one of",
		},
		{
			"status is an enum",
			func(in *CreateInput) { in.Status = "done" },
			"status", "one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateInput()
			tt.mutate(&in)

			var vErr *ValidationError
			assert.ErrorAs(t, in.Validate(), &vErr)
			assert.Len(t, vErr.Fields, 1)
			assert.Contains(t, vErr.Fields, tt.field)
			assert.Contains(t, vErr.Fields[tt.field][0], tt.message)
		})
	}
}

func TestUpdateInputValidateOnlySuppliedFields(t *testing.T) {
	// No fields supplied is a valid (no-op) update payload
	assert.NoError(t, UpdateInput{}.Validate())

	status := "completed"
	assert.NoError(t, UpdateInput{Status: &status}.Validate())

	badStatus := "selesai"
	longComplaint := strings.Repeat("a", 1001)
	err := UpdateInput{Status: &badStatus, Complaint: &longComplaint}.Validate()

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 2)
	assert.Contains(t, vErr.Fields, "status")
	assert.Contains(t, vErr.Fields, "complaint")
}
