package treatment

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package validator; field names in violation reports come
// from json tags so clients can match them against their payload.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateInput is the payload for creating a treatment. The doctor is taken
// from the caller, never from the payload.
type CreateInput struct {
	PatientID      string `json:"patientId" validate:"required,uuid"`
	TreatmentDate  string `json:"treatmentDate" validate:"required,datetime=2006-01-02"`
	Complaint      string `json:"complaint" validate:"required,max=1000"`
	MedicalHistory string `json:"medicalHistory" validate:"omitempty,max=1000"`
	Diagnosis      string `json:"diagnosis" validate:"omitempty,max=500"`
	EarAffected    string `json:"earAffected" validate:"required,oneof=left right both"`
	Action         string `json:"action" validate:"omitempty,max=1000"`
	Status         string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// Validate checks the create payload and aggregates every violation rather
// than stopping at the first one.
func (in CreateInput) Validate() error {
	return checkStruct(in)
}

// UpdateInput is the partial payload for updating a treatment. Only supplied
// fields are validated and applied; nil means "leave untouched".
type UpdateInput struct {
	TreatmentDate  *string `json:"treatmentDate" validate:"omitempty,datetime=2006-01-02"`
	Complaint      *string `json:"complaint" validate:"omitempty,max=1000"`
	MedicalHistory *string `json:"medicalHistory" validate:"omitempty,max=1000"`
	Diagnosis      *string `json:"diagnosis" validate:"omitempty,max=500"`
	EarAffected    *string `json:"earAffected" validate:"omitempty,oneof=left right both"`
	Action         *string `json:"action" validate:"omitempty,max=1000"`
	Status         *string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

// Validate checks whichever fields are present, same constraints as create.
func (in UpdateInput) Validate() error {
	return checkStruct(in)
}

func checkStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], messageFor(fe))
	}
	return &ValidationError{Fields: fields}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "must be a valid date in YYYY-MM-DD format"
	case "uuid":
		return "must be a valid uuid"
	default:
		return fmt.Sprintf("failed the '%s' constraint", fe.Tag())
	}
}
