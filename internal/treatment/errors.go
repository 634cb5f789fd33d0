package treatment

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the service. ErrNotFound is returned both when
// a record does not exist and when it exists outside the caller's scope, so
// callers cannot probe for other users' records.
var (
	ErrForbidden = errors.New("caller is not allowed to perform this operation")
	ErrNotFound  = errors.New("treatment not found")
)

// ValidationError aggregates every constraint violation of a request, keyed
// by json field name.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// ReferenceError reports a field that points at an entity which does not
// satisfy the reference constraint, e.g. a patientId that is not a patient.
type ReferenceError struct {
	Field   string
	Message string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
