// Package form implements the task-record editing session: field updates,
// start/due/duration reconciliation, approval gating on submission and
// attachment collection. It never persists anything and never logs;
// callers supply the submit handler and surface reported issues.
package form

import (
	"errors"
	"fmt"

	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

// Usage errors. Field content never produces an error.
var (
	ErrClosed        = errors.New("form session is closed")
	ErrReadOnlyField = errors.New("field is read-only")
	ErrUnknownField  = errors.New("unknown field")
)

// Field names an editable task field.
type Field string

// Fields accepted by Session.Set.
const (
	FieldMarketRef        Field = "market_ref"
	FieldTitle            Field = "title"
	FieldStatus           Field = "status"
	FieldCoordination     Field = "coordination"
	FieldStartDate        Field = "start_date"
	FieldDueDate          Field = "due_date"
	FieldDuration         Field = "duration"
	FieldAssignedResource Field = "assigned_resource"
	FieldDocumentName     Field = "document_name"
)

// Fields lists every field in display order.
var Fields = []Field{
	FieldMarketRef,
	FieldTitle,
	FieldStatus,
	FieldCoordination,
	FieldStartDate,
	FieldDueDate,
	FieldDuration,
	FieldAssignedResource,
	FieldDocumentName,
}

// ParseField converts a field name to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// schedule reports whether f is one of the start/due/duration triplet.
func (f Field) schedule() bool {
	return f == FieldStartDate || f == FieldDueDate || f == FieldDuration
}

// User is the acting user. The form only reads it.
type User struct {
	ID           string `json:"id" validate:"required,max=64,printascii"`
	Role         string `json:"role" validate:"omitempty,max=64,printascii"`
	Coordination string `json:"coordination,omitempty" validate:"omitempty,max=64"`
}

// Issue describes an input the form accepted but could not use.
type Issue struct {
	Field  Field
	Input  string
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %q %s", i.Field, i.Input, i.Reason)
}

// SubmitFunc receives the assembled record.
type SubmitFunc func(task.Task) error
