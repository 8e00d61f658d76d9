package value

import (
	"fmt"

	"ember/lang/ident"
	"ember/lang/types"
)

// FieldError is the core data-shape error tree (spec §7's MissingField,
// InvalidField, InvalidKind members) — grounded on original_source's
// core::error::Error, which is a separate enum from the engine dispatch
// errors in vm.ExecError. Mirrors the teacher's runtime.Error shape: one
// concrete struct, a constructor per case, a nil-safe Error() string.
type FieldError struct {
	Kind FieldErrorKind

	// MissingField / InvalidField (map layout)
	Field ident.Ident
	// MissingField / InvalidField (tuple layout)
	Index int
	// InvalidKind
	Expected types.Kind
	Received types.Kind
}

// FieldErrorKind discriminates which case of FieldError this is.
type FieldErrorKind uint8

const (
	ErrMissingField FieldErrorKind = iota
	ErrInvalidField
	ErrInvalidKind
)

func (e *FieldError) Error() string {
	if e == nil {
		return "value: unknown field error"
	}
	switch e.Kind {
	case ErrMissingField:
		if e.Field != (ident.Ident{}) {
			return fmt.Sprintf("missing field: %s", e.Field)
		}
		return fmt.Sprintf("missing field at index %d", e.Index)
	case ErrInvalidField:
		if e.Field != (ident.Ident{}) {
			return fmt.Sprintf("invalid field: %s", e.Field)
		}
		return fmt.Sprintf("invalid field at index %d", e.Index)
	case ErrInvalidKind:
		return fmt.Sprintf("invalid kind: expected %s, received %s", e.Expected, e.Received)
	default:
		return "value: unknown field error"
	}
}

func missingMapField(id ident.Ident) *FieldError {
	return &FieldError{Kind: ErrMissingField, Field: id}
}

func invalidMapField(id ident.Ident) *FieldError {
	return &FieldError{Kind: ErrInvalidField, Field: id}
}

func missingTupleField(index int) *FieldError {
	return &FieldError{Kind: ErrMissingField, Index: index}
}

func invalidTupleField(index int) *FieldError {
	return &FieldError{Kind: ErrInvalidField, Index: index}
}

func invalidKind(expected, received types.Kind) *FieldError {
	return &FieldError{Kind: ErrInvalidKind, Expected: expected, Received: received}
}
