package typesystem

import (
	"fmt"
)

// ErrorCode represents a machine-readable diagnostic code.
type ErrorCode string

const (
	CodeUnsupportedGenericDefinition    ErrorCode = "unsupported_generic_definition"
	CodeInstantiationCycle              ErrorCode = "instantiation_cycle"
	CodeInvalidMutableReferenceInRecord ErrorCode = "invalid_mutable_reference_in_record"
	CodeNoComputableDefaultValue        ErrorCode = "no_computable_default_value"
	CodeAbstractCollectionNesting       ErrorCode = "abstract_collection_nesting"
	CodeUnionVariantMismatch            ErrorCode = "union_variant_mismatch"
	CodeDuplicateFieldDeclaration       ErrorCode = "duplicate_field_declaration"
	CodeFieldNameCollision              ErrorCode = "field_name_collision"
	CodeInvalidMapKey                   ErrorCode = "invalid_map_key"
	CodeInvalidDefaultValue             ErrorCode = "invalid_default_value"
	CodeInvalidEnum                     ErrorCode = "invalid_enum"
	CodeUnknownPoco                     ErrorCode = "unknown_poco"
	CodeFamilyConflict                  ErrorCode = "family_conflict"
	CodeUnsupportedType                 ErrorCode = "unsupported_type"
	CodeLocked                          ErrorCode = "locked"
	CodeTooManyErrors                   ErrorCode = "too_many_errors"
)

// Sentinel errors for use with errors.Is. Matching is by code only.
var (
	ErrUnsupportedGenericDefinition    = &Error{Code: CodeUnsupportedGenericDefinition}
	ErrInstantiationCycle              = &Error{Code: CodeInstantiationCycle}
	ErrInvalidMutableReferenceInRecord = &Error{Code: CodeInvalidMutableReferenceInRecord}
	ErrNoComputableDefaultValue        = &Error{Code: CodeNoComputableDefaultValue}
	ErrAbstractCollectionNesting       = &Error{Code: CodeAbstractCollectionNesting}
	ErrUnionVariantMismatch            = &Error{Code: CodeUnionVariantMismatch}
	ErrDuplicateFieldDeclaration       = &Error{Code: CodeDuplicateFieldDeclaration}
	ErrFieldNameCollision              = &Error{Code: CodeFieldNameCollision}
	ErrInvalidMapKey                   = &Error{Code: CodeInvalidMapKey}
	ErrInvalidDefaultValue             = &Error{Code: CodeInvalidDefaultValue}
	ErrInvalidEnum                     = &Error{Code: CodeInvalidEnum}
	ErrUnknownPoco                     = &Error{Code: CodeUnknownPoco}
	ErrFamilyConflict                  = &Error{Code: CodeFamilyConflict}
	ErrUnsupportedType                 = &Error{Code: CodeUnsupportedType}
	ErrLocked                          = &Error{Code: CodeLocked}
	ErrTooManyErrors                   = &Error{Code: CodeTooManyErrors}
)

// Error is a registration diagnostic.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Type    string         `json:"type,omitempty"`
	Path    string         `json:"path,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new diagnostic.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new diagnostic with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithType returns a copy of e naming the offending type.
func (e *Error) WithType(sig string) *Error {
	c := *e
	c.Type = sig
	return &c
}

// WithPath returns a copy of e carrying a field path or trace.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path
	return &c
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	c := *e
	c.Details = details
	return &c
}
