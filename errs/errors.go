package errs

import (
	"errors"
	"fmt"
	"reflect"
)

// DefaultExitStatus is reported for failures which do not carry a field-declared exit status
const DefaultExitStatus = 1

// Sentinel errors. Every structured error in this package matches exactly one of these with errors.Is.
var (
	ErrParse                 = errors.New("parse error")
	ErrRequiredField         = errors.New("required field not set")
	ErrDuplicateOption       = errors.New("duplicate option")
	ErrUnsupportedType       = errors.New("unsupported type")
	ErrMissingConstructor    = errors.New("type cannot be instantiated")
	ErrInaccessibleField     = errors.New("inaccessible field")
	ErrUnsupportedCollection = errors.New("unsupported collection type")
	ErrInvalidTag            = errors.New("invalid tag")
	ErrBind                  = errors.New("bind error")
)

// ParseError reports a raw string which could not be converted to a field's declared type.
type ParseError struct {
	Value  string       // raw value as it appeared on the command line
	Type   reflect.Type // target type, nil when the failure is not type related
	Field  string       // externally visible field name, e.g. "--long-value" or "position 0"
	Msg    string
	Status int
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if msg == "" {
		if e.Type != nil {
			msg = fmt.Sprintf("failed to parse %q into %s", e.Value, e.Type)
		} else {
			msg = fmt.Sprintf("failed to parse %q", e.Value)
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ExitStatus returns the field-declared exit status or DefaultExitStatus
func (e *ParseError) ExitStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return DefaultExitStatus
}

// RequiredFieldError reports a required named or positional field which remained unset after parsing.
// It is a ParseError: errors.As with a **ParseError target succeeds.
type RequiredFieldError struct {
	ParseError
}

// NewRequiredFieldError creates a RequiredFieldError for the field known externally as name
func NewRequiredFieldError(name string, status int) *RequiredFieldError {
	return &RequiredFieldError{ParseError{
		Field:  name,
		Msg:    fmt.Sprintf("required argument %s is not set", name),
		Status: status,
	}}
}

func (e *RequiredFieldError) Is(target error) bool {
	return target == ErrRequiredField || target == ErrParse
}

func (e *RequiredFieldError) As(target any) bool {
	if pe, ok := target.(**ParseError); ok {
		*pe = &e.ParseError
		return true
	}
	return false
}

// DuplicateOptionError reports two fields claiming the same long flag or short code within one schema.
type DuplicateOptionError struct {
	Name     string // the colliding flag or code
	Field    string // the field which attempted to register Name
	Existing string // the field which registered Name first
}

func (e *DuplicateOptionError) Error() string {
	return fmt.Sprintf("duplicate option name: %s (field %s conflicts with field %s)", e.Name, e.Field, e.Existing)
}

func (e *DuplicateOptionError) Is(target error) bool {
	return target == ErrDuplicateOption
}

// UnsupportedTypeError reports a type for which no converter exists.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type: %s", e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// MissingConstructorError reports a destination type, or a declared converter, which cannot be produced.
type MissingConstructorError struct {
	Type   reflect.Type // nil when Name identifies a converter
	Name   string
	Reason string
}

func (e *MissingConstructorError) Error() string {
	subject := e.Name
	if e.Type != nil {
		subject = e.Type.String()
	}
	return fmt.Sprintf("unable to instantiate %s: %s", subject, e.Reason)
}

func (e *MissingConstructorError) Is(target error) bool {
	return target == ErrMissingConstructor
}

// InaccessibleFieldError reports a field which cannot be read or written through any accessor.
type InaccessibleFieldError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *InaccessibleFieldError) Error() string {
	msg := fmt.Sprintf("field %s of %s is not accessible", e.Field, e.Type)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *InaccessibleFieldError) Unwrap() error {
	return e.Err
}

func (e *InaccessibleFieldError) Is(target error) bool {
	return target == ErrInaccessibleField
}

// UnsupportedCollectionError reports a collection-typed field whose concrete kind cannot be created or appended to.
type UnsupportedCollectionError struct {
	Field string
	Type  reflect.Type
}

func (e *UnsupportedCollectionError) Error() string {
	return fmt.Sprintf("%s is not a supported collection type for field %s: use a slice, map[T]struct{} or map[T]bool",
		e.Type, e.Field)
}

func (e *UnsupportedCollectionError) Is(target error) bool {
	return target == ErrUnsupportedCollection
}

// BindError gives field context to a failure which occurred while assigning a raw value.
type BindError struct {
	Field string
	Value string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to set value %q for %s: %v", e.Value, e.Field, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func (e *BindError) Is(target error) bool {
	return target == ErrBind
}

// TagError reports a malformed struct tag.
type TagError struct {
	Field string
	Msg   string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("invalid tag on field %s: %s", e.Field, e.Msg)
}

func (e *TagError) Is(target error) bool {
	return target == ErrInvalidTag
}

// ExitStatus returns the exit status a process should use for err. Errors without a declared
// status map to DefaultExitStatus; a nil error maps to 0.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var s interface{ ExitStatus() int }
	if errors.As(err, &s) {
		return s.ExitStatus()
	}
	return DefaultExitStatus
}
