package errors

import (
	"fmt"
)

// Type categorizes scan errors so callers can match on the failure class
// without parsing messages.
type Type int

const (
	// TypeDefinitionNotFound - no definition file exists for a non-primitive chip
	TypeDefinitionNotFound Type = iota
	// TypeMalformedDefinition - definition file exists but the sub-chip list is unusable
	TypeMalformedDefinition
	// TypeCyclicDefinition - a chip transitively references itself
	TypeCyclicDefinition
	// TypeMetadata - project description missing, unreadable, or incompatible
	TypeMetadata
	// TypeFileSystem - file I/O failure other than a missing definition
	TypeFileSystem
	// TypeInternal - unexpected internal state
	TypeInternal
)

func (t Type) String() string {
	switch t {
	case TypeDefinitionNotFound:
		return "DEFINITION_NOT_FOUND"
	case TypeMalformedDefinition:
		return "MALFORMED_DEFINITION"
	case TypeCyclicDefinition:
		return "CYCLIC_DEFINITION"
	case TypeMetadata:
		return "METADATA"
	case TypeFileSystem:
		return "FILESYSTEM"
	case TypeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Error is a structured scan error carrying its category, the chip it
// concerns (when applicable), and an optional cause.
type Error struct {
	Type    Type
	Chip    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by Type, so errors.Is(err, ErrCyclicDefinition) works
// regardless of chip name and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Sentinels for errors.Is matching.
var (
	ErrDefinitionNotFound  = &Error{Type: TypeDefinitionNotFound, Message: "definition not found"}
	ErrMalformedDefinition = &Error{Type: TypeMalformedDefinition, Message: "malformed definition"}
	ErrCyclicDefinition    = &Error{Type: TypeCyclicDefinition, Message: "cyclic definition"}
	ErrMetadata            = &Error{Type: TypeMetadata, Message: "project metadata error"}
)

// New creates an error with the given type and message.
func New(t Type, message string) *Error {
	return &Error{Type: t, Message: message}
}

// Newf creates an error with the given type and formatted message.
func Newf(t Type, format string, args ...interface{}) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a type and message. Returns nil if err is nil.
func Wrap(err error, t Type, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Message: message, Cause: err}
}

// Wrapf wraps an existing error with a type and formatted message.
func Wrapf(err error, t Type, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: t, Message: fmt.Sprintf(format, args...), Cause: err}
}

// Convenience constructors for the resolution error classes.

// DefinitionNotFound reports a missing chip definition file.
func DefinitionNotFound(chip string) *Error {
	return &Error{
		Type:    TypeDefinitionNotFound,
		Chip:    chip,
		Message: fmt.Sprintf("chip definition not found: %s", chip),
	}
}

// MalformedDefinition reports an unusable chip definition.
func MalformedDefinition(chip, detail string) *Error {
	return &Error{
		Type:    TypeMalformedDefinition,
		Chip:    chip,
		Message: fmt.Sprintf("malformed definition for %s: %s", chip, detail),
	}
}

// CyclicDefinition reports a chip that transitively references itself.
func CyclicDefinition(chip string) *Error {
	return &Error{
		Type:    TypeCyclicDefinition,
		Chip:    chip,
		Message: fmt.Sprintf("cyclic definition: %s references itself transitively", chip),
	}
}

// MetadataError reports a project-level skip condition.
func MetadataError(format string, args ...interface{}) *Error {
	return Newf(TypeMetadata, format, args...)
}

// GetType returns the category of an error, TypeInternal for foreign errors.
func GetType(err error) Type {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return TypeInternal
}

// ChipName returns the chip a resolution error concerns, if any.
func ChipName(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Chip
	}
	return ""
}
