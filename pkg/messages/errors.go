package messages

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeInvalidContent indicates a message with neither content nor parts
	ErrorTypeInvalidContent ErrorType = "invalid_content"
	// ErrorTypeSystemFormat indicates a system message in an unsupported shape
	ErrorTypeSystemFormat ErrorType = "system_format"
	// ErrorTypeThreadMismatch indicates conflicting thread/resource identifiers
	ErrorTypeThreadMismatch ErrorType = "thread_mismatch"
	// ErrorTypeUnhandledShape indicates an input matching no known format
	ErrorTypeUnhandledShape ErrorType = "unhandled_shape"
	// ErrorTypeRoleMapping indicates a role with no known mapping
	ErrorTypeRoleMapping ErrorType = "role_mapping"
	// ErrorTypeConversion indicates a format conversion failure
	ErrorTypeConversion ErrorType = "conversion"
)

// MessageError is the base error type for message-related errors. All fields
// beyond Type and Message are optional structured context for logging.
type MessageError struct {
	Type    ErrorType
	Message string
	Role    Role
	Source  string // source tag of the add that failed, when known
	Field   string
	Cause   error
}

// Error implements the error interface
func (e *MessageError) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Role != "" {
		msg += fmt.Sprintf(" (role=%s", e.Role)
		if e.Source != "" {
			msg += fmt.Sprintf(", source=%s", e.Source)
		}
		msg += ")"
	}
	return msg
}

// Unwrap returns the underlying error
func (e *MessageError) Unwrap() error {
	return e.Cause
}

// NewInvalidContentError reports a message that has neither a non-empty
// content nor a non-empty parts field.
func NewInvalidContentError(role Role, source, missing string) *MessageError {
	return &MessageError{
		Type:    ErrorTypeInvalidContent,
		Message: fmt.Sprintf("message has no usable %s", missing),
		Role:    role,
		Source:  source,
		Field:   missing,
	}
}

// NewSystemFormatError reports a system message arriving in a shape other
// than plain role+content.
func NewSystemFormatError(shape string) *MessageError {
	return &MessageError{
		Type:    ErrorTypeSystemFormat,
		Message: fmt.Sprintf("system messages must be plain role+content, got %s shape", shape),
		Role:    RoleSystem,
		Field:   "content",
	}
}

// NewThreadMismatchError reports a message whose thread or resource
// identifier conflicts with the timeline's bound values.
func NewThreadMismatchError(field, got, want string) *MessageError {
	return &MessageError{
		Type:    ErrorTypeThreadMismatch,
		Message: fmt.Sprintf("%s %q conflicts with bound %s %q", field, got, field, want),
		Field:   field,
	}
}

// NewUnhandledShapeError reports an input matching none of the format
// detectors. This indicates a producer bug and is not recoverable.
func NewUnhandledShapeError(input any) *MessageError {
	return &MessageError{
		Type:    ErrorTypeUnhandledShape,
		Message: fmt.Sprintf("input of type %T matches no recognized message shape", input),
	}
}

// NewRoleMappingError reports a role outside user/assistant/system/tool.
func NewRoleMappingError(role Role) *MessageError {
	return &MessageError{
		Type:    ErrorTypeRoleMapping,
		Message: fmt.Sprintf("no mapping for role %q", role),
		Role:    role,
		Field:   "role",
	}
}

// NewConversionError reports a failure converting between message formats.
func NewConversionError(from, to, detail string, cause error) *MessageError {
	return &MessageError{
		Type:    ErrorTypeConversion,
		Message: fmt.Sprintf("cannot convert %s to %s: %s", from, to, detail),
		Cause:   cause,
	}
}

// errorTypeIs checks whether err is a MessageError of the given type.
func errorTypeIs(err error, t ErrorType) bool {
	var me *MessageError
	return errors.As(err, &me) && me.Type == t
}

// IsInvalidContentError checks if an error is an invalid-content error
func IsInvalidContentError(err error) bool { return errorTypeIs(err, ErrorTypeInvalidContent) }

// IsSystemFormatError checks if an error is a system-format error
func IsSystemFormatError(err error) bool { return errorTypeIs(err, ErrorTypeSystemFormat) }

// IsThreadMismatchError checks if an error is a thread-mismatch error
func IsThreadMismatchError(err error) bool { return errorTypeIs(err, ErrorTypeThreadMismatch) }

// IsUnhandledShapeError checks if an error is an unhandled-shape error
func IsUnhandledShapeError(err error) bool { return errorTypeIs(err, ErrorTypeUnhandledShape) }

// IsRoleMappingError checks if an error is a role-mapping error
func IsRoleMappingError(err error) bool { return errorTypeIs(err, ErrorTypeRoleMapping) }

// IsConversionError checks if an error is a conversion error
func IsConversionError(err error) bool { return errorTypeIs(err, ErrorTypeConversion) }
