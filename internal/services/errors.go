package services

import (
	"errors"
)

// ErrorKind classifies a business-rule failure. The HTTP layer maps each
// kind to a status code in exactly one place (utils.RespondServiceError).
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindUnprocessable
	KindConflict
)

// Error is a typed business-rule failure raised at the point of detection.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFoundError reports that a referenced entity does not exist in the
// caller's scope.
func NotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// UnauthenticatedError reports a missing caller identity.
func UnauthenticatedError(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// ForbiddenError reports a caller that is not a party to the resource.
func ForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// UnprocessableError reports structurally invalid input.
func UnprocessableError(message string) *Error {
	return &Error{Kind: KindUnprocessable, Message: message}
}

// ConflictError reports valid input that violates a business invariant
// given current state.
func ConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf extracts the error kind, reporting false for unexpected errors
// (which the boundary surfaces as a generic server error).
func KindOf(err error) (ErrorKind, bool) {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind, true
	}
	return 0, false
}
