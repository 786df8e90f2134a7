package sitefinity

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINVALID      = "invalid"
	EUNAUTHORIZED = "unauthorized"
	EAUTH         = "authentication"
	ENETWORK      = "network"
	ETRANSFORM    = "transform"
	ENOTFOUND     = "not_found"
	EINTERNAL     = "internal"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("sitefinity error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return the underlying error text.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsAuthError reports whether err came from token acquisition,
// whether or not the token endpoint flagged it as unauthorized.
func IsAuthError(err error) bool {
	switch ErrorCode(err) {
	case EAUTH, EUNAUTHORIZED:
		return true
	}
	return false
}
