package services

import "errors"

// ErrorKind classifies a service failure. Handlers map kinds to status codes;
// services never speak HTTP.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindAuthentication
	KindAuthorization
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// Error is a typed, user-presentable service failure
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Code == e.Code
}

// ValidationError reports missing or malformed input
func ValidationError(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NotFoundError reports a referenced entity that does not exist
func NotFoundError(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// AuthenticationError reports missing or bad credentials
func AuthenticationError(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

// AuthorizationError reports an authenticated caller acting outside their rights
func AuthorizationError(code, message string) *Error {
	return &Error{Kind: KindAuthorization, Code: code, Message: message}
}

// ConflictError reports a clash with existing state
func ConflictError(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// wrap attaches the underlying cause to e
func (e *Error) wrap(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// AsError extracts a service error from err
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	errInvalidCredentials = AuthenticationError("INVALID_CREDENTIALS", "Invalid email or password")
	errUserNotFound       = NotFoundError("USER_NOT_FOUND", "User not found")
	errEmailExists        = ConflictError("EMAIL_EXISTS", "A user with this email already exists")
)
