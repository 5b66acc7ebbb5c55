package domain

import "errors"

// Kind classifies a domain error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindConflict
	KindNotFound
	KindBadRequest
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a domain failure with a human-readable message that is safe to
// return to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrEmailTaken          = newError(KindConflict, "email is already registered")
	ErrUserNotFound        = newError(KindNotFound, "user not found")
	ErrWrongPassword       = newError(KindBadRequest, "current password is not correct")
	ErrPasswordTooLong     = newError(KindBadRequest, "password must be at most 72 bytes")
	ErrInvalidCredentials  = newError(KindUnauthorized, "invalid credentials")
	ErrDefaultRoleMissing  = newError(KindInternal, "could not register user: default role is not provisioned")
	ErrIdentityNotResolved = newError(KindInternal, "could not resolve the authenticated user")
	ErrRoleNotFound        = newError(KindNotFound, "role not found")
)

// KindOf reports the kind of the first *Error in err's chain. Errors that carry
// no domain classification are internal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message of the first *Error in err's
// chain, or "" when err is not a domain error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
