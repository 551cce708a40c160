package gateway

import "errors"

var (
	// ErrInvalidCredentials is returned when email and password do not match an identity.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrUserExists is returned when signing up with an email that is already registered.
	ErrUserExists = errors.New("user already registered")
	// ErrNoSession is returned by operations that need a signed-in caller.
	ErrNoSession = errors.New("not signed in")
	// ErrForbidden is returned when a row-level access rule rejects the call.
	ErrForbidden = errors.New("row-level access denied")
	// ErrValidation wraps rejected input.
	ErrValidation = errors.New("invalid input")
)
