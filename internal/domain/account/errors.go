package account

import "errors"

var (
	// ErrInvalidCredentials indicates a failed login. Surfaced to the
	// client as an explicit login-error event.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrDenied indicates an account-admin operation by a non-admin.
	// Unlike structural mutations, this denial is explicit.
	ErrDenied = errors.New("operation not permitted")
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUserNotFound indicates the user doesn't exist.
	ErrUserNotFound = errors.New("user not found")
)
