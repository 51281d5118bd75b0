package auth

import "errors"

// ErrNoSigningSecret is returned when no secret is configured and the
// environment offers no fallback entropy. Fatal: the process must not
// serve authenticated routes unsigned.
var ErrNoSigningSecret = errors.New("no signing secret configured and no fallback entropy available")

// ErrTokenInvalid is the single outcome for every malformed, tampered,
// expired, or wrong-kind token. Callers never learn which.
var ErrTokenInvalid = errors.New("invalid token")

// ErrMismatchedHashAndPassword means the candidate password does not
// match the stored record
var ErrMismatchedHashAndPassword = errors.New("mismatched password and hash")

// ErrNoEmptyString means an empty password was submitted
var ErrNoEmptyString = errors.New("password can not be an empty string")

// ErrUserNotFound is the error stores return for missing users
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when registering an already taken identifier
var ErrUserExists = errors.New("user already exists")

// ErrUnableToFindSession is the error when our request has no cookie
var ErrUnableToFindSession = errors.New("unable to find session")

// IsConfigurationError reports whether err is fatal for the process
// rather than for a single request.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNoSigningSecret)
}
