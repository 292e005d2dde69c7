package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Callers wrap these with fmt.Errorf("%w: ...") and the HTTP
// layer maps them to status codes with errors.Is.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrAuthorization  = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

var (
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrAuthentication)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid password", ErrAuthentication)
)
