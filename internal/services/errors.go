package services

import "errors"

// ErrInvalidCredentials is returned on login failure. It is deliberately
// uniform: callers cannot tell an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")
