// Package common defines shared constants and sentinel errors used across
// the storage, service and transport layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorCorruptData   = errors.New("corrupt data")
	ErrorInvalidKey    = errors.New("invalid key")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorForbidden          = errors.New("forbidden")
	ErrorLimitReached       = errors.New("limit reached")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
