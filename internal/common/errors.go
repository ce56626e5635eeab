// Package common defines shared constants and sentinel errors used across
// client and server layers of chatvault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")

	// Service-level errors (generic/internal flow control).
	ErrInternal           = errors.New("internal error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired       = errors.New("token expired")
	ErrResumeTokenExpired = errors.New("resume token expired")

	// Generation backend errors. The user's turn stays persisted when the
	// backend call fails, so retrying the reply never loses the prompt.
	ErrGenerationUnavailable = errors.New("generation backend unavailable")
)
