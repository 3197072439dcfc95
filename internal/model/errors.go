package model

import (
	"errors"
	"fmt"
)

// Store and validation errors shared by repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// Token codec errors.
var (
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenExpired   = errors.New("token is expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Authentication and session errors.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRefreshRequired      = errors.New("refresh token is required")
	ErrRefreshNotFound      = errors.New("refresh not found")
	ErrRefreshInactive      = errors.New("refresh revoked or expired")
	ErrEmailTaken           = errors.New("email is already taken")
)

// ErrForbidden is returned when an authenticated caller lacks the required scope.
var ErrForbidden = errors.New("forbidden")

// ErrForbiddenByOwnScope is returned when an OWN scope is applied to a record owned by someone else.
var ErrForbiddenByOwnScope = fmt.Errorf("%w by scope OWN", ErrForbidden)

// Authentication resolver failures. Both wrap ErrAuthenticationFailed.
var (
	ErrInvalidAuthHeader = fmt.Errorf("%w: invalid authorization header", ErrAuthenticationFailed)
	ErrUserInactive      = fmt.Errorf("%w: user not found or inactive", ErrAuthenticationFailed)
)
