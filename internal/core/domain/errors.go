package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("duplicate entry")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("email or handle already registered")
	ErrOwnerExists       = errors.New("owner already exists")
	ErrInvalidHandle     = errors.New("handle could not be verified")
)

// Event errors
var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventFull          = errors.New("event is full")
	ErrAlreadyRegistered  = errors.New("already registered for event")
	ErrNotRegistered      = errors.New("not registered for event")
	ErrAlreadyPaid        = errors.New("payment already marked")
	ErrEventHasNoFees     = errors.New("event has no fees")
	ErrDiscussionNotFound = errors.New("discussion not found")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrWrongCode       = errors.New("incorrect session code")
	ErrAlreadyPresent  = errors.New("already marked present")
)

// Article errors
var (
	ErrArticleNotFound = errors.New("article not found")
	ErrProblemNotFound = errors.New("problem not found")
)
