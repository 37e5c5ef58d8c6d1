package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Ownership failures map to this too, so the API never reveals whether
// a resource exists for another user.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the requested state transition is not allowed for the
// resource's current state (e.g. settling an already settled debt).
var ErrConflict = errors.New("conflicting state")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure that should surface as a generic 500.
var ErrInternal = errors.New("internal error")
