package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is not authenticated or the credentials are invalid.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrDataUnavailable indicates that the underlying data source could not be
// reached or returned an error. Balance computations abort on this error and
// never return partial results: a silent zero balance would be
// indistinguishable from a legitimately settled state.
var ErrDataUnavailable = errors.New("data source unavailable")
