package domain

import (
	"context"
	"errors"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exists")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrCacheMiss is returned by cache implementations when the key is absent or expired
	ErrCacheMiss = errors.New("cache miss")

	// Precondition failures, detected before any request is sent.
	ErrNotAuthenticated = errors.New("please sign in")
	ErrEntityNotReady   = errors.New("this item is still loading, try again in a moment")
	ErrEmptyContent     = errors.New("comment cannot be empty")
	ErrContentTooLong   = errors.New("comment is too long")
	ErrSelfFollow       = errors.New("you cannot follow yourself")

	// Conflict failures.
	ErrAlreadyFollowing = errors.New("you are already following this user")
	ErrAlreadyInState   = errors.New("this action was already applied")
	ErrNotOwner         = errors.New("you can only change your own comments")

	// Network/backend failures.
	ErrBackendUnavailable = errors.New("something went wrong, please try again")
	ErrTimeout            = errors.New("the request timed out, please try again")
	ErrMalformedResponse  = errors.New("unexpected response from server")
)

// IsPrecondition reports whether err was raised client-side before any request.
func IsPrecondition(err error) bool {
	switch {
	case errors.Is(err, ErrNotAuthenticated),
		errors.Is(err, ErrEntityNotReady),
		errors.Is(err, ErrEmptyContent),
		errors.Is(err, ErrContentTooLong),
		errors.Is(err, ErrSelfFollow),
		errors.Is(err, ErrBadParamInput):
		return true
	}
	return false
}

// IsRetryable reports whether err is a generic network/backend failure that
// the user may retry by hand.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, context.DeadlineExceeded)
}
