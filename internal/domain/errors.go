package domain

import "errors"

var (
	// ErrMalformedResponse is returned when the model's text could not be
	// coerced into valid JSON by any recovery step
	ErrMalformedResponse = errors.New("model response is not valid JSON")

	// ErrModelUnavailable is returned when the model invocation itself failed
	// (network, auth, quota, missing credential)
	ErrModelUnavailable = errors.New("model invocation failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSessionNotFound is returned when a chat session ID is unknown or expired
	ErrSessionNotFound = errors.New("chat session not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
