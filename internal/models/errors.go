package models

import "errors"

var (
	// ErrCacheMiss is returned when a key is absent or expired
	ErrCacheMiss = errors.New("cache miss")

	// ErrRewordUnavailable is returned by rewriters that have no backend configured
	ErrRewordUnavailable = errors.New("rewording service unavailable")

	// ErrEmptyRewrite is returned when the rewording service answers with no text
	ErrEmptyRewrite = errors.New("rewording service returned empty text")

	// ErrUnknownDriver is returned for an unsupported storage driver name
	ErrUnknownDriver = errors.New("unknown storage driver")
)
