package config

import "errors"

var (
	// ErrMissingVariable indicates a required environment variable was not provided.
	ErrMissingVariable = errors.New("required environment variable not set")

	// ErrInvalidValue indicates an environment variable could not be parsed or failed validation.
	ErrInvalidValue = errors.New("invalid environment variable value")
)
