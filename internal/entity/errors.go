package entity

import "errors"

// Domain errors
var (
	// Input errors
	ErrValidation   = errors.New("validation failed")
	ErrMissingField = errors.New("required field is missing")

	// Generation errors
	ErrTransport          = errors.New("generation service request failed")
	ErrMissingCredential  = errors.New("generation service credential is not set")
	ErrMalformedResponse  = errors.New("the generation service returned a response that could not be understood")
	ErrMissingIcon        = errors.New("icon generation returned no image")
	ErrInvalidPackageName = errors.New("invalid package name")

	// Workflow errors
	ErrRunInProgress      = errors.New("a generation run is already in progress")
	ErrNoResult           = errors.New("no generation result available")
	ErrArchiveUnavailable = errors.New("archive is not available for the current result")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
)
