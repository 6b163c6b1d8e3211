package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	ErrExpectedDirectory = errors.New("expected directory but got file")
	ErrEmptySuffix       = errors.New("notebook suffix must not be empty")
)
