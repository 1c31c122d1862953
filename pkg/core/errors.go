package core

import "errors"

// Common errors.
var (
	ErrReadOnly         = errors.New("repository is in read-only mode")
	ErrNotFound         = errors.New("container not found")
	ErrUnknownContainer = errors.New("unknown container")
	ErrNoTarget         = errors.New("no zone or room at cell")
	ErrDoorway          = errors.New("doorways cannot be labeled")
)
