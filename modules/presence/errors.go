package presence

import "errors"

// Sentinel errors for presence operations.
var (
	// ErrDuplicateConnection is returned when a connection id is already registered.
	ErrDuplicateConnection = errors.New("connection already registered")

	// ErrUnknownConnection is returned when a connection id is not registered.
	ErrUnknownConnection = errors.New("unknown connection")
)
