package history

import "errors"

// ErrMessageNotFound is returned when a read or reaction references a
// message id that was never assigned.
var ErrMessageNotFound = errors.New("message not found")
