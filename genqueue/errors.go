package genqueue

import "errors"

// ErrQueueCleared is delivered to every non-terminal task's waiter when
// Clear is called.
var ErrQueueCleared = errors.New("genqueue: queue cleared")

// ErrPlaceholderMissing signals the internal invariant that a task's
// placeholder chunk must already be present in WorldMap was violated.
var ErrPlaceholderMissing = errors.New("genqueue: placeholder chunk missing")
