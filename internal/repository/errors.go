package repository

import "errors"

// ErrTaskNotFound is returned when no task exists with the requested id.
// Soft-deleted tasks are ordinary rows and never trigger it.
var ErrTaskNotFound = errors.New("task not found")
