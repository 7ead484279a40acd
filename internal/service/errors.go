package service

import "errors"

var (
	// ErrNotTaskCreator is returned when the acting user did not create
	// the task. Only the creator may mutate a task or change its status.
	ErrNotTaskCreator = errors.New("acting user is not the task creator")

	// ErrStatusConflict is returned for a redundant status transition.
	ErrStatusConflict = errors.New("task is already in the requested status")
)
