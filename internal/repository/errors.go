package repository

import "errors"

// Common task store errors
var (
	// ErrNotInitialized is returned by data operations issued before Initialize.
	ErrNotInitialized = errors.New("task store: not initialized")

	// ErrClosed is returned by data operations issued after Close.
	ErrClosed = errors.New("task store: closed")

	// ErrDuplicateID is returned by Add when a row with the id already exists.
	ErrDuplicateID = errors.New("task store: duplicate task id")

	// ErrTaskNotFound is returned by Update when no row matches the id.
	// GetByID signals absence with a nil task instead, and Delete treats
	// absence as success.
	ErrTaskNotFound = errors.New("task store: task not found")
)
