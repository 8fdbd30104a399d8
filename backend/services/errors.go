package services

import "errors"

var (
	// ErrUnauthorized is returned by every role-gated operation before any
	// write is attempted.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a referenced course, lesson or quiz does
	// not exist. Callers treat it as "no data", not as a crash.
	ErrNotFound = errors.New("not found")

	// ErrNoQuestions is returned when a quiz with zero questions is graded
	// or saved.
	ErrNoQuestions = errors.New("quiz has no questions")
)
