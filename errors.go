package kmsig

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is the parent of every facade configuration error.
	ErrInvalidConfig = errors.New("kmsig: invalid configuration")

	// ErrMissingSignatures is returned when no signature blob is configured.
	ErrMissingSignatures = fmt.Errorf("%w: signatures blob name is required", ErrInvalidConfig)

	// ErrMissingAssignments is returned when no assignment output is configured.
	ErrMissingAssignments = fmt.Errorf("%w: assignments blob name is required", ErrInvalidConfig)

	// ErrClosed is returned by a Clusterer after Close.
	ErrClosed = errors.New("kmsig: clusterer is closed")
)

// StageError reports which stage of a run failed.
//
// The underlying error can be accessed via errors.Unwrap.
type StageError struct {
	Stage string
	cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("kmsig: %s: %v", e.Stage, e.cause)
}

func (e *StageError) Unwrap() error { return e.cause }

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, cause: err}
}
