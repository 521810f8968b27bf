package domain

import (
	"fmt"
	"time"
)

type CycleOutcome int

const (
	CYCLE_SKIPPED CycleOutcome = iota
	CYCLE_PUBLISHED
)

func (o CycleOutcome) String() string {
	switch o {
	case CYCLE_PUBLISHED:
		return "published"
	default:
		return "skipped"
	}
}

type CycleErrorKind int

const (
	CYCLE_ERROR_READ_FAILURE CycleErrorKind = iota
	CYCLE_ERROR_UNEXPECTED
)

func (k CycleErrorKind) String() string {
	switch k {
	case CYCLE_ERROR_READ_FAILURE:
		return "read_failure"
	default:
		return "unexpected"
	}
}

// CycleError is returned by a poll cycle that could not publish state.
// It never escapes the poll loop.
type CycleError struct {
	Kind CycleErrorKind
	Err  error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// CycleResult is what cycle observers are notified with.
type CycleResult struct {
	Outcome  CycleOutcome
	Reading  *Reading
	Err      *CycleError
	Started  time.Time
	Duration time.Duration
}
