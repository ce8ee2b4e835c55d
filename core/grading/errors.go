package grading

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoCourses is returned when a semester is aggregated without any course.
	ErrNoCourses = errors.New("no courses")

	// ErrInsufficientData is returned when a final GPA needs more levels than were given.
	ErrInsufficientData = errors.New("insufficient data: at least two levels are required")
)

// InputError reports an argument the engine refused to compute with.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func inputErr(field, format string, args ...interface{}) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
