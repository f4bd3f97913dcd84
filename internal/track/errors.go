package track

import (
	"errors"
	"fmt"
)

// Validation failures detected at stage entry. None are retried internally;
// a failure aborts the call and reaches the caller verbatim.
var (
	ErrEmptyTrack        = errors.New("track has no points")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrNonMonotonicTime  = errors.New("timestamps not monotonically non-decreasing")
	ErrInvalidTolerance  = errors.New("simplify tolerance must be positive")
)

// InvalidCoordinateError reports which sample failed range validation.
type InvalidCoordinateError struct {
	Index int
	Lat   float64
	Lon   float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("sample %d: invalid coordinate (%v, %v)", e.Index, e.Lat, e.Lon)
}

func (e *InvalidCoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// NonMonotonicTimeError reports the sample whose timestamp precedes its
// predecessor's.
type NonMonotonicTimeError struct {
	Index int
}

func (e *NonMonotonicTimeError) Error() string {
	return fmt.Sprintf("sample %d: timestamp earlier than previous sample", e.Index)
}

func (e *NonMonotonicTimeError) Unwrap() error { return ErrNonMonotonicTime }
