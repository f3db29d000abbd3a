package timecode

import "errors"

var (
	// ErrInvalidTime reports a ClockTime component outside its range.
	ErrInvalidTime = errors.New("timecode: invalid time")
	// ErrInsufficientData reports a signal shorter than one analysis window.
	ErrInsufficientData = errors.New("timecode: signal shorter than one analysis window")
	// ErrNoMatch reports that no window produced a candidate within tolerance.
	ErrNoMatch = errors.New("timecode: no candidate within tolerance")
)
