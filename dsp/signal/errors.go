package signal

import "errors"

// ErrInvalidInput reports a synthesizer argument outside its contract, such as
// a non-positive or non-finite frequency or duration.
var ErrInvalidInput = errors.New("signal: invalid input")
