package rate

import "errors"

var (
	// ErrRateLimited is returned when an IP has used up its attempt budget
	// for the current window.
	ErrRateLimited = errors.New("rate limited")
)
