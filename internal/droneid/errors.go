package droneid

import "fmt"

// DetectionFailureError reports that the capture was shorter than one FFT
// window or that no CP-autocorrelation timing peak with sufficient
// prominence was found. The candidate that produced it should be skipped,
// not treated as fatal.
type DetectionFailureError struct {
	Reason string
}

func (e *DetectionFailureError) Error() string {
	return fmt.Sprintf("droneid: detection failure: %s", e.Reason)
}

// ZCMismatchError reports that the second Zadoff-Chu root did not match
// the profile's expected value (147 for droneid/droneid-legacy).
type ZCMismatchError struct {
	Expected, Got int
}

func (e *ZCMismatchError) Error() string {
	return fmt.Sprintf("droneid: zc mismatch: expected root %d, got %d", e.Expected, e.Got)
}
