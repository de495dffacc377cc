package fitness

import "time"

const nanosPerMilli = 1_000_000

// MillisToNanos converts a millisecond wall-clock value to the wire representation.
func MillisToNanos(ms int64) int64 {
	return ms * nanosPerMilli
}

// NanosToMillis converts a wire timestamp to milliseconds.
func NanosToMillis(ns int64) int64 {
	return ns / nanosPerMilli
}

// NanosFromTime returns the wire timestamp for t, truncated to millisecond precision.
func NanosFromTime(t time.Time) int64 {
	return MillisToNanos(t.UnixMilli())
}

// TimeFromNanos converts a wire timestamp to time.Time.
func TimeFromNanos(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
