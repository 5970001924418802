// SPDX-License-Identifier: EPL-2.0

package utils

import "time"

// DurationToFrames converts d to a frame count at sampleRate, rounding to
// the nearest frame. Negative durations yield 0.
func DurationToFrames(d time.Duration, sampleRate int) int64 {
	if d <= 0 || sampleRate <= 0 {
		return 0
	}

	micros := d.Microseconds()

	return (micros*int64(sampleRate) + 500000) / 1000000
}

// FramesToDuration converts a frame count at sampleRate to a duration.
func FramesToDuration(frames int64, sampleRate int) time.Duration {
	if sampleRate <= 0 || frames <= 0 {
		return 0
	}

	return time.Duration(frames * int64(time.Second) / int64(sampleRate))
}

// Clamp limits v to [lo, hi].
func Clamp[T ~int | ~int64 | ~float32 | ~float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
