// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"testing"
	"time"
)

func TestDurationToFrames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    time.Duration
		rate int
		want int64
	}{
		{name: "one second", d: time.Second, rate: 44100, want: 44100},
		{name: "half second", d: 500 * time.Millisecond, rate: 44100, want: 22050},
		{name: "rounds to nearest", d: 11 * time.Microsecond, rate: 44100, want: 0},
		{name: "rounds up", d: 12 * time.Microsecond, rate: 44100, want: 1},
		{name: "negative", d: -time.Second, rate: 44100, want: 0},
		{name: "zero rate", d: time.Second, rate: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DurationToFrames(tt.d, tt.rate); got != tt.want {
				t.Errorf("DurationToFrames(%v, %d) = %d, want %d", tt.d, tt.rate, got, tt.want)
			}
		})
	}
}

func TestFramesToDuration(t *testing.T) {
	t.Parallel()

	if got := FramesToDuration(44100, 44100); got != time.Second {
		t.Errorf("FramesToDuration(44100) = %v, want 1s", got)
	}
	if got := FramesToDuration(4410, 44100); got != 100*time.Millisecond {
		t.Errorf("FramesToDuration(4410) = %v, want 100ms", got)
	}
	if got := FramesToDuration(10, 0); got != 0 {
		t.Errorf("FramesToDuration with zero rate = %v, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d", got)
	}
	if got := Clamp(-1.5, -1, 1); got != -1 {
		t.Errorf("Clamp(-1.5, -1, 1) = %v", got)
	}
	if got := Clamp(int64(2), 0, 3); got != 2 {
		t.Errorf("Clamp(2, 0, 3) = %d", got)
	}
}
