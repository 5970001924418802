// SPDX-License-Identifier: EPL-2.0

package tone

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
	Silence
)

var waveformNames = map[Waveform]string{
	Sine:     "sine",
	Square:   "square",
	Sawtooth: "sawtooth",
	Triangle: "triangle",
	Silence:  "silence",
}

func (w Waveform) String() string {
	if name, ok := waveformNames[w]; ok {
		return name
	}
	return "unknown"
}

// ParseWaveform accepts the names printed by String, case-insensitively.
func ParseWaveform(s string) (Waveform, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for w, name := range waveformNames {
		if name == s {
			return w, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownWaveform, "%q", s)
}

// at evaluates one period of the waveform at phase p in [0, 1).
func (w Waveform) at(p float64) float64 {
	switch w {
	case Sine:
		return math.Sin(2 * math.Pi * p)
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		return 2*p - 1
	case Triangle:
		return 4*math.Abs(p-0.5) - 1
	default:
		return 0
	}
}
