// SPDX-License-Identifier: EPL-2.0

package stream

// Status is the playback state of a Stream.
type Status int

const (
	Stopped Status = iota
	Paused
	Playing
)

func (s Status) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}
