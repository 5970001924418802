// SPDX-License-Identifier: EPL-2.0

package stream

// Channel names the speaker a sample of an interleaved frame is meant for.
type Channel int

const (
	Unspecified Channel = iota
	Mono
	FrontLeft
	FrontRight
	FrontCenter
	LowFrequencyEffects
	BackLeft
	BackRight
	BackCenter
	SideLeft
	SideRight
)

var channelNames = [...]string{
	Unspecified:         "unspecified",
	Mono:                "mono",
	FrontLeft:           "front-left",
	FrontRight:          "front-right",
	FrontCenter:         "front-center",
	LowFrequencyEffects: "lfe",
	BackLeft:            "back-left",
	BackRight:           "back-right",
	BackCenter:          "back-center",
	SideLeft:            "side-left",
	SideRight:           "side-right",
}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "unknown"
	}
	return channelNames[c]
}

// DefaultChannelMap returns the conventional layout for a channel count.
// Counts above eight map to Unspecified.
func DefaultChannelMap(channels int) []Channel {
	switch channels {
	case 1:
		return []Channel{Mono}
	case 2:
		return []Channel{FrontLeft, FrontRight}
	case 3:
		return []Channel{FrontLeft, FrontRight, FrontCenter}
	case 4:
		return []Channel{FrontLeft, FrontRight, BackLeft, BackRight}
	case 5:
		return []Channel{FrontLeft, FrontRight, FrontCenter, BackLeft, BackRight}
	case 6:
		return []Channel{FrontLeft, FrontRight, FrontCenter, LowFrequencyEffects, BackLeft, BackRight}
	case 7:
		return []Channel{FrontLeft, FrontRight, FrontCenter, LowFrequencyEffects, BackCenter, SideLeft, SideRight}
	case 8:
		return []Channel{FrontLeft, FrontRight, FrontCenter, LowFrequencyEffects, BackLeft, BackRight, SideLeft, SideRight}
	}

	if channels <= 0 {
		return nil
	}
	return make([]Channel, channels)
}
