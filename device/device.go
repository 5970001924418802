// SPDX-License-Identifier: EPL-2.0

package device

import (
	"math"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// State is the playback state of a voice.
type State int

const (
	Stopped State = iota
	Paused
	Playing
)

func (s State) String() string {
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

// Format describes interleaved float32 PCM.
type Format struct {
	Channels   int
	SampleRate int
}

// Validate reports whether f can be played.
func (f Format) Validate() error {
	if f.Channels <= 0 || f.SampleRate <= 0 {
		return errors.Wrapf(ErrInvalidFormat, "channels=%d sample_rate=%d", f.Channels, f.SampleRate)
	}
	return nil
}

// Frames converts a duration to a whole number of frames, at least one.
func (f Format) Frames(d time.Duration) int {
	return max(1, int(d*time.Duration(f.SampleRate)/time.Second))
}

// Vec3 is a position in listener space.
type Vec3 struct {
	X, Y, Z float32
}

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Params are the per-voice spatialization attributes.
type Params struct {
	Pitch              float32
	Volume             float32 // 0-100
	Pan                float32 // -1 left, +1 right
	Position           Vec3
	RelativeToListener bool
	MinDistance        float32
	MaxDistance        float32
	Attenuation        float32
	MinGain            float32
	MaxGain            float32
}

func DefaultParams() Params {
	return Params{
		Pitch:       1,
		Volume:      100,
		MinDistance: 1,
		MaxDistance: math.MaxFloat32,
		Attenuation: 1,
		MinGain:     0,
		MaxGain:     1,
	}
}

// Listener is the point of audition shared by every voice of a backend.
type Listener struct {
	Position Vec3
	Volume   float32 // 0-100
}

func DefaultListener() Listener {
	return Listener{Volume: 100}
}

// Gain returns the linear amplitude factor for p heard by l, using the
// inverse distance clamped model.
func (p Params) Gain(l Listener) float32 {
	pos := p.Position
	if !p.RelativeToListener {
		pos = pos.Sub(l.Position)
	}

	attenuation := float32(1)
	if p.Attenuation > 0 && p.MinDistance > 0 {
		d := min(max(pos.Len(), p.MinDistance), max(p.MaxDistance, p.MinDistance))
		attenuation = p.MinDistance / (p.MinDistance + p.Attenuation*(d-p.MinDistance))
	}

	gain := min(max(p.Volume*0.01*attenuation, p.MinGain), p.MaxGain)

	return gain * l.Volume * 0.01
}

// PanGains returns left and right multipliers for a stereo pan position.
// The centre keeps both channels at unity.
func PanGains(pan float32) (left, right float32) {
	pan = min(max(pan, -1), 1)
	return min(1, 1-pan), min(1, 1+pan)
}

// Voice is one independent playback stream on a backend.
type Voice interface {
	Format() Format
	// Submit queues interleaved samples. The voice owns samples until a
	// later Reclaim reports it finished or Flush discards it.
	Submit(samples []float32) error
	// Reclaim returns the number of buffers fully played since the last call.
	Reclaim() int
	// Queued returns the number of buffers not yet fully played.
	Queued() int
	// PlayedFrames returns frames consumed since the voice was created or
	// last flushed.
	PlayedFrames() int64
	// Flush drops every queued buffer and zeroes PlayedFrames.
	Flush()
	SetState(State) error
	State() State
	SetParams(Params)
	Close() error
}

// Backend creates voices on an output device.
type Backend interface {
	Name() string
	NewVoice(Format) (Voice, error)
	SetListener(Listener)
	Close() error
}

// Opener opens a backend. It is called by Context on first Acquire.
type Opener func(logger golog.Logger) (Backend, error)

// Config describes the output device a Factory should open.
type Config struct {
	SampleRate int
	Channels   int
	// Period is the amount of audio the device requests per callback.
	Period time.Duration
	// Output is a destination path for file backends.
	Output string
}

// DefaultConfig is 44.1 kHz stereo with 10ms periods.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, Channels: 2, Period: 10 * time.Millisecond}
}

func (c Config) Format() Format {
	return Format{Channels: c.Channels, SampleRate: c.SampleRate}
}

// Factory binds a Config to an Opener.
type Factory func(cfg Config) Opener
