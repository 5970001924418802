// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/ik5/audstream/device"
)

// SoundSource holds the spatial and gain attributes of a playing sound.
// Changes reach the device voice immediately when one exists and are
// applied to the next voice otherwise.
type SoundSource struct {
	mu       sync.Mutex
	params   device.Params
	onChange func()
}

func (s *SoundSource) init(onChange func()) {
	s.params = device.DefaultParams()
	s.onChange = onChange
}

func (s *SoundSource) update(fn func(p *device.Params)) {
	s.mu.Lock()
	fn(&s.params)
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Params returns a snapshot of every attribute.
func (s *SoundSource) Params() device.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// SetPitch scales playback speed and frequency. 1 is unchanged.
func (s *SoundSource) SetPitch(pitch float32) {
	s.update(func(p *device.Params) { p.Pitch = pitch })
}

func (s *SoundSource) Pitch() float32 { return s.Params().Pitch }

// SetVolume sets the volume in [0, 100]; values outside are clamped.
func (s *SoundSource) SetVolume(volume float32) {
	s.update(func(p *device.Params) { p.Volume = min(max(volume, 0), 100) })
}

func (s *SoundSource) Volume() float32 { return s.Params().Volume }

// SetPan sets the stereo position in [-1, 1]; values outside are clamped.
func (s *SoundSource) SetPan(pan float32) {
	s.update(func(p *device.Params) { p.Pan = min(max(pan, -1), 1) })
}

func (s *SoundSource) Pan() float32 { return s.Params().Pan }

func (s *SoundSource) SetPosition(x, y, z float32) {
	s.update(func(p *device.Params) { p.Position = device.Vec3{X: x, Y: y, Z: z} })
}

func (s *SoundSource) Position() device.Vec3 { return s.Params().Position }

// SetRelativeToListener makes Position relative to the listener instead of
// absolute.
func (s *SoundSource) SetRelativeToListener(relative bool) {
	s.update(func(p *device.Params) { p.RelativeToListener = relative })
}

func (s *SoundSource) RelativeToListener() bool { return s.Params().RelativeToListener }

// SetMinDistance sets the distance under which the sound is heard at full
// volume. It must be positive.
func (s *SoundSource) SetMinDistance(distance float32) error {
	if !(distance > 0) {
		return errors.Wrapf(ErrInvalidArgument, "min distance %v", distance)
	}
	s.update(func(p *device.Params) { p.MinDistance = distance })
	return nil
}

func (s *SoundSource) MinDistance() float32 { return s.Params().MinDistance }

// SetMaxDistance sets the distance past which attenuation stops growing.
func (s *SoundSource) SetMaxDistance(distance float32) error {
	if !(distance > 0) {
		return errors.Wrapf(ErrInvalidArgument, "max distance %v", distance)
	}
	s.update(func(p *device.Params) { p.MaxDistance = distance })
	return nil
}

func (s *SoundSource) MaxDistance() float32 { return s.Params().MaxDistance }

// SetAttenuation sets how fast the sound fades with distance. 0 disables
// attenuation.
func (s *SoundSource) SetAttenuation(attenuation float32) error {
	if !(attenuation >= 0) {
		return errors.Wrapf(ErrInvalidArgument, "attenuation %v", attenuation)
	}
	s.update(func(p *device.Params) { p.Attenuation = attenuation })
	return nil
}

func (s *SoundSource) Attenuation() float32 { return s.Params().Attenuation }

// SetMinGain and SetMaxGain bound the attenuated gain. Both are clamped to
// [0, 1].
func (s *SoundSource) SetMinGain(gain float32) {
	s.update(func(p *device.Params) { p.MinGain = min(max(gain, 0), 1) })
}

func (s *SoundSource) MinGain() float32 { return s.Params().MinGain }

func (s *SoundSource) SetMaxGain(gain float32) {
	s.update(func(p *device.Params) { p.MaxGain = min(max(gain, 0), 1) })
}

func (s *SoundSource) MaxGain() float32 { return s.Params().MaxGain }
