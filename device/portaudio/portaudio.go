// SPDX-License-Identifier: EPL-2.0

// Package portaudio plays device voices through PortAudio's default output.
package portaudio

import (
	"github.com/edaniels/golog"
	"github.com/gordonklaus/portaudio"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ik5/audstream/device"
)

// Name is the registry key of this backend.
const Name = "portaudio"

func init() {
	device.Register(Name, New)
}

type backend struct {
	*device.Mixer
	stream *portaudio.Stream
}

// New returns an Opener for the default PortAudio output device.
func New(cfg device.Config) device.Opener {
	return func(logger golog.Logger) (device.Backend, error) {
		format := cfg.Format()
		if err := format.Validate(); err != nil {
			return nil, err
		}

		if err := portaudio.Initialize(); err != nil {
			return nil, errors.Wrap(err, "initialize portaudio")
		}

		b := &backend{Mixer: device.NewMixer(format)}

		framesPerBuffer := portaudio.FramesPerBufferUnspecified
		if cfg.Period > 0 {
			framesPerBuffer = format.Frames(cfg.Period)
		}

		stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), framesPerBuffer,
			func(out []float32) { b.Mix(out) })
		if err != nil {
			return nil, multierr.Combine(errors.Wrap(err, "open portaudio stream"), portaudio.Terminate())
		}
		if err := stream.Start(); err != nil {
			return nil, multierr.Combine(errors.Wrap(err, "start portaudio stream"), stream.Close(), portaudio.Terminate())
		}
		b.stream = stream
		logger.Debugw("portaudio stream started", "frames_per_buffer", framesPerBuffer)

		return b, nil
	}
}

func (b *backend) Name() string { return Name }

func (b *backend) Close() error {
	return multierr.Combine(b.stream.Stop(), b.stream.Close(), portaudio.Terminate())
}
