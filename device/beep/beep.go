// SPDX-License-Identifier: EPL-2.0

// Package beep plays device voices through the gopxl/beep speaker.
// The speaker is always stereo.
package beep

import (
	"sync"

	"github.com/edaniels/golog"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/pkg/errors"

	"github.com/ik5/audstream/device"
)

// Name is the registry key of this backend.
const Name = "beep"

func init() {
	device.Register(Name, New)
}

type backend struct {
	*device.Mixer

	mu  sync.Mutex
	buf []float32
}

// New returns an Opener for the beep speaker. cfg.Channels is ignored.
func New(cfg device.Config) device.Opener {
	return func(logger golog.Logger) (device.Backend, error) {
		format := device.Format{Channels: 2, SampleRate: cfg.SampleRate}
		if err := format.Validate(); err != nil {
			return nil, err
		}

		sr := beep.SampleRate(format.SampleRate)
		if err := speaker.Init(sr, sr.N(max(cfg.Period, device.DefaultConfig().Period))); err != nil {
			return nil, errors.Wrap(err, "init beep speaker")
		}

		b := &backend{Mixer: device.NewMixer(format)}
		speaker.Play(beep.StreamerFunc(b.stream))
		logger.Debugw("beep speaker started", "sample_rate", format.SampleRate)

		return b, nil
	}
}

func (b *backend) stream(samples [][2]float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(samples) * 2
	if cap(b.buf) < n {
		b.buf = make([]float32, n)
	}
	buf := b.buf[:n]

	b.Mix(buf)
	for i := range samples {
		samples[i][0] = float64(buf[2*i])
		samples[i][1] = float64(buf[2*i+1])
	}

	return len(samples), true
}

func (b *backend) Name() string { return Name }

func (b *backend) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}
