// SPDX-License-Identifier: EPL-2.0

// Package oto plays device voices through ebitengine/oto.
//
// oto allows a single context per process. The first Open fixes the
// format; later opens must ask for the same one.
package oto

import (
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/ik5/audstream/device"
	"github.com/ik5/audstream/utils"
)

// Name is the registry key of this backend.
const Name = "oto"

func init() {
	device.Register(Name, New)
}

var shared struct {
	mu     sync.Mutex
	ctx    *oto.Context
	format device.Format
}

func sharedContext(cfg device.Config) (*oto.Context, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	format := cfg.Format()
	if shared.ctx != nil {
		if shared.format != format {
			return nil, errors.Errorf("oto context already open as %d ch @ %d Hz",
				shared.format.Channels, shared.format.SampleRate)
		}
		return shared.ctx, shared.ctx.Resume()
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.Period,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create oto context")
	}
	<-ready

	shared.ctx = ctx
	shared.format = format

	return ctx, nil
}

type backend struct {
	*device.Mixer
	ctx    *oto.Context
	player *oto.Player

	mu  sync.Mutex
	buf []float32
}

// New returns an Opener for the oto context.
func New(cfg device.Config) device.Opener {
	return func(logger golog.Logger) (device.Backend, error) {
		if err := cfg.Format().Validate(); err != nil {
			return nil, err
		}

		ctx, err := sharedContext(cfg)
		if err != nil {
			return nil, err
		}

		b := &backend{Mixer: device.NewMixer(cfg.Format()), ctx: ctx}
		b.player = ctx.NewPlayer(b)
		if cfg.Period > 0 {
			b.player.SetBufferSize(cfg.Format().Frames(cfg.Period) * cfg.Channels * 4)
		}
		b.player.Play()
		logger.Debugw("oto player started", "sample_rate", cfg.SampleRate, "channels", cfg.Channels)

		return b, nil
	}
}

// Read implements io.Reader for the oto player.
func (b *backend) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	samples := len(p) / 4
	samples -= samples % b.Format().Channels
	if cap(b.buf) < samples {
		b.buf = make([]float32, samples)
	}
	buf := b.buf[:samples]

	b.Mix(buf)

	return utils.EncodeFloat32LE(p, buf), nil
}

func (b *backend) Name() string { return Name }

func (b *backend) Close() error {
	if err := b.player.Close(); err != nil {
		return errors.Wrap(err, "close oto player")
	}
	return b.ctx.Suspend()
}
