// SPDX-License-Identifier: EPL-2.0

// Package malgo plays device voices through miniaudio.
package malgo

import (
	"sync"

	"github.com/edaniels/golog"
	"github.com/gen2brain/malgo"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ik5/audstream/device"
	"github.com/ik5/audstream/utils"
)

// Name is the registry key of this backend.
const Name = "malgo"

func init() {
	device.Register(Name, New)
}

type backend struct {
	*device.Mixer
	logger golog.Logger

	ctx *malgo.AllocatedContext
	dev *malgo.Device

	mu     sync.Mutex
	buf    []float32
	closed bool
}

// New returns an Opener for the default playback device.
func New(cfg device.Config) device.Opener {
	return func(logger golog.Logger) (device.Backend, error) {
		return open(cfg, logger)
	}
}

func open(cfg device.Config, logger golog.Logger) (*backend, error) {
	format := cfg.Format()
	if err := format.Validate(); err != nil {
		return nil, err
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debugw("miniaudio", "message", message)
	})
	if err != nil {
		return nil, errors.Wrap(err, "init miniaudio context")
	}

	b := &backend{
		Mixer:  device.NewMixer(format),
		logger: logger,
		ctx:    ctx,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	if cfg.Period > 0 {
		deviceConfig.PeriodSizeInFrames = uint32(format.Frames(cfg.Period))
	}

	dev, err := malgo.InitDevice(ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: b.onSendFrames,
	})
	if err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "init playback device"), b.freeContext())
	}
	b.dev = dev

	if err := dev.Start(); err != nil {
		dev.Uninit()
		return nil, multierr.Combine(errors.Wrap(err, "start playback device"), b.freeContext())
	}

	return b, nil
}

func (b *backend) onSendFrames(pOutput, _ []byte, frameCount uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	samples := int(frameCount) * b.Format().Channels
	if cap(b.buf) < samples {
		b.buf = make([]float32, samples)
	}
	buf := b.buf[:samples]

	b.Mix(buf)
	utils.EncodeFloat32LE(pOutput, buf)
}

func (b *backend) Name() string { return Name }

func (b *backend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	err := b.dev.Stop()
	b.dev.Uninit()

	return multierr.Combine(err, b.freeContext())
}

func (b *backend) freeContext() error {
	err := b.ctx.Uninit()
	b.ctx.Free()
	return err
}
