// SPDX-License-Identifier: EPL-2.0

// Package wavfile renders device voices into a 16-bit PCM WAV file in real
// time. It stands in for a sound card on headless machines.
package wavfile

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/edaniels/golog"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/ik5/audstream/device"
	"github.com/ik5/audstream/utils"
)

// Name is the registry key of this backend.
const Name = "wavfile"

const wavFormatPCM = 1

func init() {
	device.Register(Name, New)
}

// ErrNoOutput is returned when Config.Output is empty.
var ErrNoOutput = errors.New("wavfile: no output path")

type backend struct {
	*device.Mixer
	logger golog.Logger
	period time.Duration

	file *os.File
	enc  *wav.Encoder

	cancel                  func()
	activeBackgroundWorkers sync.WaitGroup
	closeOnce               sync.Once
}

// New returns an Opener that writes to cfg.Output.
func New(cfg device.Config) device.Opener {
	return func(logger golog.Logger) (device.Backend, error) {
		format := cfg.Format()
		if err := format.Validate(); err != nil {
			return nil, err
		}
		if cfg.Output == "" {
			return nil, ErrNoOutput
		}

		f, err := os.Create(cfg.Output)
		if err != nil {
			return nil, errors.Wrap(err, "create wav output")
		}

		period := cfg.Period
		if period <= 0 {
			period = device.DefaultConfig().Period
		}

		b := &backend{
			Mixer:  device.NewMixer(format),
			logger: logger,
			period: period,
			file:   f,
			enc:    wav.NewEncoder(f, format.SampleRate, 16, format.Channels, wavFormatPCM),
		}

		ctx, cancel := context.WithCancel(context.Background())
		b.cancel = cancel
		b.activeBackgroundWorkers.Add(1)
		goutils.ManagedGo(func() { b.render(ctx) }, b.activeBackgroundWorkers.Done)

		return b, nil
	}
}

func (b *backend) render(ctx context.Context) {
	format := b.Format()
	frames := format.Frames(b.period)
	buf := make([]float32, frames*format.Channels)
	out := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		Data:           make([]int, len(buf)),
		SourceBitDepth: 16,
	}

	ticker := time.NewTicker(b.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		b.Mix(buf)
		for i, s := range buf {
			out.Data[i] = int(utils.Float32ToInt16(s))
		}
		if err := b.enc.Write(out); err != nil {
			b.logger.Errorw("writing wav output failed", "error", err)
			return
		}
	}
}

func (b *backend) Name() string { return Name }

func (b *backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.cancel()
		b.activeBackgroundWorkers.Wait()
		err = multierr.Combine(b.enc.Close(), b.file.Close())
	})
	return err
}
